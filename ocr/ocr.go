//go:build ocr

// Package ocr provides the optical recognition capability used by the
// reconstruction engine's per-page fallback path.
//
// This implementation wraps the Tesseract engine via gosseract and
// requires Tesseract to be installed on the system. On macOS, install
// via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract for page text recognition. Client implements
// Recognizer and is configured for a single fixed language per instance.
type Client struct {
	client *gosseract.Client
}

// New creates a recognition client for the given Tesseract language code
// (e.g. "eng"). An empty language keeps Tesseract's default. The client
// must be closed when no longer needed to release resources.
func New(language string) (*Client, error) {
	client := gosseract.NewClient()
	if language != "" {
		if err := client.SetLanguage(language); err != nil {
			client.Close()
			return nil, fmt.Errorf("set language %q: %w", language, err)
		}
	}
	return &Client{client: client}, nil
}

// Close releases recognition resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Recognize performs text recognition on encoded image data and returns
// the recognized text with leading/trailing whitespace trimmed.
func (c *Client) Recognize(ctx context.Context, imageData []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	result, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognition failed: %w", err)
	}

	return strings.TrimSpace(result), nil
}
