package ocr

import "context"

// Recognizer is the external text-recognition capability the engine's
// fallback path depends on: an opaque image-region-to-string function.
// The engine's core logic is testable without a real recognition
// backend by injecting a Stub.
type Recognizer interface {
	// Recognize performs text recognition on encoded image data
	// (PNG, TIFF, JPEG, ...) and returns the recognized text.
	Recognize(ctx context.Context, imageData []byte) (string, error)
}

// Stub is a Recognizer that returns fixed values, for tests and for
// running the engine without a recognition backend.
type Stub struct {
	// Text is returned by every Recognize call when Err is nil.
	Text string

	// Err, when non-nil, is returned by every Recognize call.
	Err error

	// Calls counts Recognize invocations.
	Calls int
}

// Recognize returns the stub's fixed text or error.
func (s *Stub) Recognize(_ context.Context, _ []byte) (string, error) {
	s.Calls++
	if s.Err != nil {
		return "", s.Err
	}
	return s.Text, nil
}
