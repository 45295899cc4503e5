// Package raster prepares rendered page images for text recognition:
// it flattens the image to 8-bit grayscale and encodes it as PNG, the
// form the recognition capability consumes.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// EncodeGrayPNG converts img to 8-bit grayscale and returns it PNG
// encoded. Recognition engines behave more predictably on grayscale
// input than on anti-aliased color renders.
func EncodeGrayPNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Copy(gray, bounds.Min, img, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
