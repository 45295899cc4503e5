// Package text normalizes a page's raw positioned text runs into uniform
// positional tokens consumed by line clustering.
package text

import (
	"math"

	"golang.org/x/text/unicode/norm"
)

// Matrix is the 2D affine transform attached to a text run, in the usual
// PDF order: [A B C D E F] maps (x, y) to (A*x + C*y + E, B*x + D*y + F).
type Matrix struct {
	A, B, C, D, E, F float64
}

// RawRun is one glyph run as supplied by the decoding collaborator:
// the run's string, its transform, and its declared advance width in
// unscaled text-space units.
type RawRun struct {
	Text      string
	Transform Matrix
	Advance   float64
}

// PositionedToken is one glyph run's text with its page-space origin
// (origin bottom-left, y increasing upward) and derived metrics.
// Tokens are immutable and consumed only by line clustering.
type PositionedToken struct {
	Text     string
	X, Y     float64
	FontSize float64
	Width    float64
}

// Ingest converts a page's raw runs into positioned tokens.
//
// FontSize is the magnitude of the transform's vertical basis vector,
// hypot(C, D); Width is the declared advance scaled by the horizontal
// basis magnitude hypot(A, B). Run text is NFC-normalized so that
// decomposed glyph sequences compare and join consistently downstream.
//
// Output order is unspecified. Malformed runs (zero-length strings) are
// passed through; later stages filter them naturally by producing empty
// text.
func Ingest(runs []RawRun) []PositionedToken {
	tokens := make([]PositionedToken, 0, len(runs))
	for _, run := range runs {
		m := run.Transform
		tokens = append(tokens, PositionedToken{
			Text:     norm.NFC.String(run.Text),
			X:        m.E,
			Y:        m.F,
			FontSize: math.Hypot(m.C, m.D),
			Width:    run.Advance * math.Hypot(m.A, m.B),
		})
	}
	return tokens
}

// MeanFontSize returns the arithmetic mean of the tokens' font sizes,
// or 0 for an empty slice. The mean is computed per page, not
// document-wide, so heading sensitivity can vary page to page.
func MeanFontSize(tokens []PositionedToken) float64 {
	if len(tokens) == 0 {
		return 0
	}
	total := 0.0
	for _, tok := range tokens {
		total += tok.FontSize
	}
	return total / float64(len(tokens))
}
