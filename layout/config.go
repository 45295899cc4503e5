// Package layout reconstructs a page's reading structure from positioned
// tokens: it clusters tokens into visual lines, joins line tokens into
// strings with punctuation-aware spacing, and assembles lines into
// paragraph and heading blocks.
package layout

import "github.com/allthingssecurity/immersivereader/model"

// Config holds the threshold-and-policy preset for one extraction pass.
// The fast and accurate presets differ in clustering tolerances and in
// whether a genuine new line always starts a new paragraph.
type Config struct {
	// LineTolerance is the maximum absolute y-distance (page units) from
	// the first token of the current line for a token to join that line.
	// Tighter threshold = more, smaller line groups, more faithful to
	// glyph baselines with tolerance for sub/superscripts.
	LineTolerance float64

	// SameLineTolerance is the maximum y-gap between an incoming line and
	// the open paragraph draft for the line to be treated as a
	// continuation fragment of the same rendered line (wrapped glyph runs
	// split across text-show operators).
	SameLineTolerance float64

	// FontJumpRatio is the relative font-size increase that forces a
	// paragraph boundary: a line whose font size exceeds the draft's by
	// more than this fraction starts a new paragraph.
	FontJumpRatio float64

	// HeadingRatio is the multiple of the page's mean token font size at
	// or above which a finalized paragraph is tagged as a heading.
	HeadingRatio float64

	// BreakAtEveryLine makes every genuine line boundary a paragraph
	// boundary, trading granularity for fidelity (accurate mode).
	BreakAtEveryLine bool
}

// FastConfig returns the preset for fast mode: looser tolerances and
// longer merged paragraphs.
func FastConfig() Config {
	return Config{
		LineTolerance:     2.5,
		SameLineTolerance: 3.0,
		FontJumpRatio:     0.12,
		HeadingRatio:      1.3,
		BreakAtEveryLine:  false,
	}
}

// AccurateConfig returns the preset for accurate mode: tighter tolerances
// and a paragraph break at every genuine line boundary.
func AccurateConfig() Config {
	return Config{
		LineTolerance:     1.5,
		SameLineTolerance: 2.0,
		FontJumpRatio:     0.12,
		HeadingRatio:      1.3,
		BreakAtEveryLine:  true,
	}
}

// ConfigFor returns the preset for the given mode. Unknown modes fall
// back to the fast preset.
func ConfigFor(mode model.Mode) Config {
	if mode == model.ModeAccurate {
		return AccurateConfig()
	}
	return FastConfig()
}
