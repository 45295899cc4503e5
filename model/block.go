// Package model defines the shared data types of the reconstruction engine:
// the semantic blocks a document is flattened into, and the quality modes
// that control extraction behavior.
package model

// BlockKind identifies the semantic role of a block.
type BlockKind string

const (
	// KindParagraph is ordinary flowing body text.
	KindParagraph BlockKind = "paragraph"

	// KindHeading is a short large-font block that introduces a section.
	KindHeading BlockKind = "heading"
)

// Block is the unit of the persisted, reflowable document.
// Text is HTML-escaped plain text; no styling is carried beyond the
// heading level. A document's blocks form one append-only sequence
// indexed 0..N-1 in strict page-then-within-page order; downstream
// consumers (reading view, search, TOC, bookmarks) address blocks by
// that integer index, so the sequence is never reordered or renumbered
// after creation except by a full re-extraction.
type Block struct {
	// Kind is "paragraph" or "heading".
	Kind BlockKind

	// Level is the heading level (2 for detected headings, 0 otherwise).
	// Heading detection is currently binary: large-font paragraphs are
	// tagged level 2, and no level-1/level-3 inference is attempted.
	Level int

	// Text is the HTML-escaped block text with internal whitespace runs
	// collapsed to single spaces and leading/trailing whitespace trimmed.
	Text string
}

// Paragraph creates a paragraph block.
func Paragraph(text string) Block {
	return Block{Kind: KindParagraph, Text: text}
}

// Heading creates a level-2 heading block.
func Heading(text string) Block {
	return Block{Kind: KindHeading, Level: 2, Text: text}
}

// IsHeading reports whether the block is a heading.
func (b Block) IsHeading() bool {
	return b.Kind == KindHeading
}

// Mode selects the threshold-and-policy preset used by line clustering
// and paragraph assembly, trading paragraph granularity/fidelity against
// merge aggressiveness.
type Mode string

const (
	// ModeFast uses looser clustering tolerances and prefers longer
	// merged paragraphs.
	ModeFast Mode = "fast"

	// ModeAccurate uses tighter clustering tolerances and always breaks
	// paragraphs at genuine line boundaries.
	ModeAccurate Mode = "accurate"
)

// Valid reports whether the mode is one of the defined presets.
func (m Mode) Valid() bool {
	return m == ModeFast || m == ModeAccurate
}
