package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/allthingssecurity/immersivereader/model"
	"github.com/allthingssecurity/immersivereader/text"
)

// sentenceTerminal are the marks that end a sentence for boundary
// detection purposes.
const sentenceTerminal = ".!?"

// closingTrailers are quotes/brackets that may follow a sentence-terminal
// mark without hiding it.
const closingTrailers = `"'”’»)]}`

// draft is the in-progress accumulation of lines before a boundary
// decision finalizes it into a block. The assembler owns exactly zero or
// one draft at a time; a nil draft is the Empty state.
type draft struct {
	text     string
	fontSize float64 // running pairwise average across merged lines
	y        float64 // last/representative baseline
}

// Assembler merges consecutive lines into paragraphs, splitting at
// boundaries signalled by vertical gap, font-size change, and trailing
// punctuation; it repairs hyphenation across soft line breaks and tags
// large-font paragraphs as headings.
//
// The assembler is a two-state machine: Empty (no open draft) and
// Accumulating (one open draft). State does not cross page boundaries;
// create one Assembler per page.
type Assembler struct {
	cfg              Config
	pageMeanFontSize float64

	draft  *draft
	blocks []model.Block
}

// NewAssembler creates an assembler for one page. pageMeanFontSize is
// the arithmetic mean of all token font sizes on that page and drives
// the heading threshold.
func NewAssembler(cfg Config, pageMeanFontSize float64) *Assembler {
	return &Assembler{cfg: cfg, pageMeanFontSize: pageMeanFontSize}
}

// Feed advances the state machine with the next line in reading order.
func (a *Assembler) Feed(line Line) {
	if a.draft == nil {
		a.open(line)
		return
	}

	d := a.draft
	gap := absFloat(line.Y - d.y)

	if gap < a.cfg.SameLineTolerance {
		// Continuation fragment of the same rendered line: wrapped glyph
		// runs split across text-show operators. Not a boundary decision.
		var sb strings.Builder
		sb.WriteString(d.text)
		appendWithSpacing(&sb, line.Text())
		d.text = sb.String()
		d.fontSize = (d.fontSize + line.AverageFontSize) / 2
		d.y = (d.y + line.Y) / 2
		return
	}

	if a.isBoundary(d, line) {
		a.finalize()
		a.open(line)
		return
	}

	// Soft wrap: the line continues the current paragraph.
	if stem, ok := stripSoftHyphen(d.text); ok {
		d.text = stem + line.Text()
	} else {
		d.text = d.text + " " + line.Text()
	}
	d.y = line.Y
	d.fontSize = (d.fontSize + line.AverageFontSize) / 2
}

// Flush finalizes any open draft and returns the page's blocks in order.
// Block text is raw at this stage; HTML escaping happens at emission.
func (a *Assembler) Flush() []model.Block {
	a.finalize()
	return a.blocks
}

// open starts a new draft from a line.
func (a *Assembler) open(line Line) {
	a.draft = &draft{
		text:     line.Text(),
		fontSize: line.AverageFontSize,
		y:        line.Y,
	}
}

// isBoundary reports whether line starts a new paragraph rather than
// continuing the open draft.
func (a *Assembler) isBoundary(d *draft, line Line) bool {
	if a.cfg.BreakAtEveryLine {
		return true
	}
	if endsSentence(d.text) {
		return true
	}
	return line.AverageFontSize > d.fontSize*(1+a.cfg.FontJumpRatio)
}

// finalize pushes the open draft (if any) to the output, collapsing
// internal whitespace runs to single spaces and trimming. Drafts whose
// font size reaches HeadingRatio times the page mean become headings.
// Drafts that collapse to empty text contribute no block.
func (a *Assembler) finalize() {
	d := a.draft
	if d == nil {
		return
	}
	a.draft = nil

	collapsed := strings.Join(strings.Fields(d.text), " ")
	if collapsed == "" {
		return
	}

	if a.pageMeanFontSize > 0 && d.fontSize >= a.cfg.HeadingRatio*a.pageMeanFontSize {
		a.blocks = append(a.blocks, model.Heading(collapsed))
		return
	}
	a.blocks = append(a.blocks, model.Paragraph(collapsed))
}

// AssemblePage runs the full per-page reconstruction: cluster tokens into
// lines, then assemble lines into blocks. The heading threshold uses the
// mean font size of the page's own tokens.
func AssemblePage(tokens []text.PositionedToken, cfg Config) []model.Block {
	lines := ClusterLines(tokens, cfg)
	a := NewAssembler(cfg, text.MeanFontSize(tokens))
	for _, line := range lines {
		a.Feed(line)
	}
	return a.Flush()
}

// endsSentence reports whether s ends in a sentence-terminal mark,
// optionally followed by closing quotes/brackets.
func endsSentence(s string) bool {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	s = strings.TrimRight(s, closingTrailers)
	if s == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(s)
	return strings.ContainsRune(sentenceTerminal, last)
}

// stripSoftHyphen strips a trailing hyphen that is preceded by a letter,
// returning the de-hyphenated stem. The continuation line is then
// appended without a space, so "conven-" + "tion" yields "convention".
func stripSoftHyphen(s string) (string, bool) {
	last, size := utf8.DecodeLastRuneInString(s)
	if size == 0 {
		return s, false
	}
	// Only repair hyphenation proper: em/en dashes stay.
	if last != '-' && last != '‐' && last != '­' {
		return s, false
	}
	stem := s[:len(s)-size]
	prev, psize := utf8.DecodeLastRuneInString(stem)
	if psize == 0 || !unicode.IsLetter(prev) {
		return s, false
	}
	return stem, true
}
