package layout

import (
	"testing"

	"github.com/allthingssecurity/immersivereader/model"
	"github.com/allthingssecurity/immersivereader/text"
)

// makeLine creates a single-token test line.
func makeLine(txt string, y, fontSize float64) Line {
	return Line{
		Tokens:          []text.PositionedToken{{Text: txt, X: 72, Y: y, FontSize: fontSize}},
		Y:               y,
		AverageFontSize: fontSize,
	}
}

func assemble(t *testing.T, cfg Config, pageMean float64, lines ...Line) []model.Block {
	t.Helper()
	a := NewAssembler(cfg, pageMean)
	for _, line := range lines {
		a.Feed(line)
	}
	return a.Flush()
}

func TestAssembler_EmptyPage(t *testing.T) {
	blocks := assemble(t, FastConfig(), 0)
	if len(blocks) != 0 {
		t.Errorf("Expected no blocks for empty page, got %d", len(blocks))
	}
}

func TestAssembler_SingleLine(t *testing.T) {
	blocks := assemble(t, FastConfig(), 12, makeLine("Hello world", 700, 12))
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Kind != model.KindParagraph || blocks[0].Text != "Hello world" {
		t.Errorf("Unexpected block: %+v", blocks[0])
	}
}

func TestAssembler_SoftWrapMergesWithSpace(t *testing.T) {
	blocks := assemble(t, FastConfig(), 12,
		makeLine("The quick brown", 700, 12),
		makeLine("fox jumps over.", 686, 12),
	)
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Text != "The quick brown fox jumps over." {
		t.Errorf("Unexpected merge: %q", blocks[0].Text)
	}
}

func TestAssembler_HyphenationRepair(t *testing.T) {
	blocks := assemble(t, FastConfig(), 12,
		makeLine("signed at the conven-", 700, 12),
		makeLine("tion last year", 686, 12),
	)
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Text != "signed at the convention last year" {
		t.Errorf("De-hyphenation failed: %q", blocks[0].Text)
	}
}

func TestAssembler_HyphenAfterNonLetterKept(t *testing.T) {
	blocks := assemble(t, FastConfig(), 12,
		makeLine("see figure 3-", 700, 12),
		makeLine("and following", 686, 12),
	)
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	// A hyphen not preceded by a letter is not a soft line-break hyphen:
	// it stays, and the wrapped line is appended with a space.
	if blocks[0].Text != "see figure 3- and following" {
		t.Errorf("Unexpected merge: %q", blocks[0].Text)
	}
}

func TestAssembler_SentenceEndStartsNewParagraph(t *testing.T) {
	blocks := assemble(t, FastConfig(), 12,
		makeLine("That was the end.", 700, 12),
		makeLine("A new thought begins", 686, 12),
	)
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}
}

func TestAssembler_SentenceEndWithClosingQuote(t *testing.T) {
	blocks := assemble(t, FastConfig(), 12,
		makeLine(`"It is done."`, 700, 12),
		makeLine("She left the room", 686, 12),
	)
	if len(blocks) != 2 {
		t.Fatalf("Expected boundary after quoted sentence, got %d blocks", len(blocks))
	}
}

func TestAssembler_FontJumpStartsNewParagraph(t *testing.T) {
	// 25% jump forces a boundary even in fast mode at a genuine new line.
	blocks := assemble(t, FastConfig(), 12,
		makeLine("small print here", 700, 12),
		makeLine("suddenly bigger", 686, 15),
	)
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}

	// A 10% jump is below the threshold and merges.
	blocks = assemble(t, FastConfig(), 12,
		makeLine("small print here", 700, 12),
		makeLine("slightly bigger", 686, 13.2),
	)
	if len(blocks) != 1 {
		t.Fatalf("Expected merge below 12%% jump, got %d blocks", len(blocks))
	}
}

func TestAssembler_AccurateBreaksEveryLine(t *testing.T) {
	blocks := assemble(t, AccurateConfig(), 12,
		makeLine("first line without terminal", 700, 12),
		makeLine("second line", 686, 12),
		makeLine("third line", 672, 12),
	)
	if len(blocks) != 3 {
		t.Fatalf("Accurate mode: expected 3 blocks, got %d", len(blocks))
	}
}

func TestAssembler_ModeSensitivityAtSameLineGap(t *testing.T) {
	// A 2.5-unit gap with a 25% font jump: fast mode treats the second
	// line as a fragment of the same rendered line and merges without a
	// boundary decision; accurate mode sees a genuine new line and never
	// merges across a >12% jump.
	lines := []Line{
		makeLine("running text", 700, 12),
		makeLine("big fragment", 697.5, 15),
	}

	fast := assemble(t, FastConfig(), 12, lines...)
	if len(fast) != 1 {
		t.Errorf("Fast mode: expected 1 block, got %d", len(fast))
	}

	accurate := assemble(t, AccurateConfig(), 12, lines...)
	if len(accurate) != 2 {
		t.Errorf("Accurate mode: expected 2 blocks, got %d", len(accurate))
	}
}

func TestAssembler_SameLineFragmentUsesJoinerRule(t *testing.T) {
	// Fragments of one rendered line rejoin under the joiner's spacing
	// rule: no space before punctuation.
	blocks := assemble(t, AccurateConfig(), 12,
		makeLine("Hello", 700, 12),
		makeLine(",", 700.5, 12),
		makeLine("world", 699.8, 12),
	)
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Text != "Hello, world" {
		t.Errorf("Expected 'Hello, world', got %q", blocks[0].Text)
	}
}

func TestAssembler_HeadingTagging(t *testing.T) {
	// Page mean 16: a draft at 24 (1.5x) is a heading, one at 17.6
	// (1.1x) is not.
	blocks := assemble(t, AccurateConfig(), 16,
		makeLine("Introduction", 700, 24),
		makeLine("Body text follows here.", 660, 12),
	)
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}
	if !blocks[0].IsHeading() || blocks[0].Level != 2 {
		t.Errorf("Expected level-2 heading, got %+v", blocks[0])
	}
	if blocks[1].IsHeading() {
		t.Errorf("Body paragraph wrongly tagged as heading: %+v", blocks[1])
	}

	blocks = assemble(t, AccurateConfig(), 16,
		makeLine("Not quite a heading", 700, 17.6),
		makeLine("Body text follows here.", 660, 12),
	)
	if blocks[0].IsHeading() {
		t.Errorf("1.1x mean must not be a heading: %+v", blocks[0])
	}
}

func TestAssembler_WhitespaceCollapsedAtFinalization(t *testing.T) {
	blocks := assemble(t, FastConfig(), 12,
		makeLine("spaced   out    text ", 700, 12),
	)
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Text != "spaced out text" {
		t.Errorf("Whitespace not collapsed: %q", blocks[0].Text)
	}
}

func TestAssembler_EmptyTextYieldsNoBlock(t *testing.T) {
	blocks := assemble(t, FastConfig(), 12, makeLine("   ", 700, 12))
	if len(blocks) != 0 {
		t.Errorf("Expected blank draft to be dropped, got %d blocks", len(blocks))
	}
}

func TestAssemblePage_HeadingUsesPageMean(t *testing.T) {
	// Tokens at 24, 12, 12: page mean is 16, so the 24-point line is
	// exactly 1.5x the mean and crosses the 1.3x heading threshold.
	tokens := []text.PositionedToken{
		{Text: "Chapter One", X: 72, Y: 720, FontSize: 24},
		{Text: "It begins quietly.", X: 72, Y: 680, FontSize: 12},
		{Text: "Nothing moves yet.", X: 72, Y: 666, FontSize: 12},
	}

	blocks := AssemblePage(tokens, AccurateConfig())
	if len(blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(blocks))
	}
	if !blocks[0].IsHeading() {
		t.Errorf("Expected heading first, got %+v", blocks[0])
	}
	for i, b := range blocks[1:] {
		if b.IsHeading() {
			t.Errorf("Block %d wrongly tagged heading: %+v", i+1, b)
		}
	}
}

func TestAssemblePage_EmptyPage(t *testing.T) {
	if blocks := AssemblePage(nil, FastConfig()); len(blocks) != 0 {
		t.Errorf("Expected no blocks, got %d", len(blocks))
	}
}
