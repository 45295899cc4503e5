package layout

import (
	"sort"

	"github.com/allthingssecurity/immersivereader/text"
)

// Line is an ordered group of tokens judged to lie on the same visual
// baseline, sorted left to right. Lines are ephemeral: they exist only
// within one page's clustering pass.
type Line struct {
	// Tokens are the line's tokens in ascending-x order.
	Tokens []text.PositionedToken

	// Y is the baseline of the line's anchor token (the first token
	// encountered in reading order when the line was opened).
	Y float64

	// AverageFontSize is the mean font size of the line's tokens and
	// serves as the line's representative size.
	AverageFontSize float64
}

// Text returns the line's tokens joined with punctuation-aware spacing.
func (l Line) Text() string {
	return JoinTokens(l.Tokens)
}

// ClusterLines groups a page's tokens into visual lines.
//
// Tokens are sorted top-to-bottom, left-to-right (descending y then
// ascending x, for a bottom-left page origin), then walked in order. A
// new line starts whenever a token's absolute y-distance from the first
// token of the current line exceeds cfg.LineTolerance. Finalized lines
// are re-sorted by ascending x so sub/superscript tokens land in reading
// position.
//
// A single stray token becomes a one-token line; an empty page yields
// zero lines.
func ClusterLines(tokens []text.PositionedToken, cfg Config) []Line {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]text.PositionedToken, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []Line
	var current []text.PositionedToken
	anchorY := sorted[0].Y

	flush := func() {
		if len(current) == 0 {
			return
		}
		lines = append(lines, buildLine(current, anchorY))
		current = nil
	}

	for _, tok := range sorted {
		if len(current) == 0 {
			anchorY = tok.Y
			current = append(current, tok)
			continue
		}
		if absFloat(tok.Y-anchorY) > cfg.LineTolerance {
			flush()
			anchorY = tok.Y
		}
		current = append(current, tok)
	}
	flush()

	return lines
}

// buildLine finalizes one token group into a Line.
func buildLine(tokens []text.PositionedToken, anchorY float64) Line {
	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].X < tokens[j].X
	})

	totalFontSize := 0.0
	for _, tok := range tokens {
		totalFontSize += tok.FontSize
	}

	return Line{
		Tokens:          tokens,
		Y:               anchorY,
		AverageFontSize: totalFontSize / float64(len(tokens)),
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
