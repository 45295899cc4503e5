package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/allthingssecurity/immersivereader/text"
)

// closingPunct are characters that must not be preceded by an inserted
// space. Direct glyph-run concatenation would otherwise produce the very
// common "word ," artifact.
const closingPunct = ",.;:!?)"

// hyphenDash are trailing characters after which no space is inserted,
// so runs split mid-word or around dashes rejoin cleanly.
const hyphenDash = "-‐‑–—"

// JoinTokens concatenates a line's tokens into one string, inserting a
// single space between adjacent tokens unless the prior text already
// ends in whitespace, the next token begins with closing punctuation, or
// the prior text ends in a hyphen/dash. Whitespace runs are not
// collapsed here; collapsing happens at paragraph finalization.
func JoinTokens(tokens []text.PositionedToken) string {
	var sb strings.Builder
	for _, tok := range tokens {
		appendWithSpacing(&sb, tok.Text)
	}
	return sb.String()
}

// appendWithSpacing appends next to sb, applying the joiner's spacing
// rule between the accumulated text and next.
func appendWithSpacing(sb *strings.Builder, next string) {
	if sb.Len() > 0 && next != "" && needsSpace(sb.String(), next) {
		sb.WriteByte(' ')
	}
	sb.WriteString(next)
}

// needsSpace reports whether a space belongs between prior and next.
func needsSpace(prior, next string) bool {
	if prior == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(prior)
	if unicode.IsSpace(last) || strings.ContainsRune(hyphenDash, last) {
		return false
	}
	first, _ := utf8.DecodeRuneInString(next)
	return !strings.ContainsRune(closingPunct, first)
}
