package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds a string for comparison: NFKD decomposition with combining
// marks stripped, remaining non-ASCII dropped, lower case, every run of
// non-alphanumeric characters collapsed to a single space, trimmed.
// Total: never fails, empty input yields empty output.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r + ('a' - 'A'))
		case r > unicode.MaxASCII:
			// Unmappable characters vanish without leaving a space.
		default:
			pendingSpace = true
		}
	}
	return b.String()
}

// TokenSet returns the set of normalized tokens of at least minLen characters.
func TokenSet(s string, minLen int) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, token := range strings.Fields(Normalize(s)) {
		if len(token) >= minLen {
			tokens[token] = struct{}{}
		}
	}
	return tokens
}

// CollapseSpaces rewrites a raw line with internal whitespace collapsed to
// single spaces and no leading/trailing whitespace.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
