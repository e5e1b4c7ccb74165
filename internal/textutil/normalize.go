package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransform decomposes Unicode text and drops combining marks so that
// accented dialogue compares equal to the plain ASCII an ASR engine emits.
var foldTransform = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes text for matching: lowercase, diacritics folded,
// all non-alphanumeric characters removed, whitespace runs collapsed to a
// single space, leading and trailing space trimmed.
//
// Normalize is pure and idempotent. Whitespace-only input normalizes to the
// empty string, which downstream matching treats as unmatchable.
func Normalize(text string) string {
	if folded, _, err := transform.String(foldTransform, text); err == nil {
		text = folded
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Words normalizes text and splits it into its word sequence.
// Returns nil for input that normalizes to the empty string.
func Words(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}
