package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips combining marks so accented and unaccented
// spellings compare equal (OCR output frequently loses accents)
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize prepares raw claim text for extraction: NFC normalization,
// control characters replaced by spaces, runs of spaces and tabs
// collapsed, blank lines removed. Total: never fails, empty in gives
// empty out.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	if normalized, _, err := transform.String(norm.NFC, text); err == nil {
		text = normalized
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n':
			b.WriteRune(r)
		case r == '\t', r == '\u00a0', r == '\u202f':
			// No-break spaces (French thousands separators) become
			// plain spaces; the amount patterns accept either form
			b.WriteRune(' ')
		case unicode.IsControl(r) || !unicode.IsPrint(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	lines := strings.Split(b.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = collapseSpaces(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// collapseSpaces squeezes runs of ASCII spaces and trims the line
func collapseSpaces(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	prevSpace := false
	for _, r := range line {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// Fold lowercases and strips diacritics for keyword matching.
// Not suitable for span arithmetic: folding changes byte offsets.
func Fold(text string) string {
	if folded, _, err := transform.String(foldTransformer, text); err == nil {
		text = folded
	}
	return strings.ToLower(text)
}
