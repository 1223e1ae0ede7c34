// Package textmatch holds the string primitives shared by every answer
// comparison: whitespace and digit normalization, number parsing, Arabic
// orthographic folding and edit-distance similarity.
package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// definiteArticle is stripped from the start of fuzzy-compared answers.
const definiteArticle = "ال"

// NormalizeSpace trims s and collapses every internal whitespace run to a
// single ASCII space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeDigits rewrites Eastern Arabic (٠-٩) and Extended Arabic-Indic
// (۰-۹) digits to ASCII. Other runes pass through unchanged.
func NormalizeDigits(s string) string {
	out, _, err := transform.String(runes.Map(asciiDigit), s)
	if err != nil {
		return s
	}
	return out
}

func asciiDigit(r rune) rune {
	switch {
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	}
	return r
}

// isArabicMark reports whether r is a diacritic, Quranic annotation or the
// tatweel (kashida) elongation character.
func isArabicMark(r rune) bool {
	switch {
	case r == 0x0640: // tatweel
		return true
	case r >= 0x0610 && r <= 0x061A:
		return true
	case r >= 0x064B && r <= 0x065F:
		return true
	case r == 0x0670: // superscript alef
		return true
	case r >= 0x06D6 && r <= 0x06ED:
		return unicode.Is(unicode.Mn, r)
	}
	return false
}

func foldArabicLetter(r rune) rune {
	switch r {
	case 'أ', 'إ', 'آ':
		return 'ا'
	case 'ة':
		return 'ه'
	case 'ى':
		return 'ي'
	}
	return r
}

// arabicFolder is built per call: the chained transformers keep internal
// buffers and are not safe for concurrent use.
func arabicFolder() transform.Transformer {
	return transform.Chain(
		runes.Remove(runes.Predicate(isArabicMark)),
		runes.Map(foldArabicLetter),
		cases.Lower(language.Und),
	)
}

// NormalizeArabic produces the canonical form used by fuzzy comparison:
// diacritics and tatweel removed, alef forms unified, ة→ه, ى→ي, a leading
// definite article stripped, lower-cased and whitespace-collapsed.
func NormalizeArabic(s string) string {
	folded, _, err := transform.String(arabicFolder(), s)
	if err != nil {
		folded = strings.ToLower(s)
	}
	folded = NormalizeSpace(folded)
	if rest, ok := strings.CutPrefix(folded, definiteArticle); ok && len([]rune(rest)) >= 2 {
		folded = strings.TrimSpace(rest)
	}
	return folded
}
