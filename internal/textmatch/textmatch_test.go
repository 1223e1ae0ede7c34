package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber_DigitScripts(t *testing.T) {
	for _, in := range []string{"2", "٢", "۲", " 2 "} {
		v, ok := ParseNumber(in)
		require.True(t, ok, in)
		assert.Equal(t, 2.0, v, in)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"1/2", 0.5, true},
		{"-1/4", -0.25, true},
		{"١/٤", 0.25, true},
		{"3,5", 3.5, true},
		{"٣٫٥", 3.5, true},
		{"007", 7, true},
		{"1/0", 0, false},
		{"inf", 0, false},
		{"NaN", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"1/", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseNumber(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "0123456789", NormalizeDigits("٠١٢٣٤٥٦٧٨٩"))
	assert.Equal(t, "0123456789", NormalizeDigits("۰۱۲۳۴۵۶۷۸۹"))
	assert.Equal(t, "x=42", NormalizeDigits("x=٤٢"))
}

func TestNormalizeArabic(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"المدرسة", "مدرسه"},
		{"مدرسة", "مدرسه"},
		{"أحمد", "احمد"},
		{"إسلام", "اسلام"},
		{"آمن", "امن"},
		{"مُحَمَّد", "محمد"},
		{"مستشفى", "مستشفي"},
		{"كتـــاب", "كتاب"},
		{"  Hello   World ", "hello world"},
		{"ال", "ال"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeArabic(tc.in), tc.in)
	}
}

func TestSimilarity(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"مدرسه", "مدرسة"},
		{"", "abc"},
		{"flaw", "lawn"},
	}
	for _, p := range pairs {
		assert.Equal(t, 1.0, Similarity(p[0], p[0]), "reflexive %q", p[0])
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), "symmetric %q/%q", p[0], p[1])
	}
	assert.InDelta(t, 1-3.0/7.0, Similarity("kitten", "sitting"), 1e-9)
	assert.Equal(t, 1.0, Similarity("", ""))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 3, Levenshtein("kitten", "sitting"))
	assert.Equal(t, 0, Levenshtein("كتاب", "كتاب"))
	assert.Equal(t, 1, Levenshtein("كتاب", "كتب"))
	assert.Equal(t, 4, Levenshtein("", "abcd"))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		expected string
		opts     Options
		want     Result
	}{
		{"exact with spaces", "  hello   world ", "hello world", Options{}, ExactMatch},
		{"case sensitive", "Paris", "paris", Options{}, NoMatch},
		{"case folded when fuzzy", "Paris", "paris", Options{Fuzzy: true}, FuzzyMatch},
		{"empty never matches", "", "", Options{}, NoMatch},
		{"eastern digit", "٢", "2", Options{}, NumericMatch},
		{"extended digit", "۲", "2", Options{}, NumericMatch},
		{"fraction vs decimal", "1/2", "0.5", Options{}, NumericMatch},
		{"decimal vs fraction", "0.5", "1/2", Options{}, NumericMatch},
		{"trailing zero", "0.50", "0.5", Options{}, NumericMatch},
		{"no epsilon", "0.3333", "1/3", Options{}, NoMatch},
		{"forced numeric on words", "3", "three", Options{Numeric: true}, NoMatch},
		{"article stripped", "مدرسة", "المدرسة", Options{Fuzzy: true}, FuzzyMatch},
		{"fuzzy typo", "القاهره", "القاهرة", Options{Fuzzy: true}, FuzzyMatch},
		{"fuzzy off", "مدرسة", "المدرسة", Options{}, NoMatch},
		{"unrelated words", "بيت", "مدرسة", Options{Fuzzy: true}, NoMatch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Compare(tc.user, tc.expected, tc.opts))
		})
	}
}

func TestExactEqual(t *testing.T) {
	assert.True(t, ExactEqual(" a  b", "a b"))
	assert.False(t, ExactEqual("", ""))
	assert.False(t, ExactEqual("A", "a"))
}
