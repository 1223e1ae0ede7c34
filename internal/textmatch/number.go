package textmatch

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a learner- or author-supplied number. Arabic-script
// digits are accepted, a comma or the Arabic decimal separator may stand in
// for the decimal point and "a/b" is evaluated as a fraction. Results that
// are not finite (such as "1/0") are rejected.
func ParseNumber(s string) (float64, bool) {
	s = NormalizeSpace(NormalizeDigits(s))
	if s == "" {
		return 0, false
	}
	s = strings.NewReplacer("٫", ".", ",", ".", "−", "-").Replace(s)

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, okN := parseFinite(num)
		d, okD := parseFinite(den)
		if !okN || !okD || d == 0 {
			return 0, false
		}
		return finite(n / d)
	}
	return parseFinite(s)
}

// LooksNumeric reports whether s parses as a number.
func LooksNumeric(s string) bool {
	_, ok := ParseNumber(s)
	return ok
}

func parseFinite(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(v)
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
