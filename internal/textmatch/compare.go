package textmatch

// FuzzyThreshold is the minimum similarity accepted by fuzzy comparison.
const FuzzyThreshold = 0.85

// Options selects the comparison tiers applied after exact matching.
type Options struct {
	// Numeric forces numeric comparison even when the expected answer does
	// not parse as a number on its own.
	Numeric bool

	// Fuzzy enables Arabic-aware normalization plus edit-distance matching.
	Fuzzy bool
}

// Result reports which tier accepted an answer.
type Result int

const (
	NoMatch Result = iota
	ExactMatch
	NumericMatch
	FuzzyMatch
)

// OK reports whether the answer was accepted by any tier.
func (r Result) OK() bool { return r != NoMatch }

func (r Result) String() string {
	switch r {
	case ExactMatch:
		return "exact"
	case NumericMatch:
		return "numeric"
	case FuzzyMatch:
		return "fuzzy"
	default:
		return "none"
	}
}

// Compare grades user against expected: exact (whitespace-normalized,
// case-sensitive), then numeric when applicable, then fuzzy when enabled.
// Empty user input never matches.
func Compare(user, expected string, opts Options) Result {
	u := NormalizeSpace(user)
	e := NormalizeSpace(expected)
	if u == "" || e == "" {
		return NoMatch
	}
	if u == e {
		return ExactMatch
	}

	if opts.Numeric || LooksNumeric(e) {
		uv, okU := ParseNumber(u)
		ev, okE := ParseNumber(e)
		if okU && okE && uv == ev {
			return NumericMatch
		}
	}

	if opts.Fuzzy && FuzzyEqual(u, e) {
		return FuzzyMatch
	}
	return NoMatch
}

// Equal is Compare reduced to a verdict.
func Equal(user, expected string, opts Options) bool {
	return Compare(user, expected, opts).OK()
}

// ExactEqual compares with whitespace normalization only.
func ExactEqual(user, expected string) bool {
	u := NormalizeSpace(user)
	return u != "" && u == NormalizeSpace(expected)
}

// FuzzyEqual reports whether a and b match after Arabic normalization,
// either identically or with similarity at or above FuzzyThreshold.
func FuzzyEqual(a, b string) bool {
	na, nb := NormalizeArabic(a), NormalizeArabic(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || Similarity(na, nb) >= FuzzyThreshold
}
