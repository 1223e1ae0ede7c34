package validate

import (
	"github.com/abhisek/weekcards/internal/question"
	"github.com/abhisek/weekcards/internal/textmatch"
)

// FillBlank validates blanks independently with the three-tier comparison.
type FillBlank struct {
	base
	values []string
}

// Count returns the number of expected blanks.
func (v *FillBlank) Count() int { return len(v.exp.List) }

// Values returns the captured blank values.
func (v *FillBlank) Values() []string { return v.values }

// SetBlank captures the value of blank i.
func (v *FillBlank) SetBlank(i int, s string) {
	if i >= 0 && i < len(v.values) {
		v.values[i] = s
	}
}

// SetValues replaces all captured values. The slice may be shorter than the
// number of blanks.
func (v *FillBlank) SetValues(values []string) {
	v.values = append([]string(nil), values...)
}

func (v *FillBlank) Response() question.Response {
	r := question.EmptyResponse()
	r.Blanks = append([]string(nil), v.values...)
	return r
}

func (v *FillBlank) Reset() {
	v.values = make([]string, len(v.exp.List))
}

// Check requires every blank to be filled. Blanks accepted by fuzzy matching
// are rewritten to the canonical answer, even when another blank fails.
func (v *FillBlank) Check() Verdict {
	n := len(v.exp.List)
	if n == 0 {
		return incorrect()
	}
	if len(v.values) < n {
		return incomplete("Fill in every blank before checking.")
	}
	for i := range n {
		if textmatch.NormalizeSpace(v.values[i]) == "" {
			return incomplete("Fill in every blank before checking.")
		}
	}

	opts := compareOptions(v.q)
	allOK, fixed := true, false
	for i, want := range v.exp.List {
		switch textmatch.Compare(v.values[i], want, opts) {
		case textmatch.NoMatch:
			allOK = false
		case textmatch.FuzzyMatch:
			v.values[i] = want
			fixed = true
		}
	}
	if !allOK {
		return Verdict{Corrected: fixed}
	}
	return correct(fixed)
}
