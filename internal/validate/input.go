package validate

import (
	"github.com/abhisek/weekcards/internal/question"
	"github.com/abhisek/weekcards/internal/textmatch"
)

// Input validates free text, numeric and true/false answers.
type Input struct {
	base
	value string
}

// SetValue replaces the captured answer.
func (v *Input) SetValue(s string) { v.value = s }

// Value returns the captured answer, auto-corrected after a fuzzy accept.
func (v *Input) Value() string { return v.value }

func (v *Input) Response() question.Response {
	r := question.EmptyResponse()
	r.Value = v.value
	return r
}

func (v *Input) Reset() { v.value = "" }

// Check grades the captured value. Blank input is incomplete.
func (v *Input) Check() Verdict {
	if textmatch.NormalizeSpace(v.value) == "" {
		return incomplete("Type an answer first.")
	}
	if v.exp.Boolean {
		got, okU := question.ParseTruth(v.value)
		want, okE := question.ParseTruth(v.exp.Text)
		if okU && okE {
			if got == want {
				return correct(false)
			}
			return incorrect()
		}
	}

	res := textmatch.Compare(v.value, v.exp.Text, compareOptions(v.q))
	if !res.OK() {
		return incorrect()
	}
	if res == textmatch.FuzzyMatch {
		v.value = v.exp.Text
		return correct(true)
	}
	return correct(false)
}

func compareOptions(q question.Question) textmatch.Options {
	return textmatch.Options{Numeric: q.Validation.Numeric, Fuzzy: q.Validation.Fuzzy}
}
