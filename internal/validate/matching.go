package validate

import (
	"github.com/abhisek/weekcards/internal/question"
	"github.com/abhisek/weekcards/internal/textmatch"
)

// Matching validates left/right associations. Right-hand values are offered
// in shuffled order.
type Matching struct {
	base
	options []string
	matches []string
}

func newMatching(b base, rng Shuffler) *Matching {
	rights := make([]string, 0, len(b.exp.Pairs))
	for _, p := range b.exp.Pairs {
		rights = append(rights, p.Right)
	}
	return &Matching{
		base:    b,
		options: shuffled(rights, rng),
		matches: make([]string, len(b.exp.Pairs)),
	}
}

// Lefts returns the left-hand prompts in authored order.
func (v *Matching) Lefts() []string {
	out := make([]string, 0, len(v.exp.Pairs))
	for _, p := range v.exp.Pairs {
		out = append(out, p.Left)
	}
	return out
}

// Options returns the shuffled right-hand values.
func (v *Matching) Options() []string { return v.options }

// Matches returns the captured right value per pair.
func (v *Matching) Matches() []string { return v.matches }

// SetMatch captures right as the match for pair i.
func (v *Matching) SetMatch(i int, right string) {
	if i >= 0 && i < len(v.matches) {
		v.matches[i] = right
	}
}

func (v *Matching) Response() question.Response {
	r := question.EmptyResponse()
	r.Matches = append([]string(nil), v.matches...)
	return r
}

func (v *Matching) Reset() {
	for i := range v.matches {
		v.matches[i] = ""
	}
}

func (v *Matching) Check() Verdict {
	if len(v.exp.Pairs) == 0 {
		return incorrect()
	}
	for _, m := range v.matches {
		if textmatch.NormalizeSpace(m) == "" {
			return incomplete("Match every item before checking.")
		}
	}
	for i, p := range v.exp.Pairs {
		if !textmatch.ExactEqual(v.matches[i], p.Right) {
			return incorrect()
		}
	}
	return correct(false)
}
