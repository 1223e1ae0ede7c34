// Package validate holds the per-type answer validators. A validator owns the
// live captured state of one mounted question and grades it on demand.
package validate

import (
	"math/rand/v2"
	"slices"

	"github.com/abhisek/weekcards/internal/question"
)

// Verdict is the outcome of one check. Incomplete verdicts mean the captured
// state cannot be graded yet; they are never correct.
type Verdict struct {
	Correct    bool
	Incomplete bool
	Message    string

	// Corrected is set when a fuzzy match rewrote the captured value to the
	// canonical answer.
	Corrected bool
}

func incorrect() Verdict { return Verdict{} }

func incomplete(msg string) Verdict { return Verdict{Incomplete: true, Message: msg} }

func correct(fixed bool) Verdict { return Verdict{Correct: true, Corrected: fixed} }

// Validator is a mounted question with captured learner state.
type Validator interface {
	Question() question.Question
	Check() Verdict
	Response() question.Response
	RevealSolution(text string)
	Solution() (string, bool)
	Reset()
}

// Shuffler randomizes presentation order. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// New mounts the validator for q's variant. A nil rng uses the global source.
func New(q question.Question, rng Shuffler) Validator {
	if rng == nil {
		rng = globalShuffler{}
	}
	exp := question.Expected(q)
	base := base{q: q, exp: exp}
	switch exp.Kind {
	case question.KindMCQ:
		return &MCQ{base: base, selected: question.NoSelection}
	case question.KindOrdering:
		return newOrdering(base, rng)
	case question.KindMatching:
		return newMatching(base, rng)
	case question.KindFillBlank:
		return &FillBlank{base: base, values: make([]string, len(exp.List))}
	default:
		return &Input{base: base}
	}
}

// base carries what every validator shares.
type base struct {
	q        question.Question
	exp      question.Answer
	solution string
	revealed bool
}

func (b *base) Question() question.Question { return b.q }

// Expected returns the canonical answer the validator grades against.
func (b *base) Expected() question.Answer { return b.exp }

// RevealSolution records the model solution shown inline. Only the first
// reveal is kept.
func (b *base) RevealSolution(text string) {
	if b.revealed {
		return
	}
	b.revealed = true
	b.solution = text
}

func (b *base) Solution() (string, bool) { return b.solution, b.revealed }

// shuffled returns a permutation of items that differs from items whenever
// that is possible, i.e. unless every item is the same.
func shuffled(items []string, rng Shuffler) []string {
	out := append([]string(nil), items...)
	if len(out) < 2 {
		return out
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if !slices.Equal(out, items) {
		return out
	}
	// Swapping equal items would change nothing.
	for j := 1; j < len(out); j++ {
		if out[j] != out[0] {
			out[0], out[j] = out[j], out[0]
			break
		}
	}
	return out
}
