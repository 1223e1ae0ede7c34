package validate

import "github.com/abhisek/weekcards/internal/question"

// MCQ validates a single-selection multiple-choice question.
type MCQ struct {
	base
	selected int
}

// Choices returns the options in authored order.
func (v *MCQ) Choices() []string { return v.exp.Choices }

// Select captures choice i. Out-of-range indexes clear the selection.
func (v *MCQ) Select(i int) {
	if i < 0 || i >= len(v.exp.Choices) {
		i = question.NoSelection
	}
	v.selected = i
}

// Selected returns the captured index or question.NoSelection.
func (v *MCQ) Selected() int { return v.selected }

func (v *MCQ) Response() question.Response {
	return question.Response{Selected: v.selected}
}

func (v *MCQ) Reset() { v.selected = question.NoSelection }

func (v *MCQ) Check() Verdict {
	if v.selected == question.NoSelection {
		return incomplete("Choose an answer first.")
	}
	if v.exp.CorrectIndex >= 0 && v.selected == v.exp.CorrectIndex {
		return correct(false)
	}
	return incorrect()
}
