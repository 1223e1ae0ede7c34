package engine

import "github.com/abhisek/weekcards/internal/question"

// HintSource tells where a hint came from.
type HintSource string

const (
	HintAuthor  HintSource = "author"
	HintDefault HintSource = "default"
	HintGeneric HintSource = "generic"
)

// GenericHint is the last-resort hint.
const GenericHint = "Review the explanation above and try once more."

var defaultHints = map[question.Kind][]string{
	question.KindInput: {
		"Read the question again and check what it asks for.",
		"Check your spelling and the form of your answer.",
	},
	question.KindMCQ: {
		"Rule out the choices you know are wrong.",
		"Compare each remaining choice with the question.",
	},
	question.KindOrdering: {
		"Start with the item that clearly comes first.",
		"Compare neighbouring items two at a time.",
	},
	question.KindMatching: {
		"Match the pairs you are sure about first.",
		"Each option is used exactly once.",
	},
	question.KindFillBlank: {
		"Read the whole sentence around each blank.",
		"Check each blank on its own.",
	},
}

// hintFor picks the hint for a wrong attempt (1-based). Authored hints win,
// then the default pool for the question kind, then GenericHint. The final
// attempt gets the strongest hint: the third or last authored one.
func hintFor(q question.Question, attempt int) (string, HintSource) {
	if attempt >= MaxAttempts {
		if n := len(q.Hints); n > 0 {
			return q.Hints[min(attempt, n)-1], HintAuthor
		}
		return GenericHint, HintGeneric
	}
	if attempt <= len(q.Hints) {
		return q.Hints[attempt-1], HintAuthor
	}
	if pool := defaultHints[q.Kind()]; attempt <= len(pool) {
		return pool[attempt-1], HintDefault
	}
	return GenericHint, HintGeneric
}
