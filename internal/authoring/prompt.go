package authoring

import (
	"fmt"
	"strings"

	"github.com/abhisek/weekcards/internal/question"
)

const hintSystemPrompt = `You write hints for questions in a weekly lesson card. A student sees your hints one at a time after wrong answers, so each hint must move them closer to the answer without giving it away. Write in the same language as the question.`

func buildHintUserMessage(cardTitle string, t Target, need int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Card: %s\n", cardTitle)
	if t.Concept != "" {
		fmt.Fprintf(&b, "Concept: %s\n", t.Concept)
	}
	fmt.Fprintf(&b, "Question type: %s\n", t.Question.Kind())
	fmt.Fprintf(&b, "Question: %s\n", t.Question.Text)

	switch body := t.Question.Body.(type) {
	case question.MCQ:
		b.WriteString("Choices:\n")
		for i, c := range body.Choices {
			fmt.Fprintf(&b, "%d. %s\n", i+1, c)
		}
	case question.Ordering:
		fmt.Fprintf(&b, "Items to order: %s\n", strings.Join(body.Items, ", "))
	case question.Matching:
		lefts := make([]string, len(body.Pairs))
		for i, p := range body.Pairs {
			lefts[i] = p.Left
		}
		fmt.Fprintf(&b, "Items to match: %s\n", strings.Join(lefts, ", "))
	}

	if sol := question.SolutionText(t.Question); sol != "" {
		fmt.Fprintf(&b, "Correct answer (never reveal it): %s\n", sol)
	}

	b.WriteString("\nExisting hints:\n")
	if len(t.Existing) == 0 {
		b.WriteString("None\n")
	} else {
		for _, h := range t.Existing {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}

	fmt.Fprintf(&b, `
Instructions:
1. Write exactly %d new hint(s) that come after the existing hints, each more specific than the last.
2. Each hint is one short sentence.
3. Do not repeat an existing hint and do not state the correct answer.`, need)

	return b.String()
}
