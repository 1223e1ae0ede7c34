package lesson

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weekcards/internal/card"
	"github.com/abhisek/weekcards/internal/engine"
	"github.com/abhisek/weekcards/internal/question"
	"github.com/abhisek/weekcards/internal/textmatch"
	"github.com/abhisek/weekcards/internal/ui/components"
	"github.com/abhisek/weekcards/internal/ui/theme"
	"github.com/abhisek/weekcards/internal/validate"
)

// widget is a mounted question that also handles keys and draws itself.
// Captured values live in the embedded validator, so the engine and the
// screen always see the same state.
type widget interface {
	engine.Mount
	Update(msg tea.KeyPressMsg) tea.Cmd
	View(width int, focused bool) string
	Focus() tea.Cmd
	Blur()
}

// widgetRenderer mounts questions as terminal widgets.
type widgetRenderer struct {
	rng validate.Shuffler
}

func (r widgetRenderer) MountQuestion(_ card.ItemID, q question.Question) engine.Mount {
	return newWidget(validate.New(q, r.rng))
}

func newWidget(v validate.Validator) widget {
	switch v := v.(type) {
	case *validate.MCQ:
		return newChoiceWidget(v)
	case *validate.Ordering:
		return &orderingWidget{Ordering: v}
	case *validate.Matching:
		return newMatchingWidget(v)
	case *validate.FillBlank:
		return newFillBlankWidget(v)
	default:
		return newInputWidget(v.(*validate.Input))
	}
}

func questionText(q question.Question, width int) string {
	return lipgloss.NewStyle().Width(width).Foreground(theme.Text).Bold(true).Render(q.Text)
}

// inputWidget handles text, numeric and true/false questions.
type inputWidget struct {
	*validate.Input
	input components.TextInput
}

func newInputWidget(v *validate.Input) *inputWidget {
	exp := v.Expected()
	placeholder := "Type your answer..."
	numeric := false
	switch {
	case exp.Boolean:
		placeholder = "true / false (صح / خطأ)"
	case v.Question().Validation.Numeric || textmatch.LooksNumeric(exp.Text):
		placeholder = "Type a number..."
		numeric = true
	}
	return &inputWidget{Input: v, input: components.NewTextInput(placeholder, numeric, 80)}
}

func (w *inputWidget) Update(msg tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	w.SetValue(w.input.Value())
	return cmd
}

func (w *inputWidget) Check() validate.Verdict {
	verdict := w.Input.Check()
	if verdict.Corrected {
		w.input.SetValue(w.Value())
	}
	w.input.SetMark(markFor(verdict))
	return verdict
}

// markFor maps a verdict to the badge drawn after the answer field.
func markFor(v validate.Verdict) components.Mark {
	switch {
	case v.Incomplete:
		return components.Unmarked
	case v.Corrected:
		return components.MarkCorrected
	case v.Correct:
		return components.MarkCorrect
	}
	return components.MarkWrong
}

func (w *inputWidget) Reset() {
	w.Input.Reset()
	w.input.Reset()
}

func (w *inputWidget) Focus() tea.Cmd { return w.input.Focus() }

func (w *inputWidget) Blur() { w.input.Blur() }

func (w *inputWidget) View(width int, _ bool) string {
	return questionText(w.Question(), width) + "\n\n" + "Answer: " + w.input.View() + "\n"
}

// choiceWidget handles multiple-choice questions.
type choiceWidget struct {
	*validate.MCQ
	list components.MultiChoice
}

func newChoiceWidget(v *validate.MCQ) *choiceWidget {
	return &choiceWidget{MCQ: v, list: components.NewMultiChoice(v.Choices())}
}

func (w *choiceWidget) Update(msg tea.KeyPressMsg) tea.Cmd {
	w.list = w.list.Update(msg)
	if w.list.Selected != components.NoChoice {
		w.Select(w.list.Selected)
	}
	return nil
}

func (w *choiceWidget) RevealSolution(text string) {
	w.MCQ.RevealSolution(text)
	w.list.CorrectIndex = w.Expected().CorrectIndex
	w.list.Reveal = true
}

func (w *choiceWidget) Reset() {
	w.MCQ.Reset()
	w.list.Clear()
	w.list.Reveal = false
}

func (w *choiceWidget) Focus() tea.Cmd { return nil }

func (w *choiceWidget) Blur() {}

func (w *choiceWidget) View(width int, focused bool) string {
	return questionText(w.Question(), width) + "\n\n" + w.list.View(focused)
}

// orderingWidget builds a sequence: 1-9 or space places an available item
// into the next slot and backspace takes the last one back.
type orderingWidget struct {
	*validate.Ordering
	cursor int
}

func (w *orderingWidget) Update(msg tea.KeyPressMsg) tea.Cmd {
	avail := w.Available()
	switch key := msg.String(); key {
	case "up", "k":
		if w.cursor > 0 {
			w.cursor--
		}
	case "down", "j":
		if w.cursor < len(avail)-1 {
			w.cursor++
		}
	case "space":
		if w.cursor < len(avail) {
			w.Append(avail[w.cursor])
		}
	case "backspace":
		w.Undo()
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(avail) {
			w.Append(avail[n-1])
		}
	}
	w.cursor = min(w.cursor, max(len(w.Available())-1, 0))
	return nil
}

func (w *orderingWidget) Reset() {
	w.Ordering.Reset()
	w.cursor = 0
}

func (w *orderingWidget) Focus() tea.Cmd { return nil }

func (w *orderingWidget) Blur() {}

func (w *orderingWidget) View(width int, focused bool) string {
	var b strings.Builder
	b.WriteString(questionText(w.Question(), width))
	b.WriteString("\n\n")
	for i, s := range w.Slots() {
		if s == "" {
			s = theme.Hint.Render("—")
		}
		fmt.Fprintf(&b, "  %d. %s\n", i+1, s)
	}
	if avail := w.Available(); len(avail) > 0 {
		b.WriteString("\n" + theme.Subtitle.Render("Items to place:") + "\n")
		for i, item := range avail {
			line := fmt.Sprintf("%d) %s", i+1, item)
			if focused && i == w.cursor {
				b.WriteString(theme.Selected.Render("▸ "+line) + "\n")
			} else {
				b.WriteString("  " + line + "\n")
			}
		}
	}
	return b.String()
}

// matchingWidget picks a right-hand value per row: up/down choose the row,
// left/right cycle the shuffled options.
type matchingWidget struct {
	*validate.Matching
	row    int
	choice []int
}

func newMatchingWidget(v *validate.Matching) *matchingWidget {
	w := &matchingWidget{Matching: v}
	w.clearChoices()
	return w
}

func (w *matchingWidget) clearChoices() {
	w.choice = make([]int, len(w.Lefts()))
	for i := range w.choice {
		w.choice[i] = -1
	}
}

func (w *matchingWidget) Update(msg tea.KeyPressMsg) tea.Cmd {
	opts := w.Options()
	if len(w.choice) == 0 || len(opts) == 0 {
		return nil
	}
	switch msg.String() {
	case "up", "k":
		if w.row > 0 {
			w.row--
		}
	case "down", "j":
		if w.row < len(w.choice)-1 {
			w.row++
		}
	case "right", "l", "space":
		w.choice[w.row] = (w.choice[w.row] + 1) % len(opts)
		w.SetMatch(w.row, opts[w.choice[w.row]])
	case "left", "h":
		c := w.choice[w.row] - 1
		if c < 0 {
			c = len(opts) - 1
		}
		w.choice[w.row] = c
		w.SetMatch(w.row, opts[c])
	}
	return nil
}

func (w *matchingWidget) Reset() {
	w.Matching.Reset()
	w.clearChoices()
	w.row = 0
}

func (w *matchingWidget) Focus() tea.Cmd { return nil }

func (w *matchingWidget) Blur() {}

func (w *matchingWidget) View(width int, focused bool) string {
	var b strings.Builder
	b.WriteString(questionText(w.Question(), width))
	b.WriteString("\n\n")
	matches := w.Matches()
	for i, left := range w.Lefts() {
		right := matches[i]
		if right == "" {
			right = "?"
		}
		line := fmt.Sprintf("%s  →  ‹ %s ›", left, right)
		if focused && i == w.row {
			b.WriteString(theme.Selected.Render("▸ "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

// fillBlankWidget has one text input per blank; tab moves between them.
type fillBlankWidget struct {
	*validate.FillBlank
	inputs []components.TextInput
	focus  int
}

func newFillBlankWidget(v *validate.FillBlank) *fillBlankWidget {
	w := &fillBlankWidget{FillBlank: v}
	w.resetInputs()
	return w
}

func (w *fillBlankWidget) resetInputs() {
	w.inputs = make([]components.TextInput, w.Count())
	for i := range w.inputs {
		w.inputs[i] = components.NewTextInput(fmt.Sprintf("blank %d", i+1), false, 40)
		if i != 0 {
			w.inputs[i].Blur()
		}
	}
	w.focus = 0
}

func (w *fillBlankWidget) Update(msg tea.KeyPressMsg) tea.Cmd {
	if len(w.inputs) == 0 {
		return nil
	}
	switch msg.String() {
	case "tab":
		return w.moveFocus(1)
	case "shift+tab":
		return w.moveFocus(-1)
	}
	var cmd tea.Cmd
	w.inputs[w.focus], cmd = w.inputs[w.focus].Update(msg)
	w.SetBlank(w.focus, w.inputs[w.focus].Value())
	return cmd
}

func (w *fillBlankWidget) moveFocus(delta int) tea.Cmd {
	w.inputs[w.focus].Blur()
	w.focus = (w.focus + delta + len(w.inputs)) % len(w.inputs)
	return w.inputs[w.focus].Focus()
}

func (w *fillBlankWidget) Check() validate.Verdict {
	verdict := w.FillBlank.Check()
	if verdict.Corrected {
		for i, v := range w.Values() {
			if i < len(w.inputs) {
				w.inputs[i].SetValue(v)
			}
		}
	}
	for i := range w.inputs {
		w.inputs[i].SetMark(markFor(verdict))
	}
	return verdict
}

func (w *fillBlankWidget) Reset() {
	w.FillBlank.Reset()
	w.resetInputs()
}

func (w *fillBlankWidget) Focus() tea.Cmd {
	if len(w.inputs) == 0 {
		return nil
	}
	return w.inputs[w.focus].Focus()
}

func (w *fillBlankWidget) Blur() {
	for i := range w.inputs {
		w.inputs[i].Blur()
	}
}

func (w *fillBlankWidget) View(width int, _ bool) string {
	text := w.Question().Text
	for i := range w.inputs {
		text = strings.Replace(text, question.BlankMarker, fmt.Sprintf("__(%d)__", i+1), 1)
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.Text).Bold(true).Render(text))
	b.WriteString("\n\n")
	for i, in := range w.inputs {
		fmt.Fprintf(&b, "  (%d) %s\n", i+1, in.View())
	}
	return b.String()
}
