package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weekcards/internal/ui/theme"
)

// Mark is the grading badge drawn after an answer field.
type Mark int

const (
	Unmarked Mark = iota
	MarkCorrect
	MarkWrong
	// MarkCorrected is a right answer whose spelling was fixed in place.
	MarkCorrected
)

// numberRunes are accepted by a numeric field besides Western, Arabic-Indic
// and Eastern Arabic-Indic digits.
const numberRunes = "-+/.,٫"

// TextInput is a single-line answer field.
type TextInput struct {
	Model       textinput.Model
	NumericOnly bool
	MaxWidth    int
	mark        Mark
}

// NewTextInput returns a focused field. A numericOnly field swallows
// printable keys that cannot appear in a number.
func NewTextInput(placeholder string, numericOnly bool, maxWidth int) TextInput {
	m := textinput.New()
	m.Placeholder = placeholder
	if maxWidth > 0 {
		m.CharLimit = maxWidth
	}
	m.Focus()
	return TextInput{Model: m, NumericOnly: numericOnly, MaxWidth: maxWidth}
}

func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update edits the field. Any edit clears the mark.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok && t.NumericOnly && key.Text != "" && !numberLike(key.Text) {
		return t, nil
	}
	before := t.Model.Value()
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	if t.Model.Value() != before {
		t.mark = Unmarked
	}
	return t, cmd
}

func numberLike(s string) bool {
	for _, r := range s {
		digit := (r >= '0' && r <= '9') || (r >= '٠' && r <= '٩') || (r >= '۰' && r <= '۹')
		if !digit && !strings.ContainsRune(numberRunes, r) {
			return false
		}
	}
	return true
}

func (t TextInput) View() string {
	v := t.Model.View()
	switch t.mark {
	case MarkCorrect:
		v += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	case MarkCorrected:
		v += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓ (spelling fixed)")
	case MarkWrong:
		v += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return v
}

func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the text and moves the cursor to its end.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
	t.Model.CursorEnd()
}

// SetMark sets the badge shown until the next edit.
func (t *TextInput) SetMark(m Mark) {
	t.mark = m
}

// Mark returns the current badge.
func (t TextInput) Mark() Mark {
	return t.mark
}

// Reset empties the field and drops the mark. Focus is unchanged.
func (t *TextInput) Reset() {
	t.Model.Reset()
	t.mark = Unmarked
}

func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }

func (t *TextInput) Blur() { t.Model.Blur() }
