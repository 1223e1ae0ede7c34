package components

import (
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weekcards/internal/ui/theme"
)

// NoChoice marks a MultiChoice with nothing selected.
const NoChoice = -1

// MultiChoice is a single-selection list. The cursor moves with the arrow
// keys; space picks the option under the cursor and 1-9 pick directly.
type MultiChoice struct {
	Options  []string
	Cursor   int
	Selected int

	// CorrectIndex is highlighted once Reveal is set.
	CorrectIndex int
	Reveal       bool
}

// NewMultiChoice creates a selector with nothing selected.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{
		Options:      options,
		Selected:     NoChoice,
		CorrectIndex: NoChoice,
	}
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) MultiChoice {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "space", " ":
		if m.Cursor < len(m.Options) {
			m.Selected = m.Cursor
		}
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Options) {
			m.Cursor = n - 1
			m.Selected = n - 1
		}
	}
	return m
}

// Clear drops the selection and moves the cursor back to the top.
func (m *MultiChoice) Clear() {
	m.Selected = NoChoice
	m.Cursor = 0
}

// View renders the options. focused controls whether the cursor is drawn.
func (m MultiChoice) View(focused bool) string {
	var s string
	for i, opt := range m.Options {
		mark := "○"
		if i == m.Selected {
			mark = "●"
		}
		prefix := "  "
		if focused && i == m.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %d) %s", prefix, mark, i+1, opt)

		style := theme.Unselected
		switch {
		case m.Reveal && i == m.CorrectIndex:
			style = theme.Correct
		case m.Reveal && i == m.Selected:
			style = theme.Incorrect
		case i == m.Selected:
			style = theme.Selected
		case focused && i == m.Cursor:
			style = lipgloss.NewStyle().Foreground(theme.Primary)
		}
		s += style.Render(line) + "\n"
	}
	return s
}
