package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weekcards/internal/ui/theme"
)

// Button is a styled action label with the key that triggers it.
type Button struct {
	Key    string
	Label  string
	Active bool
}

// NewButton creates a new button.
func NewButton(key, label string, active bool) Button {
	return Button{
		Key:    key,
		Label:  label,
		Active: active,
	}
}

// View renders the button.
func (b Button) View() string {
	label := b.Label
	if b.Key != "" {
		label = "[" + b.Key + "] " + label
	}
	if b.Active {
		return theme.ButtonActive.Render("▸ " + label)
	}
	return theme.ButtonInactive.Render(label)
}

// ButtonRow renders buttons side by side.
func ButtonRow(buttons ...Button) string {
	parts := make([]string, 0, 2*len(buttons))
	for i, b := range buttons {
		if i > 0 {
			parts = append(parts, "  ")
		}
		parts = append(parts, b.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
