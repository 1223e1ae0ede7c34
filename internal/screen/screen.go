// Package screen defines what the router needs from a player screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/weekcards/internal/ui/layout"
)

// Screen is one page of the player: the card picker, a lesson or a
// completion certificate. View draws only the body; the app adds the
// header and footer around it.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	// Title is shown centered in the header.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is told when the screen above it is popped, e.g. so the picker
// reloads progress after a lesson.
type Resumer interface {
	Resume() tea.Cmd
}

// Closer releases resources when the screen leaves the stack.
type Closer interface {
	Close()
}
