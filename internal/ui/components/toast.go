package components

import (
	"image/color"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weekcards/internal/ui/theme"
)

// ToastLevel selects a toast's color.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// Toast is one transient message.
type Toast struct {
	ID    int
	Level ToastLevel
	Text  string
}

// ToastExpiredMsg is delivered when a toast's display time is over. It is
// ignored when the toast was already dismissed.
type ToastExpiredMsg struct {
	ID int
}

// Toasts is a small stack of transient messages, newest last.
type Toasts struct {
	items []Toast
	next  int
	max   int
}

// NewToasts creates a stack that keeps at most max toasts.
func NewToasts(max int) Toasts {
	if max < 1 {
		max = 1
	}
	return Toasts{max: max}
}

// Push adds a toast. With ttl > 0 the returned command expires it; a zero
// ttl keeps it until dismissed.
func (t *Toasts) Push(level ToastLevel, text string, ttl time.Duration) tea.Cmd {
	t.next++
	id := t.next
	t.items = append(t.items, Toast{ID: id, Level: level, Text: text})
	if len(t.items) > t.max {
		t.items = t.items[len(t.items)-t.max:]
	}
	if ttl <= 0 {
		return nil
	}
	return tea.Tick(ttl, func(time.Time) tea.Msg { return ToastExpiredMsg{ID: id} })
}

// Update removes expired toasts. It reports whether msg was a toast message.
func (t *Toasts) Update(msg tea.Msg) bool {
	m, ok := msg.(ToastExpiredMsg)
	if !ok {
		return false
	}
	t.remove(m.ID)
	return true
}

func (t *Toasts) remove(id int) {
	for i, it := range t.items {
		if it.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

// Dismiss removes the newest toast before it expires.
func (t *Toasts) Dismiss() bool {
	if len(t.items) == 0 {
		return false
	}
	t.items = t.items[:len(t.items)-1]
	return true
}

// Clear removes every toast.
func (t *Toasts) Clear() { t.items = nil }

// Items returns the visible toasts, oldest first.
func (t Toasts) Items() []Toast { return t.items }

// Len returns the number of visible toasts.
func (t Toasts) Len() int { return len(t.items) }

// View renders the toasts stacked vertically.
func (t Toasts) View(width int) string {
	if len(t.items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(t.items))
	for _, it := range t.items {
		c := levelColor(it.Level)
		parts = append(parts, theme.Toast.
			Width(width).
			BorderForeground(c).
			Foreground(c).
			Render(it.Text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func levelColor(l ToastLevel) color.Color {
	switch l {
	case ToastSuccess:
		return theme.Success
	case ToastWarning:
		return theme.Warning
	case ToastError:
		return theme.Error
	default:
		return theme.Secondary
	}
}
