package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/weekcards/internal/ui/theme"
)

// MenuItem is one selectable row. Badge is a short status after the label.
type MenuItem struct {
	Label    string
	Badge    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list whose cursor only lands on enabled items. Long
// lists scroll to keep the cursor in view.
type Menu struct {
	Items    []MenuItem
	Selected int
	offset   int
}

const menuPage = 5

// NewMenu creates a menu with the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.seek(-1, 1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// seek returns the first enabled index after from in direction dir, or -1.
func (m Menu) seek(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

// moveBy steps the cursor n enabled items forward (or back when n < 0),
// stopping at the last enabled item in that direction.
func (m *Menu) moveBy(n int) {
	dir := 1
	if n < 0 {
		dir, n = -1, -n
	}
	for range n {
		next := m.seek(m.Selected, dir)
		if next < 0 {
			return
		}
		m.Selected = next
	}
}

// Select puts the cursor on i when it is an enabled item.
func (m *Menu) Select(i int) bool {
	if i < 0 || i >= len(m.Items) || m.Items[i].Disabled {
		return false
	}
	m.Selected = i
	return true
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.moveBy(-1)
	case "down", "j":
		m.moveBy(1)
	case "pgup":
		m.moveBy(-menuPage)
	case "pgdown":
		m.moveBy(menuPage)
	case "home", "g":
		m.Select(m.seek(-1, 1))
	case "end", "G":
		m.Select(m.seek(len(m.Items), -1))
	case "enter":
		if m.Selected < len(m.Items) {
			if it := m.Items[m.Selected]; !it.Disabled && it.Action != nil {
				return m, it.Action()
			}
		}
	}
	return m, nil
}

// scroll moves the window of rows items so the cursor is inside it.
func (m *Menu) scroll(rows int) {
	if m.Selected < m.offset {
		m.offset = m.Selected
	}
	if m.Selected >= m.offset+rows {
		m.offset = m.Selected - rows + 1
	}
	m.offset = max(0, min(m.offset, len(m.Items)-rows))
}

func (m Menu) row(i int) string {
	it := m.Items[i]
	var label string
	switch {
	case it.Disabled:
		label = theme.Disabled.Render("    " + it.Label)
	case i == m.Selected:
		label = theme.Selected.Render("  ▸ " + it.Label)
	default:
		label = theme.Unselected.Render("    " + it.Label)
	}
	if it.Badge != "" {
		label += "  " + theme.Hint.Render(it.Badge)
	}
	return label
}

// View renders at most rows items, plus a marker line above and below for
// items scrolled out of sight. rows <= 0 renders every item.
func (m *Menu) View(rows int) string {
	first, last := 0, len(m.Items)
	if rows > 0 && rows < len(m.Items) {
		m.scroll(rows)
		first, last = m.offset, m.offset+rows
	}

	var b strings.Builder
	if first > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("    ↑ %d more", first)) + "\n")
	}
	for i := first; i < last; i++ {
		b.WriteString(m.row(i) + "\n")
	}
	if last < len(m.Items) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("    ↓ %d more", len(m.Items)-last)) + "\n")
	}
	return b.String()
}
