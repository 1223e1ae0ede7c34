// Package picker is the home screen: the catalog of weekly cards with done
// and locked markers.
package picker

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weekcards/internal/card"
	"github.com/abhisek/weekcards/internal/router"
	"github.com/abhisek/weekcards/internal/screen"
	"github.com/abhisek/weekcards/internal/screens/lesson"
	"github.com/abhisek/weekcards/internal/ui/components"
	"github.com/abhisek/weekcards/internal/ui/layout"
	"github.com/abhisek/weekcards/internal/ui/theme"
)

// Status is a student's state on one card.
type Status struct {
	Done    bool
	Started bool
}

// statusLoadedMsg carries the statuses of every card in the catalog.
type statusLoadedMsg struct {
	Status map[int]Status
	Err    error
}

// PickerScreen lists the catalog.
type PickerScreen struct {
	catalog *card.Catalog
	deps    lesson.Deps
	status  map[int]Status
	menu    components.Menu
	errMsg  string
}

var _ screen.Screen = (*PickerScreen)(nil)
var _ screen.KeyHintProvider = (*PickerScreen)(nil)
var _ screen.Resumer = (*PickerScreen)(nil)

// New creates a picker over cat. Lessons started from it share deps.
func New(cat *card.Catalog, deps lesson.Deps) *PickerScreen {
	s := &PickerScreen{catalog: cat, deps: deps, status: make(map[int]Status)}
	s.buildMenu()
	return s
}

func (s *PickerScreen) Init() tea.Cmd {
	return s.loadStatus()
}

// Resume reloads the statuses after a lesson screen is popped.
func (s *PickerScreen) Resume() tea.Cmd {
	return s.loadStatus()
}

func (s *PickerScreen) Title() string {
	return "Weekly cards"
}

func (s *PickerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open card"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *PickerScreen) loadStatus() tea.Cmd {
	cat, deps := s.catalog, s.deps
	return func() tea.Msg {
		ctx := context.Background()
		out := make(map[int]Status)
		if deps.Store == nil {
			return statusLoadedMsg{Status: out}
		}
		for _, week := range cat.Weeks() {
			done, err := deps.Store.IsDone(ctx, deps.StudentID, week)
			if err != nil {
				return statusLoadedMsg{Err: err}
			}
			rec, err := deps.Store.Get(ctx, deps.StudentID, week)
			if err != nil {
				return statusLoadedMsg{Err: err}
			}
			out[week] = Status{Done: done, Started: rec != nil}
		}
		return statusLoadedMsg{Status: out}
	}
}

func (s *PickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statusLoadedMsg:
		if msg.Err != nil {
			if s.deps.Logger != nil {
				s.deps.Logger.Warn("load card status", "error", msg.Err)
			}
			s.errMsg = "Progress could not be loaded. Cards are shown without it."
			return s, nil
		}
		s.errMsg = ""
		s.status = msg.Status
		selected := s.menu.Selected
		s.buildMenu()
		s.menu.Select(selected)
		return s, nil
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

// Unlocked reports whether week can be opened with the loaded statuses.
func (s *PickerScreen) Unlocked(week int) bool {
	return s.catalog.Unlocked(week, func(w int) bool { return s.status[w].Done })
}

func (s *PickerScreen) buildMenu() {
	cards := s.catalog.Cards()
	items := make([]components.MenuItem, 0, len(cards))
	for _, c := range cards {
		st := s.status[c.Week]
		item := components.MenuItem{
			Label: fmt.Sprintf("Week %d · %s", c.Week, c.Title),
		}
		switch {
		case !s.Unlocked(c.Week):
			item.Disabled = true
			item.Badge = fmt.Sprintf("locked: finish week %d first", *c.Prereq)
		case st.Done:
			item.Badge = "✓ done"
		case st.Started:
			item.Badge = "in progress"
		}
		deps := s.deps
		item.Action = func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: lesson.New(c, deps)}
			}
		}
		items = append(items, item)
	}
	s.menu = components.NewMenu(items)
}

func (s *PickerScreen) View(width, height int) string {
	var b strings.Builder
	w := layout.ContentWidth(width)

	b.WriteString(theme.Title.Render("Choose this week's card"))
	b.WriteString("\n\n")

	if len(s.menu.Items) == 0 {
		b.WriteString(theme.Hint.Render("No cards found. Point --cards at a directory of card files."))
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
	}

	done := 0
	for _, st := range s.status {
		if st.Done {
			done++
		}
	}
	b.WriteString(components.NewStepBar("Done", done, len(s.menu.Items), min(w, 50)).View())
	b.WriteString("\n\n")
	// Title, progress bar, blank lines and the scroll markers.
	b.WriteString(s.menu.View(max(height-8, 1)))

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}
