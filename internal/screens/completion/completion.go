// Package completion shows the certificate for a finished card.
package completion

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/weekcards/internal/engine"
	"github.com/abhisek/weekcards/internal/router"
	"github.com/abhisek/weekcards/internal/screen"
	"github.com/abhisek/weekcards/internal/ui/layout"
	"github.com/abhisek/weekcards/internal/ui/theme"
)

// CompletionScreen displays the completion handoff of a card.
type CompletionScreen struct {
	completion engine.Completion
}

var _ screen.Screen = (*CompletionScreen)(nil)
var _ screen.KeyHintProvider = (*CompletionScreen)(nil)

// New creates a new CompletionScreen.
func New(c engine.Completion) *CompletionScreen {
	return &CompletionScreen{completion: c}
}

func (s *CompletionScreen) Init() tea.Cmd {
	return nil
}

func (s *CompletionScreen) Title() string {
	return "Card complete"
}

func (s *CompletionScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back to cards"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *CompletionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *CompletionScreen) View(width, height int) string {
	c := s.completion

	var b strings.Builder
	b.WriteString(theme.Title.Render("Well done!"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("%s finished", c.StudentID)))
	b.WriteString("\n")
	b.WriteString(theme.Label.Render(fmt.Sprintf("Week %d: %s", c.Week, c.CardTitle)))
	b.WriteString("\n\n")
	b.WriteString(ScoreLine(c.FinalScore))

	cert := theme.Certificate.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, cert)
}

// ScoreLine formats a final score, or notes that the card had no
// assessment.
func ScoreLine(s *engine.Score) string {
	if s == nil {
		return theme.Hint.Render("This card has no assessment.")
	}
	line := fmt.Sprintf("Assessment score: %s / %s", points(s.Score), points(s.Total))
	if s.Total > 0 {
		line += fmt.Sprintf("  (%d%%)", int(s.Score/s.Total*100+0.5))
	}
	style := theme.Correct
	if s.Total > 0 && s.Score/s.Total < 0.5 {
		style = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	}
	return style.Render(line)
}

func points(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
