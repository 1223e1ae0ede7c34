package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/weekcards/internal/ui/theme"
)

// StepBar displays progress through a fixed number of steps.
type StepBar struct {
	Label string
	Done  int
	Total int
	Width int
}

// NewStepBar creates a new step bar.
func NewStepBar(label string, done, total, width int) StepBar {
	return StepBar{
		Label: label,
		Done:  done,
		Total: total,
		Width: width,
	}
}

// Percent returns the completed fraction in [0, 1].
func (p StepBar) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Done) / float64(p.Total)
	return min(max(f, 0), 1)
}

// View renders the bar followed by "done/total".
func (p StepBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	counter := fmt.Sprintf("  %d/%d", p.Done, p.Total)
	barWidth := p.Width - lipgloss.Width(result) - len(counter)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent())
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	result += lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(counter)

	return result
}
