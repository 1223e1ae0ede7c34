// Package theme holds the player's colors and shared lipgloss styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#0EA5E9")
	Secondary = lipgloss.Color("#14B8A6")
	Accent    = lipgloss.Color("#F59E0B")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Warning   = lipgloss.Color("#EAB308")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

func fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// Text styles.
var (
	Title    = fg(Primary).Bold(true)
	Subtitle = fg(TextDim)
	Body     = fg(Text)
	Hint     = fg(TextDim).Italic(true)
	Link     = fg(Primary).Underline(true)

	// Label names the kind of a lesson item, e.g. "Example".
	Label = fg(Secondary).Bold(true)
	// Caution is the label of a common-mistake item.
	Caution = fg(Warning).Bold(true)

	HintText     = fg(Accent)
	SolutionText = fg(Warning)
)

// Boxes.
var (
	Card        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 1)
	FocusedCard = Card.BorderForeground(Primary)
	Certificate = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Accent).
			Padding(1, 4).
			Align(lipgloss.Center)
	Toast = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Selection and grading states.
var (
	Selected   = fg(Primary).Bold(true)
	Unselected = fg(Text)
	Disabled   = fg(TextDim)
	Correct    = fg(Success).Bold(true)
	Incorrect  = fg(Error).Bold(true)
)

// Bars and buttons.
var (
	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)
	ButtonActive   = lipgloss.NewStyle().Background(Primary).Foreground(Text).Bold(true).Padding(0, 2)
	ButtonInactive = lipgloss.NewStyle().Background(BgCard).Foreground(TextDim).Padding(0, 2)
)
