// Package layout draws the frame around every screen: a header bar, the
// screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/weekcards/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20

	// Below these sizes screens drop decoration to fit.
	CompactWidth  = 100
	CompactHeight = 30

	maxTextWidth = 90
)

// KeyHint is one "key action" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompactWidth(width int) bool { return width < CompactWidth }

func IsCompactHeight(height int) bool { return height < CompactHeight }

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// ContentWidth is the width of lesson text inside a frame of frameWidth
// columns, between 20 and 90.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), maxTextWidth)
}

// Wrap renders s as body text wrapped at width (at least 10).
func Wrap(s string, width int) string {
	return theme.Body.Width(max(width, 10)).Render(s)
}

// Bullets renders one wrapped "•" line per item.
func Bullets(items []string, width int) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(Wrap("• "+it, width) + "\n")
	}
	return b.String()
}

// RenderMinSizeMessage fills the terminal with a resize request.
func RenderMinSizeMessage(width, height int) string {
	return theme.Body.
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(fmt.Sprintf("Terminal too small (%d x %d).\nResize to at least %d x %d.",
			width, height, MinWidth, MinHeight))
}

// bar is the bordered strip used for both header and footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderHeader shows the brand on the left, title centered and right (the
// student's name) at the right edge. Narrow terminals lose the brand.
func RenderHeader(title, right string, width int) string {
	brand := ""
	if !IsCompactWidth(width) {
		brand = theme.Title.Render("  weekcards")
	}
	mid := theme.Body.Render(title)
	end := lipgloss.NewStyle().Foreground(theme.Accent).Render(right)

	inner := max(width-4, 0)
	bw, mw, ew := lipgloss.Width(brand), lipgloss.Width(mid), lipgloss.Width(end)
	gapL := max((inner-mw)/2-bw, 1)
	gapR := max(inner-bw-gapL-mw-ew, 1)

	return bar(brand+strings.Repeat(" ", gapL)+mid+strings.Repeat(" ", gapR)+end, width)
}

// RenderFooter lists hints left to right and drops trailing ones that do
// not fit on one line.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	line := " "
	for _, h := range hints {
		part := "  " + key.Render(h.Key) + " " + desc.Render(h.Description)
		if lipgloss.Width(line+part) > width-4 {
			break
		}
		line += part
	}
	return bar(line, width)
}

// RenderFrame stacks header, content and footer into exactly height rows.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(body).MaxHeight(body).Render(content),
		footer,
	)
}
