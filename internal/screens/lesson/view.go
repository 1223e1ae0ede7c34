package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/weekcards/internal/card"
	"github.com/abhisek/weekcards/internal/engine"
	"github.com/abhisek/weekcards/internal/screens/completion"
	"github.com/abhisek/weekcards/internal/ui/components"
	"github.com/abhisek/weekcards/internal/ui/layout"
	"github.com/abhisek/weekcards/internal/ui/theme"
)

var itemLabels = map[card.ItemKind]string{
	card.ItemGoal:     "Goal",
	card.ItemExample:  "Example",
	card.ItemExample2: "Another example",
	card.ItemMistake:  "Common mistake",
	card.ItemNote:     "Note",
	card.ItemDetail:   "Detail",
}

func (s *LessonScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, height, s.errMsg)
	}
	if s.eng == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Loading card...")
	}

	w := layout.ContentWidth(width)
	v := s.eng.View()

	var body string
	switch v.Stage {
	case engine.StageGoals:
		body = s.renderGoals(v, w)
	case engine.StagePrereq:
		body = s.renderPrereq(v, w)
	case engine.StageConcept:
		body = s.renderConcept(v, w, layout.IsCompactHeight(height))
	case engine.StageAssessment:
		body = s.renderAssessment(v, w)
	default:
		body = theme.Title.Render("Card complete!")
	}

	toasts := s.toasts.View(w)
	avail := height - lipgloss.Height(toasts) - 1
	body = keepBottom(body, avail)

	out := body
	if toasts != "" {
		out += "\n" + toasts
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, out)
}

// keepBottom drops lines from the top so the newest content stays visible.
func keepBottom(s string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= height {
		return s
	}
	return strings.Join(lines[len(lines)-height:], "\n")
}

func (s *LessonScreen) renderGoals(v engine.View, w int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Week %d: %s", v.Card.Week, v.Card.Title)))
	b.WriteString("\n\n")
	if v.AlreadyDone {
		b.WriteString(theme.Hint.Render("You finished this card before. Here it is again from the start."))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Label.Render("This week you will learn"))
	b.WriteString("\n")
	if len(v.Card.Goals) == 0 {
		b.WriteString(theme.Hint.Render("No goals listed."))
		b.WriteString("\n")
	}
	b.WriteString(layout.Bullets(v.Card.Goals, w))
	b.WriteString("\n" + theme.Hint.Render("Press Enter to continue"))
	return b.String()
}

func (s *LessonScreen) renderPrereq(v engine.View, w int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Before you start"))
	b.WriteString("\n\n")
	if v.Card.Prereq != nil {
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Builds on week %d.", *v.Card.Prereq)))
		b.WriteString("\n\n")
	}
	if len(v.Card.Prerequisites) == 0 {
		b.WriteString(theme.Hint.Render("Nothing to review. Let's go!"))
		b.WriteString("\n")
	}
	b.WriteString(layout.Bullets(v.Card.Prerequisites, w))
	b.WriteString("\n" + theme.Hint.Render("Press Enter to start"))
	return b.String()
}

// renderConcept draws the concept flow so far. compact keeps only the last
// item already passed.
func (s *LessonScreen) renderConcept(v engine.View, w int, compact bool) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Concept %d/%d: %s", v.ConceptIndex+1, v.ConceptCount, v.ConceptTitle)))
	b.WriteString("\n")
	total := len(v.Card.Concepts[v.ConceptIndex].Flow())
	b.WriteString(components.NewStepBar("", v.ItemIndex+1, total, w).View())
	b.WriteString("\n\n")

	shown := v.Shown
	if compact && len(shown) > 1 {
		shown = shown[len(shown)-1:]
	}
	for _, it := range shown {
		b.WriteString(renderItem(it, w, true))
		b.WriteString("\n")
	}
	if v.Current != nil {
		b.WriteString(s.renderCurrent(*v.Current, w))
	}
	return b.String()
}

// renderItem draws a non-question flow item. Items already passed are dimmed.
func renderItem(it card.FlowItem, w int, past bool) string {
	if it.IsQuestion() {
		if past {
			return theme.Hint.Render("✓ Question answered") + "\n"
		}
		return ""
	}

	var b strings.Builder
	if it.Kind == card.ItemVideo {
		title := it.Title
		if title == "" {
			title = "Video"
		}
		b.WriteString(theme.Label.Render("▶ " + title))
		b.WriteString("\n")
		b.WriteString(theme.Link.Render(it.URL))
		b.WriteString("\n")
		if it.Description != "" {
			b.WriteString(layout.Wrap(it.Description, w))
			b.WriteString("\n")
		}
		return b.String()
	}

	if label, ok := itemLabels[it.Kind]; ok {
		style := theme.Label
		if it.Kind == card.ItemMistake {
			style = theme.Caution
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
	}
	text := layout.Wrap(it.Text, w)
	if past {
		text = lipgloss.NewStyle().Width(w).Foreground(theme.TextDim).Render(it.Text)
	}
	b.WriteString(text)
	b.WriteString("\n")
	for _, d := range it.Details {
		b.WriteString(theme.Hint.Render("  · " + d))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *LessonScreen) renderCurrent(iv engine.ItemView, w int) string {
	wd, ok := iv.Mount.(widget)
	if !ok {
		out := renderItem(iv.Item, w, false)
		return out + "\n" + theme.Hint.Render("Press Enter to continue")
	}

	var b strings.Builder
	b.WriteString(wd.View(w-4, !iv.Verified))
	if iv.Attempts > 0 && !iv.Verified {
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Attempt %d of %d", min(iv.Attempts, engine.MaxAttempts), engine.MaxAttempts)))
	}
	for _, h := range s.hints[iv.ID] {
		b.WriteString("\n")
		b.WriteString(theme.HintText.Width(w-4).Render("Hint: " + h))
	}
	if iv.SolutionShown {
		b.WriteString("\n")
		b.WriteString(theme.SolutionText.Width(w-4).Render("Solution: " + iv.Solution))
	}
	if iv.Verified {
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render("✓ Correct!"))
	}
	for _, p := range iv.Problems {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("⚠ " + p))
	}

	style := theme.FocusedCard
	if iv.Verified {
		style = theme.Card
	}
	return style.Width(w).Render(b.String())
}

func (s *LessonScreen) renderAssessment(v engine.View, w int) string {
	var b strings.Builder
	title := "Assessment"
	if a := v.Card.Assessment; a != nil && a.Title != "" {
		title = a.Title
	}
	b.WriteString(theme.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Attempt %d of %d", min(v.AssessmentAttempts+boolInt(v.Score == nil), engine.MaxAssessmentAttempts), engine.MaxAssessmentAttempts)))
	b.WriteString("\n\n")

	focus := min(max(s.focus, 0), max(len(v.Assessment)-1, 0))
	for i, iv := range v.Assessment {
		if v.Score == nil && i < focus-1 {
			continue
		}
		b.WriteString(s.renderAssessmentQuestion(v, i, iv, w, i == focus))
		b.WriteString("\n")
	}

	if v.Score != nil {
		b.WriteString(completion.ScoreLine(v.Score))
		b.WriteString("\n\n")
		b.WriteString(components.ButtonRow(
			components.NewButton("Enter", "Finish", true),
			components.NewButton("Ctrl+R", "Retry", v.CanRetry),
		))
	} else {
		b.WriteString(components.ButtonRow(components.NewButton("Enter", "Submit answers", true)))
	}
	return b.String()
}

func (s *LessonScreen) renderAssessmentQuestion(v engine.View, i int, iv engine.ItemView, w int, focused bool) string {
	var b strings.Builder
	header := fmt.Sprintf("Question %d", i+1)
	if iv.Question != nil && iv.Question.Points != 1 {
		header += fmt.Sprintf(" (%g points)", iv.Question.Points)
	}
	if v.Score != nil && i < len(v.Score.Correct) {
		if v.Score.Correct[i] {
			header += "  " + theme.Correct.Render("✓")
		} else {
			header += "  " + theme.Incorrect.Render("✗")
		}
	}
	b.WriteString(theme.Label.Render(header))
	b.WriteString("\n")
	if wd, ok := iv.Mount.(widget); ok {
		b.WriteString(wd.View(w-4, focused && v.Score == nil))
	}

	style := theme.Card
	if focused && v.Score == nil {
		style = theme.FocusedCard
	}
	return style.Width(w).Render(b.String())
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func renderError(width, height int, msg string) string {
	text := theme.Incorrect.Render("Could not start this card") + "\n\n" +
		lipgloss.NewStyle().Width(layout.ContentWidth(width)).Foreground(theme.Text).Render(msg) + "\n\n" +
		theme.Hint.Render("Press any key to go back")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}
