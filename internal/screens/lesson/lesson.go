// Package lesson is the screen that plays one card through the lesson
// engine: goals, prerequisites, concept flows, the assessment and the
// handoff to the completion screen.
package lesson

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/weekcards/internal/card"
	"github.com/abhisek/weekcards/internal/engine"
	"github.com/abhisek/weekcards/internal/logger"
	"github.com/abhisek/weekcards/internal/progress"
	"github.com/abhisek/weekcards/internal/router"
	"github.com/abhisek/weekcards/internal/screen"
	"github.com/abhisek/weekcards/internal/screens/completion"
	"github.com/abhisek/weekcards/internal/ui/components"
	"github.com/abhisek/weekcards/internal/ui/layout"
	"github.com/abhisek/weekcards/internal/validate"
)

// Deps are the collaborators a lesson screen hands to its engine.
type Deps struct {
	StudentID string
	Store     progress.Store
	Events    engine.EventSink
	Logger    *logger.Logger

	// Shuffler orders ordering items and matching options; nil is random.
	Shuffler validate.Shuffler
}

// LessonScreen implements screen.Screen for one card.
type LessonScreen struct {
	card   *card.Card
	deps   Deps
	log    *logger.Logger
	bridge *bridge
	eng    *engine.Engine

	toasts    components.Toasts
	hints     map[card.ItemID][]string
	focus     int
	focusedID card.ItemID
	errMsg    string
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ screen.Closer = (*LessonScreen)(nil)

// New creates a lesson screen for c. The engine is built by Init.
func New(c *card.Card, deps Deps) *LessonScreen {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &LessonScreen{
		card:      c,
		deps:      deps,
		log:       log,
		bridge:    newBridge(),
		toasts:    components.NewToasts(3),
		hints:     make(map[card.ItemID][]string),
		focusedID: engine.NoItem,
	}
}

func (s *LessonScreen) Init() tea.Cmd {
	return s.start()
}

func (s *LessonScreen) Title() string {
	return s.card.Title
}

// start restores the student's position off the UI loop.
func (s *LessonScreen) start() tea.Cmd {
	opts := engine.Options{
		StudentID:  s.deps.StudentID,
		Store:      s.deps.Store,
		Notifier:   s.bridge,
		Renderer:   widgetRenderer{rng: s.deps.Shuffler},
		Scheduler:  s.bridge,
		Events:     s.deps.Events,
		OnComplete: s.bridge.complete,
		Logger:     s.log,
	}
	c := s.card
	return func() tea.Msg {
		eng, err := engine.New(context.Background(), c, opts)
		return engineReadyMsg{Engine: eng, Err: err}
	}
}

// Close stops the engine's pending timers when the screen is left.
func (s *LessonScreen) Close() {
	if s.eng != nil {
		_ = s.eng.Close()
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case engineReadyMsg:
		if msg.Err != nil {
			s.log.Error("start lesson", "week", s.card.Week, "error", msg.Err)
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.eng = msg.Engine
		return s, s.afterEngine()

	case timerFiredMsg:
		if !s.bridge.fire(msg.ID) {
			return s, nil
		}
		return s, s.afterEngine()

	case components.ToastExpiredMsg:
		s.toasts.Update(msg)
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *LessonScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.eng == nil {
		return s, nil
	}

	switch msg.String() {
	case "enter":
		return s, s.continueLesson()
	case "ctrl+x":
		s.toasts.Dismiss()
		return s, nil
	}

	if s.eng.Stage() == engine.StageAssessment {
		switch msg.String() {
		case "ctrl+r":
			return s, s.retryAssessment()
		case "pgdown", "ctrl+n":
			s.focus++
			return s, s.syncFocus()
		case "pgup", "ctrl+p":
			s.focus--
			return s, s.syncFocus()
		}
	}

	if _, w := s.focused(); w != nil && s.editable() {
		return s, w.Update(msg)
	}
	return s, nil
}

// editable reports whether the focused question still accepts answers:
// not after it was verified or the assessment was scored.
func (s *LessonScreen) editable() bool {
	v := s.eng.View()
	switch v.Stage {
	case engine.StageConcept:
		return v.Current != nil && !v.Current.Verified
	case engine.StageAssessment:
		return v.Score == nil
	}
	return false
}

func (s *LessonScreen) continueLesson() tea.Cmd {
	act, err := s.eng.Continue(context.Background())
	if err != nil {
		if errors.Is(err, engine.ErrClosed) {
			return func() tea.Msg { return router.PopScreenMsg{} }
		}
		s.log.Warn("continue", "action", act.String(), "error", err)
	}
	return s.afterEngine()
}

func (s *LessonScreen) retryAssessment() tea.Cmd {
	if err := s.eng.RetryAssessment(context.Background()); err != nil {
		msg := "You can't retry the assessment now."
		if errors.Is(err, engine.ErrRetryExhausted) {
			msg = "You already used your retry."
		}
		return tea.Batch(s.afterEngine(), s.toasts.Push(components.ToastWarning, msg, 3*time.Second))
	}
	s.focus = 0
	s.focusedID = engine.NoItem
	return tea.Batch(
		s.afterEngine(),
		s.toasts.Push(components.ToastInfo, "Answers cleared. Give it another go!", 3*time.Second),
	)
}

// afterEngine turns what the engine produced during the last call into
// commands. A completed card hands off to the completion screen; otherwise
// notices become toasts and timer requests become ticks.
func (s *LessonScreen) afterEngine() tea.Cmd {
	notices, timers, done := s.bridge.drain()
	if done != nil {
		next := completion.New(*done)
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}

	var cmds []tea.Cmd
	for _, n := range notices {
		if n.Kind == engine.NoticeHint && n.Item != engine.NoItem {
			s.hints[n.Item] = append(s.hints[n.Item], n.Text)
		}
		level, ttl := toastStyle(n.Kind)
		cmds = append(cmds, s.toasts.Push(level, n.Text, ttl))
	}
	for _, t := range timers {
		id := t.id
		cmds = append(cmds, tea.Tick(t.delay, func(time.Time) tea.Msg { return timerFiredMsg{ID: id} }))
	}
	cmds = append(cmds, s.syncFocus())
	return tea.Batch(cmds...)
}

func toastStyle(k engine.NoticeKind) (components.ToastLevel, time.Duration) {
	switch k {
	case engine.NoticeSuccess:
		return components.ToastSuccess, 2 * time.Second
	case engine.NoticeHint:
		return components.ToastInfo, 6 * time.Second
	case engine.NoticeSolution, engine.NoticeRetry, engine.NoticeAuthoring:
		return components.ToastWarning, 5 * time.Second
	case engine.NoticeIncomplete:
		return components.ToastWarning, 3 * time.Second
	case engine.NoticeStorage:
		return components.ToastError, 0
	default:
		return components.ToastInfo, 4 * time.Second
	}
}

// focused returns the question that receives keys: the current concept item
// or the selected assessment question.
func (s *LessonScreen) focused() (card.ItemID, widget) {
	v := s.eng.View()
	switch v.Stage {
	case engine.StageConcept:
		if v.Current != nil {
			if w, ok := v.Current.Mount.(widget); ok {
				return v.Current.ID, w
			}
		}
	case engine.StageAssessment:
		if len(v.Assessment) == 0 {
			return engine.NoItem, nil
		}
		s.focus = min(max(s.focus, 0), len(v.Assessment)-1)
		iv := v.Assessment[s.focus]
		if w, ok := iv.Mount.(widget); ok {
			return iv.ID, w
		}
	}
	return engine.NoItem, nil
}

// syncFocus focuses the widget that receives keys when it changed.
func (s *LessonScreen) syncFocus() tea.Cmd {
	if s.eng == nil {
		return nil
	}
	id, w := s.focused()
	if id == s.focusedID {
		return nil
	}
	if s.eng.Stage() == engine.StageConcept {
		clear(s.hints)
	}
	if prev := s.focusedID; prev != engine.NoItem {
		if pw := s.widgetFor(prev); pw != nil {
			pw.Blur()
		}
	}
	s.focusedID = id
	if w == nil {
		return nil
	}
	return w.Focus()
}

func (s *LessonScreen) widgetFor(id card.ItemID) widget {
	v := s.eng.View()
	for _, iv := range v.Assessment {
		if iv.ID == id {
			w, _ := iv.Mount.(widget)
			return w
		}
	}
	return nil
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	if s.eng == nil {
		return nil
	}
	hints := []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	v := s.eng.View()
	switch v.Action {
	case engine.ActionGrade:
		hints[0].Description = "Check"
	case engine.ActionComputeScore:
		hints[0].Description = "Submit"
	case engine.ActionFinish:
		hints[0].Description = "Finish"
	}
	if v.Stage == engine.StageAssessment {
		hints = append(hints, layout.KeyHint{Key: "PgUp/PgDn", Description: "Question"})
		if v.CanRetry {
			hints = append(hints, layout.KeyHint{Key: "Ctrl+R", Description: "Retry"})
		}
	}
	if s.toasts.Len() > 0 {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+X", Description: "Dismiss"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}
