package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/weekcards/internal/screen"
)

// fakeScreen counts lifecycle calls.
type fakeScreen struct {
	title   string
	inits   int
	resumes int
	closed  bool
	updates []tea.Msg
}

func (s *fakeScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.updates = append(s.updates, msg)
	return s, nil
}

func (s *fakeScreen) View(int, int) string { return s.title }
func (s *fakeScreen) Title() string        { return s.title }
func (s *fakeScreen) Close()               { s.closed = true }

func (s *fakeScreen) Resume() tea.Cmd {
	s.resumes++
	return nil
}

func titles(r *Router) []string {
	var out []string
	for _, s := range r.stack {
		out = append(out, s.Title())
	}
	return out
}

func TestNavigation(t *testing.T) {
	picker := &fakeScreen{title: "picker"}
	lesson := &fakeScreen{title: "lesson"}
	done := &fakeScreen{title: "done"}
	r := New(picker)

	r.Update(PushScreenMsg{Screen: lesson})
	assert.Equal(t, []string{"picker", "lesson"}, titles(r))
	assert.Equal(t, 1, lesson.inits)

	r.Update(ReplaceScreenMsg{Screen: done})
	assert.Equal(t, []string{"picker", "done"}, titles(r))
	assert.True(t, lesson.closed)
	assert.Equal(t, 1, done.inits)
	assert.Zero(t, picker.resumes, "replace must not resume the screen below")

	r.Update(PopScreenMsg{})
	assert.Equal(t, []string{"picker"}, titles(r))
	assert.True(t, done.closed)
	assert.Equal(t, 1, picker.resumes)
}

func TestPopKeepsRoot(t *testing.T) {
	root := &fakeScreen{title: "picker"}
	r := New(root)

	assert.Nil(t, r.Pop())
	assert.Equal(t, 1, r.Depth())
	assert.False(t, root.closed)
	assert.Zero(t, root.resumes)
}

func TestUpdateReachesOnlyActiveScreen(t *testing.T) {
	below := &fakeScreen{title: "picker"}
	above := &fakeScreen{title: "lesson"}
	r := New(below)
	r.Push(above)

	r.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Empty(t, below.updates)
	require.Len(t, above.updates, 1)
	assert.Equal(t, "lesson", r.View(80, 24))
}

func TestUnwindClosesEverything(t *testing.T) {
	a := &fakeScreen{title: "picker"}
	b := &fakeScreen{title: "lesson"}
	r := New(a)
	r.Push(b)

	r.Unwind()
	assert.True(t, a.closed)
	assert.True(t, b.closed)
	assert.Zero(t, a.resumes)
	assert.Nil(t, r.Active())
	assert.Empty(t, r.View(80, 24))
	assert.Nil(t, r.Update(tea.KeyPressMsg{Code: tea.KeyEnter}))
}
