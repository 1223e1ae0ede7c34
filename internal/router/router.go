// Package router keeps the stack of screens the player navigates through.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/weekcards/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg returns to the screen underneath.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the top screen for Screen, so going back skips
// the replaced one. A finished lesson is replaced by its completion screen.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router is a stack of screens. Only the top one receives messages.
// Screens leaving the stack are closed when they implement screen.Closer.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) top() int { return len(r.stack) - 1 }

// Push opens s and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen and resumes the one it uncovers. The root is
// never popped.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) < 2 {
		return nil
	}
	release(r.stack[r.top()])
	r.stack = r.stack[:r.top()]
	if res, ok := r.stack[r.top()].(screen.Resumer); ok {
		return res.Resume()
	}
	return nil
}

// Replace closes the top screen and puts s in its place.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		return r.Push(s)
	}
	release(r.stack[r.top()])
	r.stack[r.top()] = s
	return s.Init()
}

// Unwind closes every screen, top first, without resuming any of them.
// The router is empty afterwards.
func (r *Router) Unwind() {
	for i := r.top(); i >= 0; i-- {
		release(r.stack[i])
	}
	r.stack = nil
}

func release(s screen.Screen) {
	if c, ok := s.(screen.Closer); ok {
		c.Close()
	}
}

// Active returns the top screen, or nil after Unwind.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[r.top()]
}

func (r *Router) Depth() int {
	return len(r.stack)
}

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}
	if len(r.stack) == 0 {
		return nil
	}
	next, cmd := r.stack[r.top()].Update(msg)
	r.stack[r.top()] = next
	return cmd
}

// View renders the active screen into width x height.
func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}
