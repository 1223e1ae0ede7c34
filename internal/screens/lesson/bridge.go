package lesson

import (
	"sync"
	"time"

	"github.com/abhisek/weekcards/internal/engine"
)

// bridge collects what the engine hands out during a call (notices, timer
// requests, the completion) so the screen can turn it into bubbletea
// commands afterwards. Timer callbacks therefore run on the UI loop.
type bridge struct {
	mu      sync.Mutex
	notices []engine.Notice
	timers  map[int]func()
	queued  []timerRequest
	nextID  int
	done    *engine.Completion
}

type timerRequest struct {
	id    int
	delay time.Duration
}

func newBridge() *bridge {
	return &bridge{timers: make(map[int]func())}
}

// Notify implements engine.Notifier.
func (b *bridge) Notify(n engine.Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
}

// After implements engine.Scheduler. The timer starts when the screen
// drains the request.
func (b *bridge) After(d time.Duration, fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.timers[id] = fn
	b.queued = append(b.queued, timerRequest{id: id, delay: d})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.timers, id)
	}
}

func (b *bridge) complete(c engine.Completion) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.done = &c
}

// fire runs the callback of timer id unless it was cancelled.
func (b *bridge) fire(id int) bool {
	b.mu.Lock()
	fn, ok := b.timers[id]
	delete(b.timers, id)
	b.mu.Unlock()
	if ok {
		fn()
	}
	return ok
}

// pending returns the ids of timers that were neither fired nor cancelled.
func (b *bridge) pending() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int, 0, len(b.timers))
	for id := range b.timers {
		ids = append(ids, id)
	}
	return ids
}

func (b *bridge) drain() ([]engine.Notice, []timerRequest, *engine.Completion) {
	b.mu.Lock()
	defer b.mu.Unlock()
	notices, queued, done := b.notices, b.queued, b.done
	b.notices, b.queued, b.done = nil, nil, nil
	return notices, queued, done
}
