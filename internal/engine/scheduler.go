package engine

import "time"

// AutoAdvanceDelay is how long a correct answer stays on screen before the
// engine moves on.
const AutoAdvanceDelay = 1200 * time.Millisecond

// Scheduler runs fn after d. The returned cancel stops a pending run; it is
// safe to call more than once and after fn ran.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler schedules with time.AfterFunc. Callbacks run on their own
// goroutine.
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
