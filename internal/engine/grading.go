package engine

import (
	"context"

	"github.com/abhisek/weekcards/internal/card"
	"github.com/abhisek/weekcards/internal/question"
)

// gradeLocked checks the current question. Incomplete answers cost no
// attempt. Wrong answers escalate hints up to MaxAttempts, the last of
// which also reveals the solution; later wrong answers only get a retry
// notice.
func (e *Engine) gradeLocked(ctx context.Context) {
	id, ok := e.currentIDLocked()
	if !ok {
		return
	}
	ls := e.live[id]
	if ls == nil || ls.verified {
		return
	}

	v := ls.mount.Check()
	if v.Incomplete {
		e.notifyLocked(NoticeIncomplete, v.Message, id)
		return
	}
	ls.tries++

	if v.Correct {
		ls.verified = true
		e.recordAttemptLocked(ctx, id, ls, true, false)
		msg := "Correct!"
		if v.Corrected {
			msg = "Correct! Accepted as: " + question.SolutionText(ls.question)
		}
		e.notifyLocked(NoticeSuccess, msg, id)
		e.scheduleAdvanceLocked(id)
		return
	}
	e.recordAttemptLocked(ctx, id, ls, false, false)

	if ls.attempts >= MaxAttempts {
		e.notifyLocked(NoticeRetry, "Not quite. Try again.", id)
		return
	}
	ls.attempts++

	hint, src := hintFor(ls.question, ls.attempts)
	e.notifyLocked(NoticeHint, hint, id)
	revealed := false
	if ls.attempts == MaxAttempts && !ls.solutionShown {
		ls.solution = question.SolutionText(ls.question)
		if ls.solution == "" {
			ls.solution = "No model solution is available for this question."
		}
		ls.solutionShown = true
		ls.mount.RevealSolution(ls.solution)
		e.notifyLocked(NoticeSolution, "Solution: "+ls.solution, id)
		revealed = true
	}
	e.recordHintLocked(ctx, HintEvent{
		SessionID:        e.sessionID,
		StudentID:        e.studentID,
		Week:             e.card.Week,
		ItemID:           id,
		Attempt:          ls.attempts,
		Source:           src,
		Text:             hint,
		SolutionRevealed: revealed,
	})
}

func (e *Engine) recordAttemptLocked(ctx context.Context, id card.ItemID, ls *live, correct, assessment bool) {
	if e.events == nil {
		return
	}
	ev := AttemptEvent{
		SessionID:  e.sessionID,
		StudentID:  e.studentID,
		Week:       e.card.Week,
		ItemID:     id,
		Kind:       ls.question.Kind(),
		Attempt:    ls.tries,
		Correct:    correct,
		Assessment: assessment,
	}
	sink, log := e.events, e.log
	e.outbox = append(e.outbox, func() {
		if err := sink.RecordAttempt(ctx, ev); err != nil {
			log.Warn("record attempt event", "error", err)
		}
	})
}

func (e *Engine) recordHintLocked(ctx context.Context, ev HintEvent) {
	if e.events == nil {
		return
	}
	sink, log := e.events, e.log
	e.outbox = append(e.outbox, func() {
		if err := sink.RecordHint(ctx, ev); err != nil {
			log.Warn("record hint event", "error", err)
		}
	})
}
