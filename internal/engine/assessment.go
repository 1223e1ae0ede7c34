package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/abhisek/weekcards/internal/question"
)

// ComputeScore grades every assessment question at once. Multiple-choice
// questions compare the selected index; the rest use exact and numeric
// comparison without fuzzy matching. Calling it again before
// RetryAssessment returns the same score and changes nothing.
func (e *Engine) ComputeScore(ctx context.Context) (*Score, error) {
	e.mu.Lock()
	defer e.unlock()
	if e.closed {
		return nil, ErrClosed
	}
	return e.computeScoreLocked(ctx)
}

func (e *Engine) computeScoreLocked(ctx context.Context) (*Score, error) {
	if e.stage != StageAssessment {
		return nil, ErrNotInAssessment
	}
	if e.score != nil {
		return e.score, nil
	}

	s := &Score{}
	for _, id := range e.table.AssessmentIDs() {
		ls := e.liveLocked(id)
		if ls == nil {
			continue
		}
		q := ls.question
		ok := question.IsAnswerCorrect(q, ls.mount.Response(), question.StrictCompare(q))
		s.Total += q.Points
		if ok {
			s.Score += q.Points
		}
		s.Correct = append(s.Correct, ok)
		ls.tries++
		e.recordAttemptLocked(ctx, id, ls, ok, true)
	}
	e.assessAttempts++
	e.score = s

	e.log.Info("assessment scored", "score", s.Score, "total", s.Total, "attempt", e.assessAttempts)
	e.notifyLocked(NoticeInfo, fmt.Sprintf("Score: %s / %s", formatPoints(s.Score), formatPoints(s.Total)), NoItem)
	e.persistLocked(ctx)
	return s, nil
}

// RetryAssessment clears every captured answer and the score so the
// assessment can be submitted again. Only one retry is allowed.
func (e *Engine) RetryAssessment(ctx context.Context) error {
	e.mu.Lock()
	defer e.unlock()
	switch {
	case e.closed:
		return ErrClosed
	case e.stage != StageAssessment:
		return ErrNotInAssessment
	case e.score == nil:
		return ErrNoScore
	case e.assessAttempts >= MaxAssessmentAttempts:
		return ErrRetryExhausted
	}

	for _, id := range e.table.AssessmentIDs() {
		if ls := e.liveLocked(id); ls != nil {
			ls.mount.Reset()
		}
	}
	e.score = nil
	e.persistLocked(ctx)
	return nil
}

// CanRetry reports whether RetryAssessment would succeed.
func (e *Engine) CanRetry() bool {
	e.mu.Lock()
	defer e.unlock()
	return !e.closed && e.stage == StageAssessment && e.score != nil && e.assessAttempts < MaxAssessmentAttempts
}

// Finish completes the card. It is rejected until a score exists.
func (e *Engine) Finish(ctx context.Context) error {
	e.mu.Lock()
	defer e.unlock()
	if e.closed {
		return ErrClosed
	}
	return e.finishLocked(ctx)
}

func (e *Engine) finishLocked(ctx context.Context) error {
	if e.stage != StageAssessment {
		return ErrNotInAssessment
	}
	if e.score == nil {
		return ErrNoScore
	}
	e.completeLocked(ctx)
	return nil
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
