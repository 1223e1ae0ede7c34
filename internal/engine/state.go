package engine

import (
	"context"
	"errors"

	"github.com/abhisek/weekcards/internal/card"
	"github.com/abhisek/weekcards/internal/question"
	"github.com/abhisek/weekcards/internal/validate"
)

// MaxAttempts is the number of graded wrong attempts that escalate hints.
// The last one also reveals the solution.
const MaxAttempts = 3

// MaxAssessmentAttempts is the number of score submissions per card,
// the first one plus a single retry.
const MaxAssessmentAttempts = 2

var (
	ErrClosed          = errors.New("engine closed")
	ErrNoScore         = errors.New("assessment has no score yet")
	ErrRetryExhausted  = errors.New("assessment retry already used")
	ErrNotInAssessment = errors.New("engine is not in the assessment stage")
)

// Stage is the top-level phase of a lesson session.
type Stage int

const (
	StageGoals      Stage = iota // Goals overview
	StagePrereq                  // Prerequisites overview
	StageConcept                 // Walking concept flows
	StageAssessment              // Final assessment
	StageCompleted               // Card finished
)

func (s Stage) String() string {
	switch s {
	case StageGoals:
		return "goals"
	case StagePrereq:
		return "prereq"
	case StageConcept:
		return "concept"
	case StageAssessment:
		return "assessment"
	case StageCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Action is what the single "continue" trigger does in the current state.
type Action int

const (
	ActionNone Action = iota
	ActionAdvance
	ActionGrade
	ActionComputeScore
	ActionFinish
)

func (a Action) String() string {
	switch a {
	case ActionAdvance:
		return "advance"
	case ActionGrade:
		return "grade"
	case ActionComputeScore:
		return "compute-score"
	case ActionFinish:
		return "finish"
	default:
		return "none"
	}
}

// NoticeKind classifies transient notifications.
type NoticeKind string

const (
	NoticeHint       NoticeKind = "hint"
	NoticeSolution   NoticeKind = "solution"
	NoticeSuccess    NoticeKind = "success"
	NoticeRetry      NoticeKind = "retry"
	NoticeIncomplete NoticeKind = "incomplete"
	NoticeAuthoring  NoticeKind = "authoring"
	NoticeStorage    NoticeKind = "storage"
	NoticeInfo       NoticeKind = "info"
)

// NoItem marks a notice that is not about a specific item.
const NoItem card.ItemID = -1

// Notice is a transient, non-blocking message for the learner.
type Notice struct {
	Kind NoticeKind
	Text string
	Item card.ItemID
}

// Notifier receives notices. It is called outside the engine lock.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Mount is a rendered question bound to its live captured state.
type Mount interface {
	Check() validate.Verdict
	Response() question.Response
	RevealSolution(text string)
	Reset()
}

// Renderer mounts questions. The engine only talks to the returned Mount.
type Renderer interface {
	MountQuestion(id card.ItemID, q question.Question) Mount
}

// ValidatorRenderer mounts plain validators, for headless use.
type ValidatorRenderer struct {
	Rand validate.Shuffler
}

func (r ValidatorRenderer) MountQuestion(_ card.ItemID, q question.Question) Mount {
	return validate.New(q, r.Rand)
}

// Score is a computed assessment result.
type Score struct {
	Score   float64
	Total   float64
	Correct []bool
}

// Completion is handed off once per finished card.
type Completion struct {
	StudentID  string
	Week       int
	CardTitle  string
	FinalScore *Score // nil when the card has no assessment
}

// AttemptEvent records one graded attempt.
type AttemptEvent struct {
	SessionID  string
	StudentID  string
	Week       int
	ItemID     card.ItemID
	Kind       question.Kind
	Attempt    int
	Correct    bool
	Assessment bool
}

// HintEvent records a hint or solution shown after a wrong attempt.
type HintEvent struct {
	SessionID        string
	StudentID        string
	Week             int
	ItemID           card.ItemID
	Attempt          int
	Source           HintSource
	Text             string
	SolutionRevealed bool
}

// CompletionEvent records a finished card.
type CompletionEvent struct {
	SessionID string
	StudentID string
	Week      int
	CardTitle string
	HasScore  bool
	Score     float64
	Total     float64
}

// EventSink receives analytics events. Failures are logged and ignored.
type EventSink interface {
	RecordAttempt(ctx context.Context, e AttemptEvent) error
	RecordHint(ctx context.Context, e HintEvent) error
	RecordCompletion(ctx context.Context, e CompletionEvent) error
}
