// Package progress defines the per-student, per-card progress record and the
// storage contract the lesson engine depends on.
package progress

import (
	"context"
	"time"
)

// Stage is the persisted lesson stage.
type Stage string

const (
	StageGoals      Stage = "goals"
	StagePrereq     Stage = "prereq"
	StageConcept    Stage = "concept"
	StageAssessment Stage = "assessment"
)

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StageGoals, StagePrereq, StageConcept, StageAssessment:
		return true
	}
	return false
}

// AssessmentState is the persisted state of the final assessment.
type AssessmentState struct {
	Attempts  int     `json:"attempts"`
	Completed bool    `json:"completed"`
	Score     float64 `json:"score"`
	Total     float64 `json:"total"`
}

// Record is the resume point of one student on one card.
type Record struct {
	Stage        Stage           `json:"stage"`
	ConceptIndex int             `json:"conceptIndex"`
	ItemIndex    int             `json:"itemIndex"`
	Assessment   AssessmentState `json:"assessment"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Store persists progress records and the monotonic done flag. Get returns
// nil, nil when nothing is stored.
type Store interface {
	Get(ctx context.Context, studentID string, week int) (*Record, error)
	Set(ctx context.Context, studentID string, week int, rec Record) error
	MarkDone(ctx context.Context, studentID string, week int) error
	IsDone(ctx context.Context, studentID string, week int) (bool, error)
}

// Resetter is implemented by stores that support the explicit admin reset.
// The engine never calls it.
type Resetter interface {
	Reset(ctx context.Context, studentID string, week int) error
}

// Entry is a stored record with its key, as returned by listing stores.
type Entry struct {
	StudentID string
	Week      int
	Record    *Record
	Done      bool
}

// Lister is implemented by stores that can enumerate a student's progress.
type Lister interface {
	List(ctx context.Context, studentID string) ([]Entry, error)
}
