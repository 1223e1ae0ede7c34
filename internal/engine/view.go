package engine

import (
	"github.com/abhisek/weekcards/internal/card"
	"github.com/abhisek/weekcards/internal/question"
)

// ItemView is a snapshot of one visible item.
type ItemView struct {
	ID       card.ItemID
	Item     card.FlowItem
	Question *question.Question
	Mount    Mount

	Attempts      int
	Verified      bool
	SolutionShown bool
	Solution      string
	Problems      []string
}

// View is a snapshot of the engine for rendering.
type View struct {
	Stage        Stage
	Action       Action
	Card         *card.Card
	ConceptIndex int
	ItemIndex    int
	ConceptCount int
	ConceptTitle string

	// Shown holds the concept's items before the current one, which stay on
	// screen as the flow is revealed.
	Shown   []card.FlowItem
	Current *ItemView

	Assessment         []ItemView
	Score              *Score
	AssessmentAttempts int
	CanRetry           bool

	// AlreadyDone is set when the card was done before this session.
	AlreadyDone bool
}

// View returns a snapshot of the current state.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.unlock()

	v := View{
		Stage:              e.stage,
		Action:             e.actionLocked(),
		Card:               e.card,
		ConceptCount:       e.table.ConceptCount(),
		AssessmentAttempts: e.assessAttempts,
		AlreadyDone:        e.alreadyDone,
	}
	if e.score != nil {
		s := *e.score
		v.Score = &s
	}

	switch e.stage {
	case StageConcept:
		v.ConceptIndex, v.ItemIndex = e.concept, e.item
		concept := e.card.Concepts[e.concept]
		v.ConceptTitle = concept.Title
		v.Shown = concept.Flow()[:e.item]
		if id, ok := e.currentIDLocked(); ok {
			iv := e.itemViewLocked(id)
			v.Current = &iv
		}
	case StageAssessment:
		for _, id := range e.table.AssessmentIDs() {
			v.Assessment = append(v.Assessment, e.itemViewLocked(id))
		}
		v.CanRetry = e.score != nil && e.assessAttempts < MaxAssessmentAttempts
	}
	return v
}

func (e *Engine) itemViewLocked(id card.ItemID) ItemView {
	entry, _ := e.table.Entry(id)
	iv := ItemView{ID: id, Item: entry.Item, Problems: e.table.ProblemsFor(id)}
	if q, ok := e.table.Question(id); ok {
		iv.Question = &q
	}
	if ls, ok := e.live[id]; ok {
		iv.Mount = ls.mount
		iv.Attempts = ls.attempts
		iv.Verified = ls.verified
		iv.SolutionShown = ls.solutionShown
		iv.Solution = ls.solution
	}
	return iv
}

// Stage returns the current stage.
func (e *Engine) Stage() Stage {
	e.mu.Lock()
	defer e.unlock()
	return e.stage
}

// Position returns the current concept and item index.
func (e *Engine) Position() (concept, item int) {
	e.mu.Lock()
	defer e.unlock()
	return e.concept, e.item
}
