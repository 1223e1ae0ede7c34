// Package engine implements the lesson flow state machine: goals,
// prerequisites, concept flows with graded questions, the optional final
// assessment and completion, with progress persisted after every step.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/weekcards/internal/card"
	"github.com/abhisek/weekcards/internal/logger"
	"github.com/abhisek/weekcards/internal/progress"
	"github.com/abhisek/weekcards/internal/question"
)

// Options wires the engine to its collaborators. Store is required; the
// rest default to no-ops, ValidatorRenderer and TimerScheduler.
type Options struct {
	StudentID  string
	Store      progress.Store
	Notifier   Notifier
	Renderer   Renderer
	Scheduler  Scheduler
	Events     EventSink
	OnComplete func(Completion)
	Logger     *logger.Logger

	// SessionID tags analytics events. A random UUID is used when empty.
	SessionID string
}

// live is the attempt state of a mounted question. It exists only while
// the question is current.
type live struct {
	mount         Mount
	question      question.Question
	attempts      int
	tries         int
	verified      bool
	solutionShown bool
	solution      string
}

type pending struct {
	id     card.ItemID
	cancel func()
}

// Engine walks one student through one card. All methods are safe for
// concurrent use; scheduled callbacks are serialized with user actions.
type Engine struct {
	mu sync.Mutex

	studentID  string
	card       *card.Card
	table      *card.FlowTable
	store      progress.Store
	notifier   Notifier
	renderer   Renderer
	sched      Scheduler
	events     EventSink
	onComplete func(Completion)
	log        *logger.Logger
	sessionID  string

	stage   Stage
	concept int
	item    int

	live map[card.ItemID]*live
	auto *pending

	assessAttempts int
	score          *Score
	assessDone     bool

	alreadyDone bool
	finished    bool
	closed      bool

	outbox []func()
}

// New builds an engine for c and restores the student's saved position.
// A card that is already done starts from the goals again and its saved
// position is ignored.
func New(ctx context.Context, c *card.Card, opts Options) (*Engine, error) {
	if c == nil {
		return nil, errors.New("engine: nil card")
	}
	if opts.Store == nil {
		return nil, errors.New("engine: progress store is required")
	}

	e := &Engine{
		studentID:  opts.StudentID,
		card:       c,
		table:      card.NewFlowTable(c),
		store:      opts.Store,
		notifier:   opts.Notifier,
		renderer:   opts.Renderer,
		sched:      opts.Scheduler,
		events:     opts.Events,
		onComplete: opts.OnComplete,
		log:        opts.Logger,
		sessionID:  opts.SessionID,
		stage:      StageGoals,
		live:       make(map[card.ItemID]*live),
	}
	if e.renderer == nil {
		e.renderer = ValidatorRenderer{}
	}
	if e.sched == nil {
		e.sched = TimerScheduler{}
	}
	if e.log == nil {
		e.log = logger.Nop()
	}
	if e.sessionID == "" {
		e.sessionID = uuid.New().String()
	}
	e.log = e.log.With("student", e.studentID, "week", c.Week, "session", e.sessionID)

	e.mu.Lock()
	defer e.unlock()
	e.restoreLocked(ctx)
	e.enterCurrentLocked()
	return e, nil
}

// unlock releases the lock and then delivers queued notices, events and
// the completion handoff.
func (e *Engine) unlock() {
	out := e.outbox
	e.outbox = nil
	e.mu.Unlock()
	for _, f := range out {
		f()
	}
}

func (e *Engine) restoreLocked(ctx context.Context) {
	done, err := e.store.IsDone(ctx, e.studentID, e.card.Week)
	if err != nil {
		e.storageFailedLocked("read done flag", err)
		return
	}
	if done {
		e.alreadyDone = true
		return
	}

	rec, err := e.store.Get(ctx, e.studentID, e.card.Week)
	if err != nil {
		e.storageFailedLocked("read progress", err)
		return
	}
	if rec == nil {
		return
	}

	r := progress.Clamp(*rec, progress.Bounds{
		ItemCounts:    e.table.ItemCounts(),
		HasAssessment: e.table.HasAssessment(),
	})
	switch r.Stage {
	case progress.StagePrereq:
		e.stage = StagePrereq
	case progress.StageConcept:
		e.stage = StageConcept
		e.concept, e.item = r.ConceptIndex, r.ItemIndex
	case progress.StageAssessment:
		e.stage = StageAssessment
		e.assessAttempts = min(max(r.Assessment.Attempts, 0), MaxAssessmentAttempts)
		if e.assessAttempts > 0 && r.Assessment.Total > 0 {
			e.score = &Score{Score: r.Assessment.Score, Total: r.Assessment.Total}
		}
	default:
		e.stage = StageGoals
	}
	e.log.Info("progress restored", "stage", e.stage.String(), "concept", e.concept, "item", e.item)
}

// enterCurrentLocked mounts whatever the current position shows.
func (e *Engine) enterCurrentLocked() {
	switch e.stage {
	case StageConcept:
		if id, ok := e.currentIDLocked(); ok {
			e.enterItemLocked(id)
		}
	case StageAssessment:
		for _, id := range e.table.AssessmentIDs() {
			e.enterItemLocked(id)
		}
	}
}

func (e *Engine) enterItemLocked(id card.ItemID) {
	if problems := e.table.ProblemsFor(id); len(problems) > 0 {
		e.log.Warn("authoring problems", "item", int(id), "problems", problems)
		e.notifyLocked(NoticeAuthoring, "This item has authoring problems: "+problems[0], id)
	}
	if _, ok := e.table.Question(id); ok {
		e.liveLocked(id)
	}
}

// liveLocked returns the live state of id, mounting the question first if
// needed. It returns nil for items that are not questions.
func (e *Engine) liveLocked(id card.ItemID) *live {
	if ls, ok := e.live[id]; ok {
		return ls
	}
	q, ok := e.table.Question(id)
	if !ok {
		return nil
	}
	ls := &live{mount: e.renderer.MountQuestion(id, q), question: q}
	e.live[id] = ls
	return ls
}

func (e *Engine) currentIDLocked() (card.ItemID, bool) {
	if e.stage != StageConcept {
		return 0, false
	}
	return e.table.ItemID(e.concept, e.item)
}

// CurrentAction reports what Continue will do.
func (e *Engine) CurrentAction() Action {
	e.mu.Lock()
	defer e.unlock()
	return e.actionLocked()
}

func (e *Engine) actionLocked() Action {
	if e.closed {
		return ActionNone
	}
	switch e.stage {
	case StageGoals, StagePrereq:
		return ActionAdvance
	case StageConcept:
		if id, ok := e.currentIDLocked(); ok {
			if ls, ok := e.live[id]; ok && !ls.verified {
				return ActionGrade
			}
		}
		return ActionAdvance
	case StageAssessment:
		if e.score == nil {
			return ActionComputeScore
		}
		return ActionFinish
	}
	return ActionNone
}

// Continue performs CurrentAction and returns the action it took.
func (e *Engine) Continue(ctx context.Context) (Action, error) {
	e.mu.Lock()
	defer e.unlock()
	if e.closed {
		return ActionNone, ErrClosed
	}

	act := e.actionLocked()
	var err error
	switch act {
	case ActionAdvance:
		e.advanceLocked(ctx)
	case ActionGrade:
		e.gradeLocked(ctx)
	case ActionComputeScore:
		_, err = e.computeScoreLocked(ctx)
	case ActionFinish:
		err = e.finishLocked(ctx)
	}
	return act, err
}

func (e *Engine) advanceLocked(ctx context.Context) {
	switch e.stage {
	case StageGoals:
		e.stage = StagePrereq
	case StagePrereq:
		e.enterConceptsFromLocked(ctx, 0)
	case StageConcept:
		e.leaveItemLocked()
		counts := e.table.ItemCounts()
		if e.concept < len(counts) && e.item+1 < counts[e.concept] {
			e.item++
			e.enterCurrentLocked()
		} else {
			e.enterConceptsFromLocked(ctx, e.concept+1)
		}
	default:
		return
	}
	e.persistLocked(ctx)
}

// enterConceptsFromLocked moves to the first item of the first non-empty
// concept at or after c, or past the concepts when there is none.
func (e *Engine) enterConceptsFromLocked(ctx context.Context, c int) {
	counts := e.table.ItemCounts()
	for ; c < len(counts); c++ {
		if counts[c] > 0 {
			e.stage = StageConcept
			e.concept, e.item = c, 0
			e.enterCurrentLocked()
			return
		}
	}
	if e.table.HasAssessment() {
		e.stage = StageAssessment
		e.concept, e.item = 0, 0
		e.enterCurrentLocked()
		return
	}
	e.completeLocked(ctx)
}

// leaveItemLocked drops the live state of the current item.
func (e *Engine) leaveItemLocked() {
	e.cancelAutoLocked()
	if id, ok := e.currentIDLocked(); ok {
		delete(e.live, id)
	}
}

func (e *Engine) scheduleAdvanceLocked(id card.ItemID) {
	e.cancelAutoLocked()
	p := &pending{id: id}
	p.cancel = e.sched.After(AutoAdvanceDelay, func() { e.autoAdvance(p) })
	e.auto = p
}

func (e *Engine) cancelAutoLocked() {
	if e.auto != nil {
		e.auto.cancel()
		e.auto = nil
	}
}

// autoAdvance runs from the scheduler. Callbacks for an item the engine
// already left, or after Close, do nothing.
func (e *Engine) autoAdvance(p *pending) {
	e.mu.Lock()
	defer e.unlock()
	if e.closed || e.auto != p {
		return
	}
	e.auto = nil
	if id, ok := e.currentIDLocked(); !ok || id != p.id {
		return
	}
	e.advanceLocked(context.Background())
}

func (e *Engine) completeLocked(ctx context.Context) {
	if e.finished {
		return
	}
	e.cancelAutoLocked()
	if e.stage == StageAssessment {
		e.assessDone = true
		e.persistLocked(ctx)
	}
	e.stage = StageCompleted
	clear(e.live)

	if err := e.store.MarkDone(ctx, e.studentID, e.card.Week); err != nil {
		e.storageFailedLocked("mark done", err)
	}
	e.finished = true

	comp := Completion{StudentID: e.studentID, Week: e.card.Week, CardTitle: e.card.Title}
	ev := CompletionEvent{SessionID: e.sessionID, StudentID: e.studentID, Week: e.card.Week, CardTitle: e.card.Title}
	if e.table.HasAssessment() && e.score != nil {
		s := *e.score
		comp.FinalScore = &s
		ev.HasScore, ev.Score, ev.Total = true, s.Score, s.Total
	}
	e.log.Info("card completed", "has_score", ev.HasScore, "score", ev.Score, "total", ev.Total)

	if e.events != nil {
		sink, log := e.events, e.log
		e.outbox = append(e.outbox, func() {
			if err := sink.RecordCompletion(ctx, ev); err != nil {
				log.Warn("record completion event", "error", err)
			}
		})
	}
	if e.onComplete != nil {
		cb := e.onComplete
		e.outbox = append(e.outbox, func() { cb(comp) })
	}
}

func (e *Engine) persistLocked(ctx context.Context) {
	if e.stage == StageCompleted {
		return
	}
	if err := e.store.Set(ctx, e.studentID, e.card.Week, e.recordLocked()); err != nil {
		e.storageFailedLocked("save progress", err)
	}
}

func (e *Engine) recordLocked() progress.Record {
	rec := progress.Record{
		ConceptIndex: e.concept,
		ItemIndex:    e.item,
		UpdatedAt:    time.Now(),
		Assessment: progress.AssessmentState{
			Attempts:  e.assessAttempts,
			Completed: e.assessDone,
		},
	}
	if e.score != nil {
		rec.Assessment.Score, rec.Assessment.Total = e.score.Score, e.score.Total
	}
	switch e.stage {
	case StagePrereq:
		rec.Stage = progress.StagePrereq
	case StageConcept:
		rec.Stage = progress.StageConcept
	case StageAssessment:
		rec.Stage = progress.StageAssessment
	default:
		rec.Stage = progress.StageGoals
	}
	if rec.Stage != progress.StageConcept {
		rec.ConceptIndex, rec.ItemIndex = 0, 0
	}
	return rec
}

func (e *Engine) storageFailedLocked(op string, err error) {
	e.log.Warn("progress storage failed", "op", op, "error", err)
	e.notifyLocked(NoticeStorage, "Your progress could not be saved. You can keep going.", NoItem)
}

func (e *Engine) notifyLocked(kind NoticeKind, text string, id card.ItemID) {
	if e.notifier == nil {
		return
	}
	n, notifier := Notice{Kind: kind, Text: text, Item: id}, e.notifier
	e.outbox = append(e.outbox, func() { notifier.Notify(n) })
}

// Close cancels pending timers and drops live state. Later calls to
// Continue fail with ErrClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.cancelAutoLocked()
	clear(e.live)
	return nil
}

// SessionID returns the id attached to analytics events.
func (e *Engine) SessionID() string { return e.sessionID }

// Table returns the card's flow table.
func (e *Engine) Table() *card.FlowTable { return e.table }
