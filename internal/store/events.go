package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/weekcards/internal/engine"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	StudentID string    // exact match when set
	Week      int       // exact match when > 0
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	Week         int
	QuestionPath string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// AttemptRecord is a stored attempt event.
type AttemptRecord struct {
	Sequence   int64
	Timestamp  time.Time
	SessionID  string
	StudentID  string
	Week       int
	ItemID     int
	Kind       string
	Attempt    int
	Correct    bool
	Assessment bool
}

// EventRepo appends analytics events. It implements engine.EventSink.
type EventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

var _ engine.EventSink = (*EventRepo)(nil)

func (r *EventRepo) clock() time.Time {
	if r.now != nil {
		return r.now().UTC()
	}
	return time.Now().UTC()
}

// insert assigns the next global sequence and inserts one row. The column
// list is extended with sequence and timestamp.
func (r *EventRepo) insert(ctx context.Context, table string, cols []string, vals ...any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	cols = append([]string{"sequence", "timestamp"}, cols...)
	vals = append([]any{seqNum, r.clock()}, vals...)

	query, args := builder().Insert(table).Columns(cols...).Values(vals...).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save %s: %w", table, err)
	}
	return nil
}

func (r *EventRepo) RecordAttempt(ctx context.Context, e engine.AttemptEvent) error {
	return r.insert(ctx, attemptTable,
		[]string{"session_id", "student_id", "week", "item_id", "kind", "attempt", "correct", "assessment"},
		e.SessionID, e.StudentID, e.Week, int(e.ItemID), string(e.Kind), e.Attempt, e.Correct, e.Assessment,
	)
}

func (r *EventRepo) RecordHint(ctx context.Context, e engine.HintEvent) error {
	return r.insert(ctx, hintTable,
		[]string{"session_id", "student_id", "week", "item_id", "attempt", "source", "hint_text", "solution_revealed"},
		e.SessionID, e.StudentID, e.Week, int(e.ItemID), e.Attempt, string(e.Source), e.Text, e.SolutionRevealed,
	)
}

func (r *EventRepo) RecordCompletion(ctx context.Context, e engine.CompletionEvent) error {
	return r.insert(ctx, completionTable,
		[]string{"session_id", "student_id", "week", "card_title", "has_score", "score", "total"},
		e.SessionID, e.StudentID, e.Week, e.CardTitle, e.HasScore, e.Score, e.Total,
	)
}

func (r *EventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	return r.insert(ctx, llmRequestTable,
		[]string{"provider", "model", "purpose", "week", "question_path", "input_tokens", "output_tokens", "latency_ms", "success", "error_message"},
		data.Provider, data.Model, data.Purpose, data.Week, data.QuestionPath, data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage,
	)
}

func eventFilter(s *entsql.Selector, opts QueryOpts) *entsql.Selector {
	if opts.Limit > 0 {
		s = s.Limit(opts.Limit)
	}
	if opts.After > 0 {
		s = s.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		s = s.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		s = s.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		s = s.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.StudentID != "" {
		s = s.Where(entsql.EQ("student_id", opts.StudentID))
	}
	if opts.Week > 0 {
		s = s.Where(entsql.EQ("week", opts.Week))
	}
	return s
}

// QueryAttempts returns attempt events, newest first.
func (r *EventRepo) QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error) {
	sel := builder().
		Select("sequence", "timestamp", "session_id", "student_id", "week", "item_id", "kind", "attempt", "correct", "assessment").
		From(entsql.Table(attemptTable)).
		OrderBy(entsql.Desc("sequence"))
	query, args := eventFilter(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempt events: %w", err)
	}
	defer rows.Close()

	var records []AttemptRecord
	for rows.Next() {
		var a AttemptRecord
		if err := rows.Scan(&a.Sequence, &a.Timestamp, &a.SessionID, &a.StudentID, &a.Week,
			&a.ItemID, &a.Kind, &a.Attempt, &a.Correct, &a.Assessment); err != nil {
			return nil, fmt.Errorf("scan attempt event: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query attempt events: %w", err)
	}
	return records, nil
}

// AttemptStats is the aggregate of a student's attempts on one card.
type AttemptStats struct {
	Attempts int
	Correct  int
	Hints    int
}

// Stats counts attempts, correct attempts and hints for one card.
func (r *EventRepo) Stats(ctx context.Context, studentID string, week int) (AttemptStats, error) {
	var st AttemptStats

	query, args := builder().
		Select(entsql.Count("*"), "COALESCE(SUM(correct), 0)").
		From(entsql.Table(attemptTable)).
		Where(keyPredicate(studentID, week)).
		Query()
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&st.Attempts, &st.Correct); err != nil {
		return st, fmt.Errorf("attempt stats: %w", err)
	}

	query, args = builder().
		Select(entsql.Count("*")).
		From(entsql.Table(hintTable)).
		Where(keyPredicate(studentID, week)).
		Query()
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&st.Hints); err != nil {
		return st, fmt.Errorf("hint stats: %w", err)
	}
	return st, nil
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// QueryLLMEvents returns LLM request events, newest first. A non-empty
// purpose keeps only events with that purpose.
func (r *EventRepo) QueryLLMEvents(ctx context.Context, purpose string, opts QueryOpts) ([]LLMEventRecord, error) {
	sel := builder().
		Select("id", "sequence", "timestamp", "provider", "model", "purpose", "week", "question_path",
			"input_tokens", "output_tokens", "latency_ms", "success", "error_message").
		From(entsql.Table(llmRequestTable)).
		OrderBy(entsql.Desc("sequence"))
	if purpose != "" {
		sel = sel.Where(entsql.EQ("purpose", purpose))
	}
	query, args := eventFilter(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query llm events: %w", err)
	}
	defer rows.Close()

	var records []LLMEventRecord
	for rows.Next() {
		var e LLMEventRecord
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose, &e.Week, &e.QuestionPath,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan llm event: %w", err)
		}
		records = append(records, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query llm events: %w", err)
	}
	return records, nil
}
