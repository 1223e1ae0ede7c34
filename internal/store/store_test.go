package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/weekcards/internal/engine"
	"github.com/abhisek/weekcards/internal/progress"
	"github.com/abhisek/weekcards/internal/question"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, want := range []string{progressTable, attemptTable, hintTable, completionTable, llmRequestTable, "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", want,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", want, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.ProgressRepo().MarkDone(ctx, "sara", 1); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	done, err := s.ProgressRepo().IsDone(ctx, "sara", 1)
	if err != nil {
		t.Fatalf("is done: %v", err)
	}
	if !done {
		t.Error("done flag lost across reopen")
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestProgressGetMissing(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()

	rec, err := repo.Get(context.Background(), "sara", 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestProgressSetAndGet(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	want := progress.Record{
		Stage:        progress.StageAssessment,
		ConceptIndex: 2,
		ItemIndex:    4,
		Assessment:   progress.AssessmentState{Attempts: 1, Score: 2.5, Total: 4},
		UpdatedAt:    at,
	}
	if err := repo.Set(ctx, "sara", 3, want); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := repo.Get(ctx, "sara", 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected record")
	}
	if got.Stage != want.Stage || got.ConceptIndex != 2 || got.ItemIndex != 4 {
		t.Errorf("position = %s/%d/%d, want assessment/2/4", got.Stage, got.ConceptIndex, got.ItemIndex)
	}
	if got.Assessment != want.Assessment {
		t.Errorf("assessment = %+v, want %+v", got.Assessment, want.Assessment)
	}
	if !got.UpdatedAt.Equal(at) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, at)
	}

	// Upsert replaces the position.
	if err := repo.Set(ctx, "sara", 3, progress.Record{Stage: progress.StageConcept, ConceptIndex: 1}); err != nil {
		t.Fatalf("second set: %v", err)
	}
	got, err = repo.Get(ctx, "sara", 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stage != progress.StageConcept || got.ConceptIndex != 1 || got.ItemIndex != 0 {
		t.Errorf("after upsert = %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("expected updated_at to be filled in")
	}
}

func TestProgressDoneIsMonotonic(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()
	ctx := context.Background()

	if err := repo.Set(ctx, "sara", 2, progress.Record{Stage: progress.StageConcept}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.MarkDone(ctx, "sara", 2); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	// Marking twice is harmless.
	if err := repo.MarkDone(ctx, "sara", 2); err != nil {
		t.Fatalf("mark done again: %v", err)
	}
	// A later position save must not clear the flag.
	if err := repo.Set(ctx, "sara", 2, progress.Record{Stage: progress.StageGoals}); err != nil {
		t.Fatalf("set after done: %v", err)
	}

	done, err := repo.IsDone(ctx, "sara", 2)
	if err != nil {
		t.Fatalf("is done: %v", err)
	}
	if !done {
		t.Error("expected done to stay set")
	}

	other, err := repo.IsDone(ctx, "omar", 2)
	if err != nil {
		t.Fatalf("is done: %v", err)
	}
	if other {
		t.Error("done leaked to another student")
	}
}

func TestProgressMarkDoneWithoutRecord(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()
	ctx := context.Background()

	if err := repo.MarkDone(ctx, "sara", 5); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	rec, err := repo.Get(ctx, "sara", 5)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Errorf("expected no position for a done-only row, got %+v", rec)
	}
}

func TestProgressResetAndList(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()
	ctx := context.Background()

	if err := repo.Set(ctx, "sara", 3, progress.Record{Stage: progress.StagePrereq}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.MarkDone(ctx, "sara", 1); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	if err := repo.Set(ctx, "omar", 2, progress.Record{Stage: progress.StageGoals}); err != nil {
		t.Fatalf("set: %v", err)
	}

	entries, err := repo.List(ctx, "sara")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Week != 1 || !entries[0].Done || entries[0].Record != nil {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].Week != 3 || entries[1].Done || entries[1].Record == nil {
		t.Errorf("entries[1] = %+v", entries[1])
	}

	if err := repo.Reset(ctx, "sara", 1); err != nil {
		t.Fatalf("reset: %v", err)
	}
	done, err := repo.IsDone(ctx, "sara", 1)
	if err != nil {
		t.Fatalf("is done: %v", err)
	}
	if done {
		t.Error("reset should clear done")
	}
}

func TestEventRepoRecordsAndQueries(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, correct := range []bool{false, false, true} {
		err := repo.RecordAttempt(ctx, engine.AttemptEvent{
			SessionID: "s1",
			StudentID: "sara",
			Week:      3,
			ItemID:    4,
			Kind:      question.KindMCQ,
			Attempt:   i + 1,
			Correct:   correct,
		})
		if err != nil {
			t.Fatalf("record attempt %d: %v", i, err)
		}
	}
	err := repo.RecordHint(ctx, engine.HintEvent{
		SessionID: "s1",
		StudentID: "sara",
		Week:      3,
		ItemID:    4,
		Attempt:   1,
		Source:    engine.HintAuthor,
		Text:      "Look at the units.",
	})
	if err != nil {
		t.Fatalf("record hint: %v", err)
	}
	err = repo.RecordCompletion(ctx, engine.CompletionEvent{
		SessionID: "s1",
		StudentID: "sara",
		Week:      3,
		CardTitle: "Fractions",
		HasScore:  true,
		Score:     3,
		Total:     4,
	})
	if err != nil {
		t.Fatalf("record completion: %v", err)
	}
	err = repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "mock",
		Model:        "mock-model",
		Purpose:      "hint-authoring",
		Week:         3,
		QuestionPath: "concepts.0.flow.2.q",
		Success:      true,
	})
	if err != nil {
		t.Fatalf("append llm request: %v", err)
	}

	attempts, err := repo.QueryAttempts(ctx, QueryOpts{StudentID: "sara", Week: 3})
	if err != nil {
		t.Fatalf("query attempts: %v", err)
	}
	if len(attempts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(attempts))
	}
	// Newest first, sequences shared across tables.
	if attempts[0].Sequence != 3 || !attempts[0].Correct || attempts[0].Attempt != 3 {
		t.Errorf("attempts[0] = %+v", attempts[0])
	}
	if attempts[2].Sequence != 1 || attempts[2].Kind != "mcq" {
		t.Errorf("attempts[2] = %+v", attempts[2])
	}

	limited, err := repo.QueryAttempts(ctx, QueryOpts{Limit: 1, Before: 3})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 || limited[0].Sequence != 2 {
		t.Errorf("limited = %+v", limited)
	}

	none, err := repo.QueryAttempts(ctx, QueryOpts{StudentID: "omar"})
	if err != nil {
		t.Fatalf("query other: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no attempts for another student, got %d", len(none))
	}

	st, err := repo.Stats(ctx, "sara", 3)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st != (AttemptStats{Attempts: 3, Correct: 1, Hints: 1}) {
		t.Errorf("stats = %+v", st)
	}

	llmEvents, err := repo.QueryLLMEvents(ctx, "hint-authoring", QueryOpts{})
	if err != nil {
		t.Fatalf("query llm events: %v", err)
	}
	if len(llmEvents) != 1 || llmEvents[0].Sequence != 6 || llmEvents[0].Model != "mock-model" || llmEvents[0].ID == 0 ||
		llmEvents[0].QuestionPath != "concepts.0.flow.2.q" {
		t.Errorf("llm events = %+v", llmEvents)
	}
	other, err := repo.QueryLLMEvents(ctx, "grading", QueryOpts{})
	if err != nil {
		t.Fatalf("query llm events by purpose: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected no events for another purpose, got %d", len(other))
	}

	next, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if next != 7 {
		t.Errorf("next sequence = %d, want 7", next)
	}
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "cards.db")
	t.Setenv("WEEKCARDS_DB", p)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default db path: %v", err)
	}
	if got != p {
		t.Errorf("path = %q, want %q", got, p)
	}
	if _, err := os.Stat(filepath.Dir(p)); err != nil {
		t.Errorf("parent dir not created: %v", err)
	}
}

func TestDefaultDBPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WEEKCARDS_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default db path: %v", err)
	}
	want := filepath.Join(dir, "weekcards", "weekcards.db")
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}
