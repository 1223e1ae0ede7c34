package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/weekcards/internal/progress"
)

var progressColumns = []string{
	"stage",
	"concept_index",
	"item_index",
	"assessment_attempts",
	"assessment_completed",
	"assessment_score",
	"assessment_total",
	"updated_at",
}

// ProgressRepo is the SQLite-backed progress.Store. One row per student
// and card; the done column is never cleared by Set.
type ProgressRepo struct {
	db  *sql.DB
	now func() time.Time
}

var (
	_ progress.Store    = (*ProgressRepo)(nil)
	_ progress.Resetter = (*ProgressRepo)(nil)
	_ progress.Lister   = (*ProgressRepo)(nil)
)

func (r *ProgressRepo) clock() time.Time {
	if r.now != nil {
		return r.now().UTC()
	}
	return time.Now().UTC()
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func keyPredicate(studentID string, week int) *entsql.Predicate {
	return entsql.And(
		entsql.EQ("student_id", studentID),
		entsql.EQ("week", week),
	)
}

func (r *ProgressRepo) Get(ctx context.Context, studentID string, week int) (*progress.Record, error) {
	cols := append([]string{}, progressColumns...)
	query, args := builder().
		Select(cols...).
		From(entsql.Table(progressTable)).
		Where(keyPredicate(studentID, week)).
		Query()

	var (
		stage sql.NullString
		rec   progress.Record
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&stage,
		&rec.ConceptIndex,
		&rec.ItemIndex,
		&rec.Assessment.Attempts,
		&rec.Assessment.Completed,
		&rec.Assessment.Score,
		&rec.Assessment.Total,
		&rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	// A row created by MarkDone alone carries no position.
	if !stage.Valid {
		return nil, nil
	}
	rec.Stage = progress.Stage(stage.String)
	return &rec, nil
}

func (r *ProgressRepo) Set(ctx context.Context, studentID string, week int, rec progress.Record) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = r.clock()
	}
	query, args := builder().
		Insert(progressTable).
		Columns(append([]string{"student_id", "week"}, progressColumns...)...).
		Values(
			studentID,
			week,
			string(rec.Stage),
			rec.ConceptIndex,
			rec.ItemIndex,
			rec.Assessment.Attempts,
			rec.Assessment.Completed,
			rec.Assessment.Score,
			rec.Assessment.Total,
			rec.UpdatedAt,
		).
		OnConflict(
			entsql.ConflictColumns("student_id", "week"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				for _, c := range progressColumns {
					u.SetExcluded(c)
				}
			}),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set progress: %w", err)
	}
	return nil
}

func (r *ProgressRepo) MarkDone(ctx context.Context, studentID string, week int) error {
	query, args := builder().
		Insert(progressTable).
		Columns("student_id", "week", "done", "updated_at").
		Values(studentID, week, true, r.clock()).
		OnConflict(
			entsql.ConflictColumns("student_id", "week"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.Set("done", true)
			}),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark done: %w", err)
	}
	return nil
}

func (r *ProgressRepo) IsDone(ctx context.Context, studentID string, week int) (bool, error) {
	query, args := builder().
		Select("done").
		From(entsql.Table(progressTable)).
		Where(keyPredicate(studentID, week)).
		Query()

	var done bool
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&done)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("is done: %w", err)
	}
	return done, nil
}

// Reset deletes the row of one card, clearing both position and done flag.
func (r *ProgressRepo) Reset(ctx context.Context, studentID string, week int) error {
	query, args := builder().
		Delete(progressTable).
		Where(keyPredicate(studentID, week)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}

// List returns every card row of a student ordered by week.
func (r *ProgressRepo) List(ctx context.Context, studentID string) ([]progress.Entry, error) {
	cols := append([]string{"week", "done"}, progressColumns...)
	query, args := builder().
		Select(cols...).
		From(entsql.Table(progressTable)).
		Where(entsql.EQ("student_id", studentID)).
		OrderBy("week").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []progress.Entry
	for rows.Next() {
		var (
			e     = progress.Entry{StudentID: studentID}
			stage sql.NullString
			rec   progress.Record
		)
		if err := rows.Scan(
			&e.Week,
			&e.Done,
			&stage,
			&rec.ConceptIndex,
			&rec.ItemIndex,
			&rec.Assessment.Attempts,
			&rec.Assessment.Completed,
			&rec.Assessment.Score,
			&rec.Assessment.Total,
			&rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		if stage.Valid {
			rec.Stage = progress.Stage(stage.String)
			e.Record = &rec
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return out, nil
}
