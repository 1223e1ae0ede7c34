package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceTable holds one row whose counter numbers every appended event.
// Each event kind has its own table, so row ids alone cannot tell whether a
// hint came before or after an attempt; the shared sequence can.
const sequenceTable = "global_sequence"

type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates and seeds the counter row. The single-row
// CHECK constraint is not expressible in ent field descriptors, so this
// table is created outside the migration.
func newSequenceCounter(ctx context.Context, db *sql.DB) (*sequenceCounter, error) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + sequenceTable + ` (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			next_val INTEGER NOT NULL
		)`,
		`INSERT INTO ` + sequenceTable + ` (id, next_val) VALUES (1, 1) ON CONFLICT (id) DO NOTHING`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("prepare sequence: %w", err)
		}
	}
	return &sequenceCounter{db: db}, nil
}

// Next reserves the next sequence number. The UPDATE ... RETURNING is one
// statement, and the mutex keeps reservations of this process in order.
func (c *sequenceCounter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	query, args := builder().
		Update(sequenceTable).
		Add("next_val", 1).
		Where(entsql.EQ("id", 1)).
		Returning("next_val").
		Query()

	var next int64
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return next - 1, nil
}
