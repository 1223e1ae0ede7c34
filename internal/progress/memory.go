package progress

import (
	"context"
	"slices"
	"sync"
	"time"
)

type key struct {
	student string
	week    int
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	records map[key]Record
	done    map[key]bool
	now     func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[key]Record),
		done:    make(map[key]bool),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, studentID string, week int) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[key{studentID, week}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *MemoryStore) Set(_ context.Context, studentID string, week int, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = m.now()
	}
	m.records[key{studentID, week}] = rec
	return nil
}

func (m *MemoryStore) MarkDone(_ context.Context, studentID string, week int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.done[key{studentID, week}] = true
	return nil
}

func (m *MemoryStore) IsDone(_ context.Context, studentID string, week int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done[key{studentID, week}], nil
}

// Reset drops the record and done flag of one card.
func (m *MemoryStore) Reset(_ context.Context, studentID string, week int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key{studentID, week})
	delete(m.done, key{studentID, week})
	return nil
}

// List returns every card the student has a record or done flag for,
// ordered by week.
func (m *MemoryStore) List(_ context.Context, studentID string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	weeks := map[int]bool{}
	for k := range m.records {
		if k.student == studentID {
			weeks[k.week] = true
		}
	}
	for k := range m.done {
		if k.student == studentID {
			weeks[k.week] = true
		}
	}

	var out []Entry
	for w := range weeks {
		e := Entry{StudentID: studentID, Week: w, Done: m.done[key{studentID, w}]}
		if rec, ok := m.records[key{studentID, w}]; ok {
			e.Record = &rec
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int { return a.Week - b.Week })
	return out, nil
}
