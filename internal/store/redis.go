package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/abhisek/weekcards/internal/progress"
)

// RedisProgress is a progress.Store shared between devices. Each student
// has a hash <prefix>:progress:<student> mapping week to a JSON record, and
// a set <prefix>:done:<student> of finished weeks.
type RedisProgress struct {
	rdb    *goredis.Client
	prefix string
	now    func() time.Time
}

var (
	_ progress.Store    = (*RedisProgress)(nil)
	_ progress.Resetter = (*RedisProgress)(nil)
	_ progress.Lister   = (*RedisProgress)(nil)
)

// OpenRedis connects to addr and verifies the connection with a ping.
func OpenRedis(ctx context.Context, addr, prefix string) (*RedisProgress, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if prefix == "" {
		prefix = "weekcards"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisProgress{rdb: rdb, prefix: prefix, now: time.Now}, nil
}

// Close closes the client.
func (r *RedisProgress) Close() error {
	return r.rdb.Close()
}

func (r *RedisProgress) recordKey(studentID string) string {
	return fmt.Sprintf("%s:progress:%s", r.prefix, studentID)
}

func (r *RedisProgress) doneKey(studentID string) string {
	return fmt.Sprintf("%s:done:%s", r.prefix, studentID)
}

func (r *RedisProgress) Get(ctx context.Context, studentID string, week int) (*progress.Record, error) {
	raw, err := r.rdb.HGet(ctx, r.recordKey(studentID), strconv.Itoa(week)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return decodeRecord(raw)
}

func decodeRecord(raw []byte) (*progress.Record, error) {
	var rec progress.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}
	return &rec, nil
}

func (r *RedisProgress) Set(ctx context.Context, studentID string, week int, rec progress.Record) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = r.now().UTC()
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := r.rdb.HSet(ctx, r.recordKey(studentID), strconv.Itoa(week), raw).Err(); err != nil {
		return fmt.Errorf("set progress: %w", err)
	}
	return nil
}

func (r *RedisProgress) MarkDone(ctx context.Context, studentID string, week int) error {
	if err := r.rdb.SAdd(ctx, r.doneKey(studentID), week).Err(); err != nil {
		return fmt.Errorf("mark done: %w", err)
	}
	return nil
}

func (r *RedisProgress) IsDone(ctx context.Context, studentID string, week int) (bool, error) {
	ok, err := r.rdb.SIsMember(ctx, r.doneKey(studentID), week).Result()
	if err != nil {
		return false, fmt.Errorf("is done: %w", err)
	}
	return ok, nil
}

func (r *RedisProgress) Reset(ctx context.Context, studentID string, week int) error {
	_, err := r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.HDel(ctx, r.recordKey(studentID), strconv.Itoa(week))
		p.SRem(ctx, r.doneKey(studentID), week)
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}

func (r *RedisProgress) List(ctx context.Context, studentID string) ([]progress.Entry, error) {
	byWeek := map[int]*progress.Entry{}
	entry := func(w int) *progress.Entry {
		e, ok := byWeek[w]
		if !ok {
			e = &progress.Entry{StudentID: studentID, Week: w}
			byWeek[w] = e
		}
		return e
	}

	done, err := r.rdb.SMembers(ctx, r.doneKey(studentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list done: %w", err)
	}
	for _, d := range done {
		if w, err := strconv.Atoi(d); err == nil {
			entry(w).Done = true
		}
	}

	records, err := r.rdb.HGetAll(ctx, r.recordKey(studentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	for field, raw := range records {
		w, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		rec, err := decodeRecord([]byte(raw))
		if err != nil {
			return nil, err
		}
		entry(w).Record = rec
	}

	out := make([]progress.Entry, 0, len(byWeek))
	for _, e := range byWeek {
		out = append(out, *e)
	}
	slices.SortFunc(out, func(a, b progress.Entry) int { return a.Week - b.Week })
	return out, nil
}
