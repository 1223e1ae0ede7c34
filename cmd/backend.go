package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/weekcards/internal/config"
	"github.com/abhisek/weekcards/internal/logger"
	"github.com/abhisek/weekcards/internal/progress"
	"github.com/abhisek/weekcards/internal/store"
)

// backend is the progress store selected by the config plus the SQLite
// event log. events is nil for the memory backend.
type backend struct {
	progress progress.Store
	events   *store.EventRepo
	closers  []func() error
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i]()
	}
}

// openBackend opens the configured progress backend. SQLite also holds the
// analytics and LLM events when progress lives in Redis.
func openBackend(ctx context.Context, cfg config.Config, log *logger.Logger) (*backend, error) {
	b := &backend{}
	if cfg.Backend == config.BackendMemory {
		log.Info("using in-memory progress; nothing is saved")
		b.progress = progress.NewMemoryStore()
		return b, nil
	}

	st, err := openSQLite(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b.closers = append(b.closers, st.Close)
	b.events = st.EventRepo()
	b.progress = st.ProgressRepo()

	if cfg.Backend == config.BackendRedis {
		rp, err := store.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("open redis progress: %w", err)
		}
		b.closers = append(b.closers, rp.Close)
		b.progress = rp
	}
	log.Info("progress backend ready", "backend", string(cfg.Backend))
	return b, nil
}

func openSQLite(ctx context.Context, cfg config.Config) (*store.Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		dbPath = p
	} else if err := store.EnsureDir(dbPath); err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.OpenContext(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// newLogger writes to the configured log file so the terminal stays free
// for the player.
func newLogger(cfg config.Config) (*logger.Logger, error) {
	path, err := cfg.LogPath()
	if err != nil {
		return nil, fmt.Errorf("resolve log path: %w", err)
	}
	log, err := logger.New(cfg.LogMode, path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return log, nil
}
