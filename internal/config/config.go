// Package config resolves the player and CLI settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Backend selects where progress records live.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// Config holds runtime settings.
type Config struct {
	DBPath      string
	CardsDir    string
	StudentID   string
	Backend     Backend
	RedisAddr   string
	RedisPrefix string
	LogMode     string // prod|dev
	LogFile     string
}

// DefaultConfig returns the settings used when nothing is configured.
// DBPath and LogFile stay empty and are resolved under the data dir.
func DefaultConfig() Config {
	return Config{
		CardsDir:    "cards",
		StudentID:   defaultStudent(),
		Backend:     BackendSQLite,
		RedisAddr:   "localhost:6379",
		RedisPrefix: "weekcards",
		LogMode:     "prod",
	}
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv overlays WEEKCARDS_* variables on DefaultConfig.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.DBPath = envOr("WEEKCARDS_DB", cfg.DBPath)
	cfg.CardsDir = envOr("WEEKCARDS_CARDS_DIR", cfg.CardsDir)
	cfg.StudentID = envOr("WEEKCARDS_STUDENT", cfg.StudentID)
	cfg.Backend = Backend(strings.ToLower(envOr("WEEKCARDS_PROGRESS_BACKEND", string(cfg.Backend))))
	cfg.RedisAddr = envOr("WEEKCARDS_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPrefix = envOr("WEEKCARDS_REDIS_PREFIX", cfg.RedisPrefix)
	cfg.LogMode = envOr("WEEKCARDS_LOG_MODE", cfg.LogMode)
	cfg.LogFile = envOr("WEEKCARDS_LOG_FILE", cfg.LogFile)
	return cfg, cfg.Validate()
}

// Validate checks the fields that have a closed set of values.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown progress backend %q (want sqlite, redis or memory)", c.Backend)
	}
	switch c.LogMode {
	case "prod", "dev":
	default:
		return fmt.Errorf("unknown log mode %q (want prod or dev)", c.LogMode)
	}
	if strings.TrimSpace(c.StudentID) == "" {
		return errors.New("student id is empty")
	}
	return nil
}

// DataDir is $XDG_DATA_HOME/weekcards or ~/.local/share/weekcards.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "weekcards"), nil
}

// LogPath returns LogFile, or weekcards.log under the data dir.
func (c Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "weekcards.log"), nil
}

func defaultStudent() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "student"
}

func envOr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
