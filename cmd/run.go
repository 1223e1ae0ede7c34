package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/weekcards/internal/app"
	"github.com/abhisek/weekcards/internal/card"
	"github.com/abhisek/weekcards/internal/screen"
	"github.com/abhisek/weekcards/internal/screens/lesson"
	"github.com/abhisek/weekcards/internal/screens/picker"
)

// runPlayer opens the card picker over the configured cards directory.
func runPlayer(cmd *cobra.Command) error {
	return runApp(cmd, func(deps lesson.Deps, cardsDir string) (screen.Screen, error) {
		cat, err := card.LoadDir(cmd.Context(), cardsDir)
		if err != nil {
			return nil, fmt.Errorf("load cards: %w", err)
		}
		if len(cat.Weeks()) == 0 {
			return nil, fmt.Errorf("no cards found in %s", cardsDir)
		}
		return picker.New(cat, deps), nil
	})
}

// runApp resolves config, opens the backend and launches the TUI on the
// screen built by initial.
func runApp(cmd *cobra.Command, initial func(deps lesson.Deps, cardsDir string) (screen.Screen, error)) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	deps := lesson.Deps{
		StudentID: cfg.StudentID,
		Store:     b.progress,
		Logger:    log,
	}
	if b.events != nil {
		deps.Events = b.events
	}

	root, err := initial(deps, cfg.CardsDir)
	if err != nil {
		return err
	}
	log.Info("starting player", "student", cfg.StudentID)
	return app.Run(root, cfg.StudentID)
}
