package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/weekcards/internal/progress"
)

var resetCmd = &cobra.Command{
	Use:   "reset <week>",
	Short: "Clear a student's progress and done flag for one card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		week, err := strconv.Atoi(args[0])
		if err != nil || week < 1 {
			return fmt.Errorf("invalid week %q", args[0])
		}

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

		r, ok := b.progress.(progress.Resetter)
		if !ok {
			return fmt.Errorf("the %s backend does not support reset", cfg.Backend)
		}
		if err := r.Reset(ctx, cfg.StudentID, week); err != nil {
			return fmt.Errorf("reset week %d: %w", week, err)
		}
		log.Info("progress reset", "student", cfg.StudentID, "week", week)
		fmt.Printf("Reset week %d for %s.\n", week, cfg.StudentID)
		return nil
	},
}
