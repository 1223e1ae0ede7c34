package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/weekcards/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show a student's saved progress per card",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		lister, ok := b.progress.(progress.Lister)
		if !ok {
			return fmt.Errorf("the %s backend cannot list progress", cfg.Backend)
		}
		entries, err := lister.List(ctx, cfg.StudentID)
		if err != nil {
			return fmt.Errorf("list progress: %w", err)
		}
		if len(entries) == 0 {
			fmt.Printf("No progress saved for %s.\n", cfg.StudentID)
			return nil
		}

		fmt.Printf("Progress for %s\n", cfg.StudentID)
		fmt.Printf("%-5s  %-4s  %-11s  %-9s  %-12s  %-8s  %s\n",
			"Week", "Done", "Stage", "Position", "Assessment", "Attempts", "Updated")
		fmt.Println(strings.Repeat("─", 80))

		for _, e := range entries {
			done := ""
			if e.Done {
				done = "✓"
			}
			stage, pos, score, tries, updated := "-", "-", "-", "-", "-"
			if r := e.Record; r != nil {
				stage = string(r.Stage)
				if r.Stage == progress.StageConcept {
					pos = fmt.Sprintf("%d.%d", r.ConceptIndex+1, r.ItemIndex+1)
				}
				if r.Assessment.Attempts > 0 && r.Assessment.Total > 0 {
					score = fmt.Sprintf("%g/%g", r.Assessment.Score, r.Assessment.Total)
				}
				tries = fmt.Sprintf("%d", r.Assessment.Attempts)
				if !r.UpdatedAt.IsZero() {
					updated = r.UpdatedAt.Local().Format("2006-01-02 15:04")
				}
			}
			fmt.Printf("%-5d  %-4s  %-11s  %-9s  %-12s  %-8s  %s\n",
				e.Week, done, stage, pos, score, tries, updated)

			if b.events != nil {
				st, err := b.events.Stats(ctx, cfg.StudentID, e.Week)
				if err != nil {
					log.Warn("attempt stats", "week", e.Week, "error", err)
					continue
				}
				if st.Attempts > 0 || st.Hints > 0 {
					fmt.Printf("       %d attempts, %d correct, %d hints\n", st.Attempts, st.Correct, st.Hints)
				}
			}
		}
		return nil
	},
}
