package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/abhisek/weekcards/internal/card"
)

var checkCmd = &cobra.Command{
	Use:   "check [card.json|dir ...]",
	Short: "Lint cards: schema, schema version and question authoring problems",
	Long: "Validates each card against the card schema and lists authoring problems\n" +
		"such as unknown question types, missing choices or answers that cannot be\n" +
		"resolved. Directories are also checked as a catalog (unique weeks, prereqs).\n" +
		"Defaults to the configured cards directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			args = []string{cfg.CardsDir}
		}

		bad := 0
		for _, arg := range args {
			info, err := os.Stat(arg)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				if !checkFile(arg) {
					bad++
				}
				continue
			}

			paths, err := filepath.Glob(filepath.Join(arg, "*.json"))
			if err != nil {
				return fmt.Errorf("list cards: %w", err)
			}
			slices.Sort(paths)
			for _, p := range paths {
				if !checkFile(p) {
					bad++
				}
			}
			if _, err := card.LoadDir(cmd.Context(), arg); err != nil && !errors.Is(err, card.ErrInvalidCard) {
				fmt.Printf("%s: %v\n", arg, err)
				bad++
			}
		}

		if bad > 0 {
			return fmt.Errorf("%d problem(s) found", bad)
		}
		fmt.Println("All cards look good.")
		return nil
	},
}

// checkFile prints the result for one card and reports whether it is clean.
func checkFile(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("✗ %s: %v\n", path, err)
		return false
	}
	c, err := card.Parse(data)
	if err != nil {
		fmt.Printf("✗ %s: %v\n", path, err)
		return false
	}

	t := card.NewFlowTable(c)
	problems := t.Problems()
	if len(problems) == 0 {
		fmt.Printf("✓ %s (week %d, %d concepts, %d assessment questions)\n",
			path, c.Week, t.ConceptCount(), len(t.AssessmentIDs()))
		return true
	}

	fmt.Printf("✗ %s (week %d)\n", path, c.Week)
	for _, p := range problems {
		fmt.Printf("    %s: %s\n", describeEntry(t, p.ID), p.Message)
	}
	return false
}

func describeEntry(t *card.FlowTable, id card.ItemID) string {
	e, ok := t.Entry(id)
	if !ok {
		return fmt.Sprintf("item %d", id)
	}
	if e.Item.Path != "" {
		return e.Item.Path
	}
	if e.Position.Concept < 0 {
		return fmt.Sprintf("assessment question %d", e.Position.AssessmentIndex+1)
	}
	return fmt.Sprintf("concept %d item %d", e.Position.Concept+1, e.Position.Index+1)
}
