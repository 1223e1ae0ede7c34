package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/weekcards/internal/authoring"
	"github.com/abhisek/weekcards/internal/llm"
)

var hintsCmd = &cobra.Command{
	Use:   "hints <card.json>",
	Short: "Generate missing question hints with an LLM",
	Long: "Asks the configured LLM for hints on every question that has fewer than\n" +
		"--min authored hints and writes the result to a copy of the card.\n" +
		"The original file is never modified.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		src := args[0]
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = strings.TrimSuffix(src, filepath.Ext(src)) + ".hints.json"
		}
		minHints, _ := cmd.Flags().GetInt("min")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		doc, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("read card: %w", err)
		}

		var events llm.EventRecorder
		if st, err := openSQLite(ctx, cfg); err != nil {
			fmt.Fprintln(os.Stderr, "LLM events will not be recorded:", err)
		} else {
			defer st.Close()
			events = st.EventRepo()
		}

		provider, err := llm.NewProvider(ctx, llmConfig(), events, log)
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		acfg := authoring.DefaultConfig()
		if minHints > 0 {
			acfg.MinHints = minHints
		}
		updated, results, err := authoring.NewService(provider, acfg, log).Fill(ctx, doc)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("Every question already has enough hints.")
			return nil
		}
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				if reason := llm.Reason(r.Err); reason != "" {
					fmt.Printf("✗ %s: %s\n", r.Target.Path, reason)
				} else {
					fmt.Printf("✗ %s: %v\n", r.Target.Path, r.Err)
				}
				continue
			}
			fmt.Printf("✓ %s: +%d hint(s)\n", r.Target.Path, len(r.Added))
			for _, h := range r.Added {
				fmt.Printf("    %s\n", h)
			}
		}

		if err := os.WriteFile(out, updated, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Printf("\nWrote %s (%d of %d questions updated)\n", out, len(results)-failed, len(results))
		return nil
	},
}

// llmConfig uses WEEKCARDS_LLM_PROVIDER when set and otherwise the first
// vendor API key found in the environment.
func llmConfig() llm.Config {
	if os.Getenv("WEEKCARDS_LLM_PROVIDER") == "" {
		if cfg, ok := llm.DiscoverConfig(); ok {
			return cfg
		}
	}
	return llm.ConfigFromEnv()
}

func init() {
	hintsCmd.Flags().StringP("out", "o", "", "Output file (default <card>.hints.json)")
	hintsCmd.Flags().Int("min", 0, "Minimum hints per question (default 2)")
}
