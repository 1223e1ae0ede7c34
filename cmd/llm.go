package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/weekcards/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		week, _ := cmd.Flags().GetInt("week")

		events, err := queryLLMEvents(cmd, purpose, store.QueryOpts{Limit: limit, Week: week})
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No LLM events found.")
			return nil
		}

		// Header.
		fmt.Printf("%-5s  %-19s  %-14s  %-4s  %-24s  %-24s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Week", "Question", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 128))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗ " + truncate(e.ErrorMessage, 40)
			}
			fmt.Printf("%-5d  %-19s  %-14s  %-4d  %-24s  %-24s  %-6d  %-6d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Purpose, 14),
				e.Week,
				truncate(e.QuestionPath, 24),
				truncate(e.Model, 24),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

// usage aggregates LLM events for one model.
type usage struct {
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		purpose, _ := cmd.Flags().GetString("purpose")
		events, err := queryLLMEvents(cmd, purpose, store.QueryOpts{})
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		byModel := make(map[string]*usage)
		for _, e := range events {
			u, ok := byModel[e.Model]
			if !ok {
				u = &usage{Model: e.Model}
				byModel[e.Model] = u
			}
			u.Calls++
			if !e.Success {
				u.Failures++
			}
			u.InputTokens += e.InputTokens
			u.OutputTokens += e.OutputTokens
			u.LatencyMs += e.LatencyMs
		}
		models := make([]string, 0, len(byModel))
		for m := range byModel {
			models = append(models, m)
		}
		slices.Sort(models)

		fmt.Println("Usage by Model")
		fmt.Println(strings.Repeat("─", 84))
		fmt.Printf("%-28s  %6s  %6s  %10s  %10s  %10s  %8s\n",
			"Model", "Calls", "Failed", "Input", "Output", "Total", "Avg Ms")
		fmt.Println(strings.Repeat("─", 84))

		var total usage
		for _, m := range models {
			u := byModel[m]
			fmt.Printf("%-28s  %6d  %6d  %10d  %10d  %10d  %8d\n",
				truncate(u.Model, 28), u.Calls, u.Failures, u.InputTokens, u.OutputTokens,
				u.InputTokens+u.OutputTokens, u.LatencyMs/int64(u.Calls))
			total.Calls += u.Calls
			total.Failures += u.Failures
			total.InputTokens += u.InputTokens
			total.OutputTokens += u.OutputTokens
		}

		fmt.Println(strings.Repeat("─", 84))
		fmt.Printf("%-28s  %6d  %6d  %10d  %10d  %10d\n",
			"TOTAL", total.Calls, total.Failures, total.InputTokens, total.OutputTokens,
			total.InputTokens+total.OutputTokens)
		return nil
	},
}

func queryLLMEvents(cmd *cobra.Command, purpose string, opts store.QueryOpts) ([]store.LLMEventRecord, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	s, err := openSQLite(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	events, err := s.EventRepo().QueryLLMEvents(ctx, purpose, opts)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return events, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. hint-authoring)")
	llmListCmd.Flags().IntP("week", "w", 0, "Filter by card week")
	llmStatsCmd.Flags().StringP("purpose", "p", "", "Filter by purpose")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
