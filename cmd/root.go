package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/weekcards/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "weekcards",
	Short: "Weekly lesson cards in the terminal",
	Long:  "weekcards plays weekly lesson cards: goals, concepts with checked questions, and a final assessment.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlayer(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides WEEKCARDS_DB)")
	rootCmd.PersistentFlags().String("cards", "", "Directory of card JSON files (overrides WEEKCARDS_CARDS_DIR)")
	rootCmd.PersistentFlags().String("student", "", "Student id progress is stored under (overrides WEEKCARDS_STUDENT)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(hintsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads .env and WEEKCARDS_* variables, then applies the
// persistent flags, which win.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if d, _ := cmd.Flags().GetString("cards"); d != "" {
		cfg.CardsDir = d
	}
	if s, _ := cmd.Flags().GetString("student"); s != "" {
		cfg.StudentID = s
	}
	return cfg, cfg.Validate()
}
