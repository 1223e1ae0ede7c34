package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/weekcards/internal/card"
	"github.com/abhisek/weekcards/internal/screen"
	"github.com/abhisek/weekcards/internal/screens/lesson"
)

var playCmd = &cobra.Command{
	Use:   "play <card.json|url>",
	Short: "Play a single card from a file or URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, func(deps lesson.Deps, _ string) (screen.Screen, error) {
			c, err := card.Load(cmd.Context(), args[0])
			if err != nil {
				return nil, err
			}
			return lesson.New(c, deps), nil
		})
	},
}
