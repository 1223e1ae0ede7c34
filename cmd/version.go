package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/abhisek/weekcards/internal/card"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the supported card schema",
	Run: func(cmd *cobra.Command, args []string) {
		v := version
		if info, ok := debug.ReadBuildInfo(); ok && v == "(devel)" && info.Main.Version != "" {
			v = info.Main.Version
		}
		fmt.Printf("weekcards %s (card schema %s.x)\n", v, card.SupportedMajor)
	},
}
