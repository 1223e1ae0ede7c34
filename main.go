package main

import (
	"os"

	"github.com/abhisek/weekcards/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
