package main

import (
	"os"

	"github.com/invoicer-dev/invoicer/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
