package main

import (
	"os"

	"github.com/verisage-dev/verisage/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
