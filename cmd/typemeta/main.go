package main

import (
	"os"

	"github.com/Konsultn-Engineering/typemeta/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
