package main

import (
	"os"

	"signet/cmd/signet/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
