package main

import (
	"os"

	"github.com/clear-ness/view-counter/cmd/view-counter/commands"
)

func main() {
	if err := commands.Run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
