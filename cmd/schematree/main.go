package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/reoring/schematree/internal/commands"
)

func main() {
	if err := commands.RootCmd().Execute(); err != nil {
		if !errors.Is(err, commands.ErrReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
