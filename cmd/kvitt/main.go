package main

import (
	"fmt"
	"os"

	"github.com/nordkart/kvitt/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands render their own failure details; anything else is a
		// usage or flag error that never reached a formatter.
		if !cli.Reported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.ExitCodeFor(err))
	}
}
