// Command egg is the operator tool for the discovery engine: replay
// and follow capture files, inspect the progress ledger, lint pattern
// manifests, and generate synthetic captures.
package main

import (
	"fmt"
	"os"

	"easteregg/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
