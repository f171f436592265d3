// Command molt is a CLI driver around the embeddable script engine
// (SPEC_FULL.md §6 "CLI surface"): it runs scripts, evaluates inline code,
// offers an interactive REPL, and checks scripts for syntax errors without
// executing them.
package main

import (
	"fmt"
	"os"

	"github.com/molt-lang/molt/cmd/molt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
