package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/molt-lang/molt/pkg/molt"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Check a script for balanced braces/brackets/quotes without running it",
	Long: `check reports whether a script is syntactically complete: every brace,
bracket, and quote balanced. Because this engine parses a script as it
executes it rather than building an intermediate AST, a deeper static check
(unknown commands, wrong argument counts) is only available by running the
script; check catches the class of error a REPL needs to decide whether to
keep reading more input.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	in := molt.New(os.Stdout, false)
	if !in.Complete(string(content)) {
		return fmt.Errorf("%s: incomplete script (unbalanced brace, bracket, or quote)", args[0])
	}
	fmt.Printf("%s: ok\n", args[0])
	return nil
}
