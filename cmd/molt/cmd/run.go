package cmd

import (
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/molt-lang/molt/pkg/molt"
)

var (
	evalExpr     string
	dumpScopes   bool
	dumpRegistry bool
	recursionCap int
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a script file or inline expression",
	Long: `Execute a script from a file or inline text.

Examples:
  molt run script.molt
  molt run -e "puts {hello, world}"
  molt run --dump-registry script.molt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from a file")
	runCmd.Flags().BoolVar(&dumpScopes, "dump-scopes", false, "dump the variables bound in scope after running")
	runCmd.Flags().BoolVar(&dumpRegistry, "dump-registry", false, "dump registered command and procedure names after running")
	runCmd.Flags().IntVar(&recursionCap, "recursion-limit", 0, "override the interpreter's recursion limit (0 keeps the default)")
}

func runScript(_ *cobra.Command, args []string) error {
	var source, filename string
	switch {
	case evalExpr != "":
		source, filename = evalExpr, "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		source = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	in := molt.New(os.Stdout, true)
	if recursionCap > 0 {
		in.SetRecursionLimit(recursionCap)
	}

	res := in.Eval(source)
	if res.Exc != nil {
		fmt.Fprintf(os.Stderr, "error in %s: %s\n", filename, res.Exc.Error())
		if info := in.LastErrorInfo(); info != "" {
			fmt.Fprintln(os.Stderr, info)
		}
		return fmt.Errorf("script failed")
	}

	if dumpScopes {
		fmt.Fprintf(os.Stderr, "scope variables: %# v\n", pretty.Formatter(in.VarsInScope()))
	}
	if dumpRegistry {
		fmt.Fprintf(os.Stderr, "commands: %# v\n", pretty.Formatter(in.CommandNames()))
		fmt.Fprintf(os.Stderr, "procs: %# v\n", pretty.Formatter(in.ProcNames()))
	}
	return nil
}
