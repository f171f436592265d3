package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/molt-lang/molt/pkg/molt"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Long: `repl reads script text a line at a time, evaluating it once the
accumulated text is a syntactically complete script (every brace, bracket,
and quote balanced) and printing the result. A handful of colon-prefixed
meta-commands are handled by the REPL itself rather than the interpreter:

  :vars       list variables in the current scope
  :commands   list registered command and procedure names
  :quit       exit the REPL`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(_ *cobra.Command, _ []string) error {
	in := molt.New(os.Stdout, true)
	scanner := bufio.NewScanner(os.Stdin)

	var buf strings.Builder
	prompt := func() {
		if buf.Len() == 0 {
			fmt.Fprint(os.Stderr, "molt> ")
		} else {
			fmt.Fprint(os.Stderr, "..... ")
		}
	}

	prompt()
	for scanner.Scan() {
		line := scanner.Text()

		if buf.Len() == 0 {
			if handled, err := runMeta(in, line); handled {
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
				prompt()
				continue
			}
		}

		buf.WriteString(line)
		buf.WriteByte('\n')

		if !in.Complete(buf.String()) {
			prompt()
			continue
		}

		source := buf.String()
		buf.Reset()

		res := in.Eval(source)
		if res.Exc != nil {
			fmt.Fprintln(os.Stderr, res.Exc.Error())
			if info := in.LastErrorInfo(); info != "" {
				fmt.Fprintln(os.Stderr, info)
			}
		} else if !res.Value.IsEmpty() {
			fmt.Fprintln(os.Stdout, res.Value.String())
		}
		prompt()
	}
	fmt.Fprintln(os.Stderr)
	return scanner.Err()
}

// runMeta recognizes a colon-prefixed REPL command on an otherwise-empty
// input buffer, splitting it with shell-style quoting so `:vars "a b"` works
// the way a user typing a quoted argument expects. It reports whether the
// line was a meta-command at all, separately from whether handling it failed.
func runMeta(in *molt.Interpreter, line string) (handled bool, err error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		return false, nil
	}
	fields, err := shlex.Split(trimmed[1:])
	if err != nil || len(fields) == 0 {
		return true, err
	}

	switch fields[0] {
	case "quit", "exit":
		fmt.Fprintln(os.Stderr, "\ngoodbye")
		os.Exit(0)
	case "vars":
		for _, name := range in.VarsInScope() {
			val, err := in.Var(name)
			if err != nil {
				continue
			}
			fmt.Fprintf(os.Stdout, "%s = %s\n", name, val.String())
		}
	case "commands":
		fmt.Fprintln(os.Stdout, "commands:", strings.Join(in.CommandNames(), " "))
		fmt.Fprintln(os.Stdout, "procs:", strings.Join(in.ProcNames(), " "))
	default:
		return true, fmt.Errorf("unknown meta-command %q", fields[0])
	}
	return true, nil
}
