// Package interp implements the engine's core: the scope stack, the command
// registry and dispatch mechanism, the interpret-as-you-go script
// parser/evaluator, the exception protocol, and the built-in command set.
// See spec.md §§2-4 and SPEC_FULL.md §4.9-§4.10 for the ambient/domain stack
// this package wires in.
package interp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/molt-lang/molt/internal/value"
)

// defaultRecursionLimit matches spec.md §5: "the recursion-depth counter
// (default limit 1000)".
const defaultRecursionLimit = 1000

// Interpreter holds all engine state (spec.md §3 "Interpreter state"): the
// scope stack, the command registry, the recursion counter/limit, and the
// last error-info/error-code pair.
type Interpreter struct {
	scopes *scopes
	reg    *registry

	output io.Writer

	recursionDepth int
	recursionLimit int

	lastErrorInfo string
	lastErrorCode value.Value

	callStack []string // procedure names, outermost first (for errorInfo)
}

// New creates a fresh Interpreter. When full is true, the complete built-in
// command set (spec.md §1 "Explicitly in scope") is registered; otherwise
// the interpreter starts with an empty command table, matching the public
// `create(full?)` contract of spec.md §6.
func New(output io.Writer, full bool) *Interpreter {
	if output == nil {
		output = os.Stdout
	}
	in := &Interpreter{
		scopes:         newScopes(),
		reg:            newRegistry(),
		output:         output,
		recursionLimit: defaultRecursionLimit,
		lastErrorCode:  value.FromString("NONE"),
	}
	in.initEnvArray()
	if full {
		in.registerBuiltins()
	}
	return in
}

// SetOutput redirects the `puts` sink.
func (in *Interpreter) SetOutput(w io.Writer) {
	in.output = w
}

// SetRecursionLimit configures the maximum nested eval depth (spec.md §6).
func (in *Interpreter) SetRecursionLimit(n int) {
	in.recursionLimit = n
}

// RecursionLimit reports the configured recursion limit.
func (in *Interpreter) RecursionLimit() int {
	return in.recursionLimit
}

// AddCommand registers a native command (spec.md §6 "add_command").
func (in *Interpreter) AddCommand(name string, fn NativeFunc) {
	in.reg.addCommand(name, fn)
}

// AddContextCommand registers a native command bound to a context id
// (spec.md §6 "add_context_command").
func (in *Interpreter) AddContextCommand(name string, fn NativeFunc, ctxID int) {
	in.reg.addContextCommand(name, fn, ctxID)
}

// SaveContext stores opaque per-command data and returns its id (spec.md §6
// "save_context").
func (in *Interpreter) SaveContext(v any) int {
	return in.reg.saveContext(v)
}

// Context retrieves the opaque value stored under id (spec.md §6 "context").
func (in *Interpreter) Context(id int) (any, bool) {
	return in.reg.context(id)
}

// SetContext overwrites the opaque value stored under id.
func (in *Interpreter) SetContext(id int, v any) {
	in.reg.setContext(id, v)
}

// AddProc defines a user procedure (spec.md §6 "add_proc").
func (in *Interpreter) AddProc(name string, args []ArgSpec, variadic bool, body value.Value) {
	in.reg.addProc(name, args, variadic, body)
}

// Rename renames or removes a command (spec.md §6 "rename").
func (in *Interpreter) Rename(oldName, newName string) error {
	return in.reg.rename(oldName, newName)
}

// CommandNames lists every registered command (spec.md §6).
func (in *Interpreter) CommandNames() []string {
	return in.reg.commandNames()
}

// ProcNames lists every registered user procedure (spec.md §6).
func (in *Interpreter) ProcNames() []string {
	return in.reg.procNames()
}

// Var reads a variable in the current scope (spec.md §6 "var").
func (in *Interpreter) Var(name string) (value.Value, error) {
	return in.scopes.readScalar(name)
}

// SetVar sets a variable in the current scope (spec.md §6 "set_var").
func (in *Interpreter) SetVar(name string, v value.Value) error {
	return in.scopes.setScalar(name, v)
}

// UnsetVar removes a variable from the current scope (spec.md §6
// "unset_var").
func (in *Interpreter) UnsetVar(name string) {
	in.scopes.unset(name)
}

// VarsInScope lists the variable names bound in the current scope (spec.md
// §6 "vars_in_scope").
func (in *Interpreter) VarsInScope() []string {
	return in.scopes.names()
}

// LastErrorInfo returns the accumulated error-info text from the most recent
// error (spec.md §7). No `errorInfo` script variable is set; scripts see this
// text only through `catch`'s options dictionary.
func (in *Interpreter) LastErrorInfo() string {
	return in.lastErrorInfo
}

// LastErrorCode returns the error-code Value from the most recent error
// (spec.md §7). No `errorCode` script variable is set; scripts see this value
// only through `catch`'s options dictionary.
func (in *Interpreter) LastErrorCode() value.Value {
	return in.lastErrorCode
}

// initEnvArray mirrors process environment variables read-only into the
// `env` array at startup (spec.md §4.4 "Arrays", §6 "Environment"). Writes
// made from script code are local to the running process's interpreter
// instance only (never written back to the OS environment).
func (in *Interpreter) initEnvArray() {
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		_ = in.scopes.setElement("env", parts[0], value.FromString(parts[1]))
	}
}

// Complete reports whether s parses as a syntactically complete script: no
// unbalanced braces, brackets, or quotes (spec.md §6 "complete"). It is a
// parse-only check; it performs no substitution or execution.
func (in *Interpreter) Complete(s string) bool {
	return scriptIsComplete(s)
}

// errorInfoCommandBound bounds a command's source text to a reasonable
// length for error-info frames (spec.md §4.7: "elided if longer than a
// bounded number of characters").
const errorInfoCommandBound = 150

func elideCommandText(s string) string {
	if len(s) <= errorInfoCommandBound {
		return s
	}
	return s[:errorInfoCommandBound] + "..."
}

// appendErrorInfoFrame appends one error-info frame to exc as it propagates
// past a dispatch boundary (spec.md §4.1 "Execution contract", §4.7). The
// innermost command where the error actually originated renders "while
// executing"; every enclosing command the error merely passes back through
// renders "invoked from within" — distinguished here by whether a frame has
// been recorded yet, since exactly one "while executing" line ever appears
// per error.
func appendErrorInfoFrame(exc *Exception, cmdText string) {
	if exc.Code != CodeError {
		return
	}
	verb := "while executing"
	if exc.ErrorInfo != "" {
		verb = "invoked from within"
	}
	frame := fmt.Sprintf("\n    %s\n\"%s\"", verb, elideCommandText(cmdText))
	exc.ErrorInfo += frame
}
