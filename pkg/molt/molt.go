// Package molt is the public embedding facade for the interpreter (spec.md
// §6 "External interfaces"). Host Go programs import this package, never
// internal/interp directly, to create an interpreter, register native
// commands, and evaluate scripts.
package molt

import (
	"io"

	"github.com/molt-lang/molt/internal/interp"
	"github.com/molt-lang/molt/internal/value"
)

// Value is the engine's universal data container (spec.md §3). It is
// re-exported so embedders never need to import internal/value directly.
type Value = value.Value

// FromString, FromInt, FromFloat, FromBool, and FromList construct Values.
var (
	FromString = value.FromString
	FromInt    = value.FromInt
	FromFloat  = value.FromFloat
	FromBool   = value.FromBool
	FromList   = value.FromList
)

// ArgSpec describes one formal parameter of a user procedure.
type ArgSpec = interp.ArgSpec

// Result is the outcome of evaluating a script or expression: either Ok, or
// a non-local Exception.
type Result = interp.Result

// Interpreter embeds a running script engine (spec.md §6 "create").
type Interpreter struct {
	in *interp.Interpreter
}

// NativeFunc is a Go-implemented command handler, given the facade
// Interpreter it was registered on (so a handler can call back into Var,
// Context, Eval, and the rest of this package's surface) rather than the
// internal engine type directly.
type NativeFunc func(m *Interpreter, ctxID int, args []Value) Result

// New creates an interpreter. When full is true, the complete built-in
// command set is registered; when false, the caller starts from an empty
// command table and adds only what it needs via AddCommand (spec.md §6
// "create(full?)").
func New(output io.Writer, full bool) *Interpreter {
	return &Interpreter{in: interp.New(output, full)}
}

// SetOutput redirects where `puts` writes.
func (m *Interpreter) SetOutput(w io.Writer) { m.in.SetOutput(w) }

// AddCommand registers a native command (spec.md §6 "add_command").
func (m *Interpreter) AddCommand(name string, fn NativeFunc) {
	m.in.AddCommand(name, m.wrap(fn))
}

// AddContextCommand registers a native command bound to a context id
// (spec.md §6 "add_context_command").
func (m *Interpreter) AddContextCommand(name string, fn NativeFunc, ctxID int) {
	m.in.AddContextCommand(name, m.wrap(fn), ctxID)
}

// wrap adapts a facade NativeFunc to the internal engine's native-command
// signature, so AddCommand/AddContextCommand callers never name
// internal/interp.Interpreter themselves.
func (m *Interpreter) wrap(fn NativeFunc) interp.NativeFunc {
	return func(_ *interp.Interpreter, ctxID int, args []value.Value) Result {
		return fn(m, ctxID, args)
	}
}

// SaveContext stores opaque per-command data and returns its id (spec.md §6
// "save_context").
func (m *Interpreter) SaveContext(v any) int { return m.in.SaveContext(v) }

// Context retrieves the opaque value stored under id (spec.md §6 "context").
func (m *Interpreter) Context(id int) (any, bool) { return m.in.Context(id) }

// SetContext overwrites the opaque value stored under id.
func (m *Interpreter) SetContext(id int, v any) { m.in.SetContext(id, v) }

// AddProc defines a user procedure (spec.md §6 "add_proc").
func (m *Interpreter) AddProc(name string, args []ArgSpec, variadic bool, body Value) {
	m.in.AddProc(name, args, variadic, body)
}

// Rename renames or removes a command (spec.md §6 "rename").
func (m *Interpreter) Rename(oldName, newName string) error { return m.in.Rename(oldName, newName) }

// CommandNames lists every registered command name.
func (m *Interpreter) CommandNames() []string { return m.in.CommandNames() }

// ProcNames lists every registered user procedure name.
func (m *Interpreter) ProcNames() []string { return m.in.ProcNames() }

// Var reads a variable in the current (global, at top level) scope (spec.md
// §6 "var").
func (m *Interpreter) Var(name string) (Value, error) { return m.in.Var(name) }

// SetVar sets a variable in the current scope (spec.md §6 "set_var").
func (m *Interpreter) SetVar(name string, v Value) error { return m.in.SetVar(name, v) }

// UnsetVar removes a variable (spec.md §6 "unset_var").
func (m *Interpreter) UnsetVar(name string) { m.in.UnsetVar(name) }

// VarsInScope lists variable names bound in the current scope (spec.md §6
// "vars_in_scope").
func (m *Interpreter) VarsInScope() []string { return m.in.VarsInScope() }

// Eval parses and evaluates script at global scope (spec.md §6 "eval").
func (m *Interpreter) Eval(script string) Result { return m.in.Eval(script) }

// EvalBody evaluates script preserving break/continue (spec.md §6
// "eval_body"), for embedders building their own control-flow commands.
func (m *Interpreter) EvalBody(body Value) Result { return m.in.EvalBody(body) }

// Expr evaluates an expression string, returning its Value (spec.md §6
// "expr").
func (m *Interpreter) Expr(src string) (Value, error) {
	r := m.in.Eval("expr {" + src + "}")
	if r.Exc != nil {
		return value.Empty, r.Exc
	}
	return r.Value, nil
}

// ExprBool evaluates an expression and coerces it to bool (spec.md §6
// "expr_bool").
func (m *Interpreter) ExprBool(src string) (bool, error) {
	v, err := m.Expr(src)
	if err != nil {
		return false, err
	}
	return v.AsBool()
}

// ExprInt evaluates an expression and coerces it to int64 (spec.md §6
// "expr_int").
func (m *Interpreter) ExprInt(src string) (int64, error) {
	v, err := m.Expr(src)
	if err != nil {
		return 0, err
	}
	return v.AsInt()
}

// ExprFloat evaluates an expression and coerces it to float64 (spec.md §6
// "expr_float").
func (m *Interpreter) ExprFloat(src string) (float64, error) {
	v, err := m.Expr(src)
	if err != nil {
		return 0, err
	}
	return v.AsFloat()
}

// Complete reports whether s is a syntactically complete script (spec.md §6
// "complete"), for REPL line-continuation detection.
func (m *Interpreter) Complete(s string) bool { return m.in.Complete(s) }

// SetRecursionLimit configures the maximum nested eval depth (spec.md §6).
func (m *Interpreter) SetRecursionLimit(n int) { m.in.SetRecursionLimit(n) }

// RecursionLimit reports the configured recursion limit.
func (m *Interpreter) RecursionLimit() int { return m.in.RecursionLimit() }

// LastErrorInfo returns the accumulated error-info text from the most
// recent error (spec.md §7). No `errorInfo` script variable is set.
func (m *Interpreter) LastErrorInfo() string { return m.in.LastErrorInfo() }

// LastErrorCode returns the error-code Value from the most recent error
// (spec.md §7). No `errorCode` script variable is set.
func (m *Interpreter) LastErrorCode() Value { return m.in.LastErrorCode() }
