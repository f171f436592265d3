package interp

import "github.com/molt-lang/molt/internal/value"

// Result is a MoltResult (spec.md §4.7): either Ok(Value) when Exc is nil,
// or the non-local Exception otherwise. Every command handler, the script
// evaluator, and the expression engine's script-substitution re-entry point
// all speak this type.
type Result struct {
	Value value.Value
	Exc   *Exception
}

// Ok constructs a successful Result.
func Ok(v value.Value) Result {
	return Result{Value: v}
}

// OkEmpty is the Result of an empty script or a command with no output.
var OkEmpty = Result{}

// Err wraps an Exception (of any code, not just error) as a Result.
func Err(e *Exception) Result {
	return Result{Exc: e}
}

// Errorf constructs an error Result directly from a format string.
func Errorf(format string, args ...any) Result {
	return Err(NewErrorf(format, args...))
}

// IsOk reports whether the Result is the successful branch.
func (r Result) IsOk() bool {
	return r.Exc == nil
}
