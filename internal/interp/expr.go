package interp

import (
	"strings"

	"github.com/molt-lang/molt/internal/exprlang"
	"github.com/molt-lang/molt/internal/value"
)

// Interpreter implements exprlang.Host so the expression evaluator can read
// variables and re-enter script evaluation for `[script]` substitutions
// without internal/exprlang importing internal/interp (spec.md §4.6,
// GLOSSARY "Host").
var _ exprlang.Host = (*Interpreter)(nil)

func (in *Interpreter) ReadScalar(name string) (value.Value, error) {
	return in.scopes.readScalar(name)
}

func (in *Interpreter) ReadElement(name, index string) (value.Value, error) {
	return in.scopes.readElement(name, index)
}

func (in *Interpreter) EvalScript(script string) (value.Value, error) {
	res := in.evalScript(script)
	if res.Exc != nil {
		return value.Empty, res.Exc
	}
	return res.Value, nil
}

func toExprExc(err error) *Exception {
	if exc, ok := err.(*Exception); ok {
		return exc
	}
	return NewError(err.Error())
}

// evalExprValue evaluates src as an expression, returning a Value.
func (in *Interpreter) evalExprValue(src string) (value.Value, *Exception) {
	v, err := exprlang.Eval(src, in)
	if err != nil {
		return value.Empty, toExprExc(err)
	}
	return v, nil
}

// evalExprBool evaluates src as an expression and coerces it to a boolean,
// used by `if`/`while`/`for`.
func (in *Interpreter) evalExprBool(src string) (bool, *Exception) {
	b, err := exprlang.EvalBool(src, in)
	if err != nil {
		return false, toExprExc(err)
	}
	return b, nil
}

// registerExprBuiltins installs the `expr` command (spec.md §4.6).
func registerExprBuiltins(in *Interpreter) {
	in.AddCommand("expr", cmdExpr)
}

// cmdExpr implements `expr arg ?arg ...?`: its arguments are joined with a
// space, matching Tcl's brace-protected idiom `expr {$a + $b}`.
func cmdExpr(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 2 {
		return wrongArgs("expr arg ?arg ...?")
	}
	parts := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		parts = append(parts, a.String())
	}
	v, err := in.evalExprValue(strings.Join(parts, " "))
	if err != nil {
		return Err(err)
	}
	return Ok(v)
}
