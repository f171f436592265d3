package exprlang

import (
	"fmt"
	"strings"
	"testing"

	"github.com/molt-lang/molt/internal/value"
)

// fakeHost is a minimal Host backed by a plain map, standing in for the
// script interpreter in tests that don't need a full engine.
type fakeHost struct {
	vars  map[string]value.Value
	calls []string
}

func (h *fakeHost) ReadScalar(name string) (value.Value, error) {
	v, ok := h.vars[name]
	if !ok {
		return value.Empty, fmt.Errorf("can't read %q: no such variable", name)
	}
	return v, nil
}

func (h *fakeHost) ReadElement(name, index string) (value.Value, error) {
	return h.ReadScalar(name + "(" + index + ")")
}

func (h *fakeHost) EvalScript(script string) (value.Value, error) {
	h.calls = append(h.calls, script)
	if script == "1 + 1" {
		return value.FromInt(2), nil
	}
	// A tiny stand-in for `set name value`, enough to observe whether a
	// right-hand side that would mutate a variable actually ran.
	if fields := strings.Fields(script); len(fields) == 3 && fields[0] == "set" {
		v := value.FromString(fields[2])
		h.vars[fields[1]] = v
		return v, nil
	}
	return value.Empty, fmt.Errorf("unsupported script in test host: %q", script)
}

func newHost() *fakeHost {
	return &fakeHost{vars: map[string]value.Value{
		"x": value.FromInt(10),
		"y": value.FromInt(3),
		"s": value.FromString("hello"),
	}}
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"addition", "1 + 2", "3"},
		{"precedence", "2 + 3 * 4", "14"},
		{"parens override precedence", "(2 + 3) * 4", "20"},
		{"integer division truncates", "7 / 2", "3"},
		{"modulo", "7 % 2", "1"},
		{"unary minus", "-5 + 3", "-2"},
		{"float arithmetic", "1.5 + 1.5", "3"},
		{"bitwise and", "6 & 3", "2"},
		{"bitwise or", "6 | 1", "7"},
		{"shift left", "1 << 4", "16"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.expr, newHost())
			if err != nil {
				t.Fatalf("Eval(%q) error = %v", tt.expr, err)
			}
			if got.String() != tt.want {
				t.Errorf("Eval(%q) = %q, want %q", tt.expr, got.String(), tt.want)
			}
		})
	}
}

func TestEvalComparisonsAndLogic(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"equal", "1 == 1", true},
		{"not equal", "1 != 2", true},
		{"less than", "3 < 5", true},
		{"string eq", `"a" eq "a"`, true},
		{"string ne", `"a" ne "b"`, true},
		{"and", "1 && 0", false},
		{"or", "0 || 1", true},
		{"negation", "!0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvalBool(tt.expr, newHost())
			if err != nil {
				t.Fatalf("EvalBool(%q) error = %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("EvalBool(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvalTernary(t *testing.T) {
	got, err := Eval("1 ? 2 : 3", newHost())
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got.String() != "2" {
		t.Errorf("Eval(ternary) = %q, want %q", got.String(), "2")
	}
}

func TestEvalVariableReference(t *testing.T) {
	got, err := Eval("$x + $y", newHost())
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got.String() != "13" {
		t.Errorf("Eval($x + $y) = %q, want %q", got.String(), "13")
	}
}

func TestEvalCommandSubstitution(t *testing.T) {
	got, err := Eval("[1 + 1] * 2", newHost())
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if got.String() != "4" {
		t.Errorf("Eval([1 + 1] * 2) = %q, want %q", got.String(), "4")
	}
}

func TestEvalMathFunctions(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"abs negative int", "abs(-5)", "5"},
		{"int truncates", "int(3.9)", "3"},
		{"round", "round(3.5)", "4"},
		{"sqrt", "sqrt(16.0)", "4"},
		{"pow", "pow(2.0, 10.0)", "1024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.expr, newHost())
			if err != nil {
				t.Fatalf("Eval(%q) error = %v", tt.expr, err)
			}
			if got.String() != tt.want {
				t.Errorf("Eval(%q) = %q, want %q", tt.expr, got.String(), tt.want)
			}
		})
	}
}

func TestEvalUnknownVariableErrors(t *testing.T) {
	if _, err := Eval("$nope", newHost()); err == nil {
		t.Error("Eval($nope) error = nil, want error")
	}
}

func TestEvalTrailingGarbageErrors(t *testing.T) {
	if _, err := Eval("1 + 1 oops", newHost()); err == nil {
		t.Error("Eval with trailing garbage error = nil, want error")
	}
}

func TestEvalDivideByZeroErrors(t *testing.T) {
	if _, err := Eval("1 / 0", newHost()); err == nil {
		t.Error("Eval(1 / 0) error = nil, want error")
	}
}

// TestShortCircuitSuppressesCommandSubstitution is the end-to-end property
// spec.md §8 calls out by name: a script fragment that would mutate a
// variable via command substitution on the right-hand side of `&&`/`||`
// must never run when the left operand already settles the result.
func TestShortCircuitSuppressesCommandSubstitution(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"&& short-circuits on false left", "0 && [set b 1]", false},
		{"|| short-circuits on true left", "1 || [set b 1]", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHost()
			got, err := EvalBool(tt.expr, h)
			if err != nil {
				t.Fatalf("EvalBool(%q) error = %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("EvalBool(%q) = %v, want %v", tt.expr, got, tt.want)
			}
			if len(h.calls) != 0 {
				t.Errorf("EvalBool(%q) ran command substitution(s) %v, want none", tt.expr, h.calls)
			}
			if _, err := h.ReadScalar("b"); err == nil {
				t.Errorf("EvalBool(%q): variable %q was set, want short-circuit to suppress it", tt.expr, "b")
			}
		})
	}
}

// TestShortCircuitScenario9 mirrors the specification's own example: the
// left side of `||` runs (setting b to 1) and settles the whole expression,
// so the right side's `[set b 2]` must never execute and b stays 1.
func TestShortCircuitScenario9(t *testing.T) {
	h := newHost()
	if _, err := Eval("[set b 1] || [set b 2]", h); err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	b, err := h.ReadScalar("b")
	if err != nil {
		t.Fatalf("ReadScalar(b) error = %v", err)
	}
	if got := b.String(); got != "1" {
		t.Errorf("b after short-circuiting || = %q, want %q", got, "1")
	}
	if len(h.calls) != 1 {
		t.Errorf("Eval() ran %d command substitutions %v, want exactly 1 (the left side)", len(h.calls), h.calls)
	}
}

// TestShortCircuitStillParsesRightOperandSyntax ensures the skipped side is
// syntax-checked (matching brackets/braces/quotes), not merely swallowed.
func TestShortCircuitStillParsesRightOperandSyntax(t *testing.T) {
	if _, err := EvalBool("0 && [unterminated", newHost()); err == nil {
		t.Error(`EvalBool("0 && [unterminated") error = nil, want unbalanced-bracket error`)
	}
}

func TestNonShortCircuitedAndStillEvaluatesRightSide(t *testing.T) {
	h := newHost()
	got, err := EvalBool("1 && [set b 1]", h)
	if err != nil {
		t.Fatalf("EvalBool() error = %v", err)
	}
	if !got {
		t.Error("EvalBool(1 && [set b 1]) = false, want true")
	}
	b, err := h.ReadScalar("b")
	if err != nil || b.String() != "1" {
		t.Errorf("b = %v, %v; want \"1\", nil (right side must run when left doesn't short-circuit)", b, err)
	}
}
