package molt

import (
	"bytes"
	"testing"
)

func TestEvalAndVarAccess(t *testing.T) {
	in := New(nil, true)
	res := in.Eval(`set x [expr {2 + 3}]`)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	v, err := in.Var("x")
	if err != nil {
		t.Fatalf("Var(x) error = %v", err)
	}
	if got := v.String(); got != "5" {
		t.Errorf("Var(x) = %q, want %q", got, "5")
	}
}

func TestExprHelpers(t *testing.T) {
	in := New(nil, true)
	in.SetVar("n", FromInt(6))

	i, err := in.ExprInt("$n * 7")
	if err != nil {
		t.Fatalf("ExprInt() error = %v", err)
	}
	if i != 42 {
		t.Errorf("ExprInt($n * 7) = %d, want 42", i)
	}

	b, err := in.ExprBool("$n > 3")
	if err != nil {
		t.Fatalf("ExprBool() error = %v", err)
	}
	if !b {
		t.Error("ExprBool($n > 3) = false, want true")
	}

	f, err := in.ExprFloat("$n / 4.0")
	if err != nil {
		t.Fatalf("ExprFloat() error = %v", err)
	}
	if f != 1.5 {
		t.Errorf("ExprFloat($n / 4.0) = %v, want 1.5", f)
	}
}

func TestAddCommandAndContext(t *testing.T) {
	in := New(nil, true)
	id := in.SaveContext("greeting")

	in.AddContextCommand("greet", func(m *Interpreter, ctxID int, args []Value) Result {
		v, _ := m.Context(ctxID)
		return Result{Value: FromString(v.(string) + " " + args[1].String())}
	}, id)

	res := in.Eval(`greet world`)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "greeting world" {
		t.Errorf("greet world = %q, want %q", got, "greeting world")
	}
}

func TestAddCommandSeesOwnInterpreter(t *testing.T) {
	in := New(nil, true)
	in.AddCommand("double", func(m *Interpreter, _ int, args []Value) Result {
		n, err := args[1].AsInt()
		if err != nil {
			return Result{Exc: nil}
		}
		m.SetVar("lastDoubled", FromInt(n*2))
		return Result{Value: FromInt(n * 2)}
	})
	res := in.Eval(`double 21`)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "42" {
		t.Errorf("double 21 = %q, want %q", got, "42")
	}
	v, err := in.Var("lastDoubled")
	if err != nil {
		t.Fatalf("Var(lastDoubled) error = %v", err)
	}
	if got := v.String(); got != "42" {
		t.Errorf("lastDoubled = %q, want %q", got, "42")
	}
}

func TestSetOutputRedirectsPuts(t *testing.T) {
	in := New(nil, true)
	var buf bytes.Buffer
	in.SetOutput(&buf)
	res := in.Eval(`puts hi`)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := buf.String(); got != "hi\n" {
		t.Errorf("puts output = %q, want %q", got, "hi\n")
	}
}

func TestCompleteAndRename(t *testing.T) {
	in := New(nil, true)
	if in.Complete("set x {") {
		t.Error(`Complete("set x {") = true, want false`)
	}
	if err := in.Rename("set", "assign"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	res := in.Eval(`assign y 9; set y`)
	if res.Exc == nil {
		t.Fatal("set y after rename away: error = nil, want invalid command name error")
	}
}
