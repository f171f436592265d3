package exprlang

import (
	"github.com/molt-lang/molt/internal/value"
)

func applyNegate(v value.Value) (value.Value, error) {
	if n, err := v.AsInt(); err == nil {
		if n == -(1 << 63) {
			return value.Empty, errf("integer overflow negating %q", v.String())
		}
		return value.FromInt(-n), nil
	}
	f, err := v.AsFloat()
	if err != nil {
		return value.Empty, errf("expected number but got %q", v.String())
	}
	return value.FromFloat(-f), nil
}

// applyBinary evaluates one binary operator over two already-evaluated
// operands, following spec.md §4.6's numeric contract: both-integer inputs
// stay integer (with 64-bit overflow detection on + - *, truncating
// division/modulo matching Go's operators), any float operand promotes the
// whole operation to float, and a small set of operators work directly on
// strings or booleans. `&&`/`||` are not handled here: they short-circuit,
// so parseShortCircuit in exprlang.go decides their result without ever
// fully evaluating a suppressed right operand.
func applyBinary(op string, a, b value.Value) (value.Value, error) {
	switch op {
	case "eq":
		return value.FromBool(a.String() == b.String()), nil
	case "ne":
		return value.FromBool(a.String() != b.String()), nil
	case "in", "ni":
		items, err := b.AsList()
		if err != nil {
			return value.Empty, errf("expected list but got %q", b.String())
		}
		found := false
		for _, it := range items {
			if it.String() == a.String() {
				found = true
				break
			}
		}
		if op == "ni" {
			found = !found
		}
		return value.FromBool(found), nil
	}

	ai, aIsInt := asIntMaybe(a)
	bi, bIsInt := asIntMaybe(b)
	if aIsInt && bIsInt {
		switch op {
		case "&":
			return value.FromInt(ai & bi), nil
		case "|":
			return value.FromInt(ai | bi), nil
		case "^":
			return value.FromInt(ai ^ bi), nil
		case "<<":
			return value.FromInt(ai << uint(bi)), nil
		case ">>":
			return value.FromInt(ai >> uint(bi)), nil
		}
		switch op {
		case "+", "-", "*", "/", "%":
			return intArith(op, ai, bi)
		case "<", ">", "<=", ">=", "==", "!=":
			return compareInt(op, ai, bi), nil
		}
	}

	switch op {
	case "&", "|", "^", "<<", ">>":
		return value.Empty, errf("bitwise operator %q requires integer operands", op)
	}

	af, aerr := a.AsFloat()
	if aerr != nil {
		return value.Empty, errf("expected number but got %q", a.String())
	}
	bf, berr := b.AsFloat()
	if berr != nil {
		return value.Empty, errf("expected number but got %q", b.String())
	}
	switch op {
	case "+":
		return value.FromFloat(af + bf), nil
	case "-":
		return value.FromFloat(af - bf), nil
	case "*":
		return value.FromFloat(af * bf), nil
	case "/":
		return value.FromFloat(af / bf), nil
	case "%":
		return value.Empty, errf("can't use floating-point value as operand of \"%%\"")
	case "<":
		return value.FromBool(af < bf), nil
	case ">":
		return value.FromBool(af > bf), nil
	case "<=":
		return value.FromBool(af <= bf), nil
	case ">=":
		return value.FromBool(af >= bf), nil
	case "==":
		return value.FromBool(af == bf), nil
	case "!=":
		return value.FromBool(af != bf), nil
	}
	return value.Empty, errf("unsupported operator %q", op)
}

func asIntMaybe(v value.Value) (int64, bool) {
	n, err := v.AsInt()
	if err != nil {
		return 0, false
	}
	return n, true
}

func intArith(op string, a, b int64) (value.Value, error) {
	switch op {
	case "+":
		r := a + b
		if (b > 0 && r < a) || (b < 0 && r > a) {
			return value.Empty, errf("integer overflow")
		}
		return value.FromInt(r), nil
	case "-":
		r := a - b
		if (b < 0 && r < a) || (b > 0 && r > a) {
			return value.Empty, errf("integer overflow")
		}
		return value.FromInt(r), nil
	case "*":
		if a == 0 || b == 0 {
			return value.FromInt(0), nil
		}
		r := a * b
		if r/b != a {
			return value.Empty, errf("integer overflow")
		}
		return value.FromInt(r), nil
	case "/":
		if b == 0 {
			return value.Empty, errf("divide by zero")
		}
		return value.FromInt(a / b), nil
	case "%":
		if b == 0 {
			return value.Empty, errf("divide by zero")
		}
		return value.FromInt(a % b), nil
	}
	return value.Empty, errf("unsupported operator %q", op)
}

func compareInt(op string, a, b int64) value.Value {
	switch op {
	case "<":
		return value.FromBool(a < b)
	case ">":
		return value.FromBool(a > b)
	case "<=":
		return value.FromBool(a <= b)
	case ">=":
		return value.FromBool(a >= b)
	case "==":
		return value.FromBool(a == b)
	case "!=":
		return value.FromBool(a != b)
	}
	return value.Empty
}
