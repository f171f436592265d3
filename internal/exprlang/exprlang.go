// Package exprlang implements the expression mini-language used by `expr`,
// `if`, `while`, and `for` (spec.md §4.6). It tokenizes and evaluates
// directly over the source text with a Pratt-style precedence climber, the
// same interpret-as-you-go discipline as the script evaluator. It does not
// import internal/interp: substitutions that need to re-enter script
// evaluation (`$name`, `[script]`) go through the Host interface, which
// internal/interp.Interpreter implements, avoiding an import cycle.
package exprlang

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/molt-lang/molt/internal/scan"
	"github.com/molt-lang/molt/internal/value"
)

// Host is implemented by the script interpreter to let expressions read
// variables and evaluate nested `[script]` command substitutions without
// exprlang importing interp (spec.md §4.6, GLOSSARY "Host").
type Host interface {
	ReadScalar(name string) (value.Value, error)
	ReadElement(name, index string) (value.Value, error)
	EvalScript(script string) (value.Value, error)
}

// Error reports an expression syntax or evaluation error.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func errf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Eval parses and evaluates the full expression text src against host.
func Eval(src string, host Host) (value.Value, error) {
	p := &parser{c: scan.New(src), host: host}
	v, err := p.parseExpr(0)
	if err != nil {
		return value.Empty, err
	}
	p.skipSpace()
	if !p.c.AtEnd() {
		return value.Empty, errf("extra characters after expression")
	}
	return v, nil
}

// EvalBool parses src and coerces the result to a boolean, per the numeric
// truthiness rules of spec.md §4.2/§4.6.
func EvalBool(src string, host Host) (bool, error) {
	v, err := Eval(src, host)
	if err != nil {
		return false, err
	}
	b, berr := v.AsBool()
	if berr != nil {
		return false, errf("expected boolean value but got %q", v.String())
	}
	return b, nil
}

type parser struct {
	c    *scan.Cursor
	host Host
}

func (p *parser) skipSpace() {
	for p.c.Peek() == ' ' || p.c.Peek() == '\t' || p.c.Peek() == '\n' || p.c.Peek() == '\r' {
		p.c.Next()
	}
}

// precedence table, highest binds tightest (spec.md §4.6 operator table).
var binPrec = map[string]int{
	"*": 110, "/": 110, "%": 110,
	"+": 100, "-": 100,
	"<<": 90, ">>": 90,
	"<": 80, ">": 80, "<=": 80, ">=": 80,
	"==": 70, "!=": 70, "eq": 70, "ne": 70,
	"in": 65, "ni": 65,
	"&":  60,
	"^":  55,
	"|":  50,
	"&&": 40,
	"||": 30,
}

var rightAssocTernary = 20

func (p *parser) parseExpr(minPrec int) (value.Value, error) {
	left, err := p.parseUnary()
	if err != nil {
		return value.Empty, err
	}
	for {
		p.skipSpace()
		op, ok := p.peekOperator()
		if !ok {
			break
		}
		if op == "?" {
			if minPrec > rightAssocTernary {
				break
			}
			p.consumeOperator(op)
			left, err = p.parseTernary(left)
			if err != nil {
				return value.Empty, err
			}
			continue
		}
		prec, ok := binPrec[op]
		if !ok || prec < minPrec {
			break
		}
		p.consumeOperator(op)
		if op == "&&" || op == "||" {
			left, err = p.parseShortCircuit(op, left, prec)
			if err != nil {
				return value.Empty, err
			}
			continue
		}
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return value.Empty, err
		}
		left, err = applyBinary(op, left, right)
		if err != nil {
			return value.Empty, err
		}
	}
	return left, nil
}

// parseShortCircuit implements `&&`/`||`'s short-circuit contract (spec.md
// §4.6): once the left operand settles the result, the right operand's
// token stream is skipped over rather than parsed-and-evaluated, so any
// `[script]` command substitution it contains never runs.
func (p *parser) parseShortCircuit(op string, left value.Value, prec int) (value.Value, error) {
	lb, err := left.AsBool()
	if err != nil {
		return value.Empty, errf("expected boolean value but got %q", left.String())
	}
	if (op == "&&" && !lb) || (op == "||" && lb) {
		if err := p.skipExpr(prec + 1); err != nil {
			return value.Empty, err
		}
		return value.FromBool(lb), nil
	}
	right, err := p.parseExpr(prec + 1)
	if err != nil {
		return value.Empty, err
	}
	rb, err := right.AsBool()
	if err != nil {
		return value.Empty, errf("expected boolean value but got %q", right.String())
	}
	return value.FromBool(rb), nil
}

func (p *parser) parseTernary(cond value.Value) (value.Value, error) {
	yes, err := p.parseExpr(rightAssocTernary)
	if err != nil {
		return value.Empty, err
	}
	p.skipSpace()
	if p.c.Peek() != ':' {
		return value.Empty, errf("expected ':' in ternary expression")
	}
	p.c.Next()
	no, err := p.parseExpr(rightAssocTernary)
	if err != nil {
		return value.Empty, err
	}
	b, berr := cond.AsBool()
	if berr != nil {
		return value.Empty, errf("expected boolean value but got %q", cond.String())
	}
	if b {
		return yes, nil
	}
	return no, nil
}

// peekOperator recognizes the operator token at the cursor without
// consuming it (two-character operators are tried before one-character
// ones), plus the `eq`/`ne`/`in`/`ni` identifier-operators.
func (p *parser) peekOperator() (string, bool) {
	if p.c.AtEnd() {
		return "", false
	}
	two := string(p.c.PeekAt(0)) + string(p.c.PeekAt(1))
	switch two {
	case "==", "!=", "<=", ">=", "&&", "||", "<<", ">>":
		return two, true
	}
	r := p.c.Peek()
	switch r {
	case '+', '-', '*', '/', '%', '<', '>', '&', '|', '^', '?':
		return string(r), true
	}
	if scan.IsWordChar(r) {
		start := p.c.Mark()
		save := *p.c
		var sb strings.Builder
		for scan.IsWordChar(p.c.Peek()) {
			sb.WriteRune(p.c.Next())
		}
		*p.c = save
		_ = start
		switch sb.String() {
		case "eq", "ne", "in", "ni":
			return sb.String(), true
		}
	}
	return "", false
}

func (p *parser) consumeOperator(op string) {
	if scan.IsWordChar(rune(op[0])) {
		for range op {
			p.c.Next()
		}
		return
	}
	for range []rune(op) {
		p.c.Next()
	}
}

func (p *parser) parseUnary() (value.Value, error) {
	p.skipSpace()
	switch p.c.Peek() {
	case '-':
		p.c.Next()
		v, err := p.parseUnary()
		if err != nil {
			return value.Empty, err
		}
		return applyNegate(v)
	case '+':
		p.c.Next()
		return p.parseUnary()
	case '!':
		p.c.Next()
		v, err := p.parseUnary()
		if err != nil {
			return value.Empty, err
		}
		b, berr := v.AsBool()
		if berr != nil {
			return value.Empty, errf("expected boolean value but got %q", v.String())
		}
		return value.FromBool(!b), nil
	case '~':
		p.c.Next()
		v, err := p.parseUnary()
		if err != nil {
			return value.Empty, err
		}
		n, nerr := v.AsInt()
		if nerr != nil {
			return value.Empty, errf("expected integer but got %q", v.String())
		}
		return value.FromInt(^n), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (value.Value, error) {
	p.skipSpace()
	switch p.c.Peek() {
	case '(':
		p.c.Next()
		v, err := p.parseExpr(0)
		if err != nil {
			return value.Empty, err
		}
		p.skipSpace()
		if p.c.Peek() != ')' {
			return value.Empty, errf("missing close-paren in expression")
		}
		p.c.Next()
		return v, nil
	case '$':
		return p.parseVarRef()
	case '[':
		return p.parseCommandSubst()
	case '"':
		return p.parseQuoted()
	case '{':
		return p.parseBraced()
	}
	if isDigitStart(p.c.Peek()) {
		return p.parseNumber()
	}
	if scan.IsWordChar(p.c.Peek()) {
		return p.parseFuncOrBareword()
	}
	return value.Empty, errf("unexpected character %q in expression", string(p.c.Peek()))
}

func isDigitStart(r rune) bool {
	return r >= '0' && r <= '9'
}

func (p *parser) parseNumber() (value.Value, error) {
	start := p.c.Mark()
	if p.c.Peek() == '0' && (p.c.PeekAt(1) == 'x' || p.c.PeekAt(1) == 'X') {
		p.c.Next()
		p.c.Next()
		for isHex(p.c.Peek()) {
			p.c.Next()
		}
		text := p.c.Slice(start)
		n, err := strconv.ParseInt(text[2:], 16, 64)
		if err != nil {
			return value.Empty, errf("invalid hex literal %q", text)
		}
		return value.FromInt(n), nil
	}
	isFloat := false
	for isDigitStart(p.c.Peek()) {
		p.c.Next()
	}
	if p.c.Peek() == '.' {
		isFloat = true
		p.c.Next()
		for isDigitStart(p.c.Peek()) {
			p.c.Next()
		}
	}
	if p.c.Peek() == 'e' || p.c.Peek() == 'E' {
		isFloat = true
		p.c.Next()
		if p.c.Peek() == '+' || p.c.Peek() == '-' {
			p.c.Next()
		}
		for isDigitStart(p.c.Peek()) {
			p.c.Next()
		}
	}
	text := p.c.Slice(start)
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return value.Empty, errf("invalid number %q", text)
		}
		return value.FromFloat(f), nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return value.Empty, errf("invalid number %q", text)
	}
	return value.FromInt(n), nil
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (p *parser) parseVarRef() (value.Value, error) {
	p.c.Next() // consume '$'
	if p.c.Peek() == '{' {
		p.c.Next()
		start := p.c.Mark()
		for !p.c.AtEnd() && p.c.Peek() != '}' {
			p.c.Next()
		}
		name := p.c.Slice(start)
		if p.c.AtEnd() {
			return value.Empty, errf("missing close-brace for variable name")
		}
		p.c.Next()
		return p.host.ReadScalar(name)
	}
	start := p.c.Mark()
	for scan.IsWordChar(p.c.Peek()) {
		p.c.Next()
	}
	name := p.c.Slice(start)
	if name == "" {
		return value.FromString("$"), nil
	}
	if p.c.Peek() == '(' {
		p.c.Next()
		idxStart := p.c.Mark()
		depth := 1
		for depth > 0 {
			if p.c.AtEnd() {
				return value.Empty, errf("missing close-paren for array element")
			}
			switch p.c.Next() {
			case '(':
				depth++
			case ')':
				depth--
			}
		}
		idx := p.c.SliceTo(idxStart, p.c.Mark()-1)
		return p.host.ReadElement(name, idx)
	}
	return p.host.ReadScalar(name)
}

func (p *parser) parseCommandSubst() (value.Value, error) {
	p.c.Next() // consume '['
	start := p.c.Mark()
	depth := 1
	for depth > 0 {
		if p.c.AtEnd() {
			return value.Empty, errf("missing close-bracket in expression")
		}
		switch p.c.Next() {
		case '[':
			depth++
		case ']':
			depth--
		}
	}
	script := p.c.SliceTo(start, p.c.Mark()-1)
	v, err := p.host.EvalScript(script)
	if err != nil {
		return value.Empty, err
	}
	return v, nil
}

func (p *parser) parseQuoted() (value.Value, error) {
	p.c.Next() // consume '"'
	var sb strings.Builder
	for {
		if p.c.AtEnd() {
			return value.Empty, errf("missing close-quote in expression")
		}
		r := p.c.Peek()
		if r == '"' {
			p.c.Next()
			return value.FromString(sb.String()), nil
		}
		if r == '\\' {
			sb.WriteString(p.c.ScanBackslash(true))
			continue
		}
		if r == '$' {
			v, err := p.parseVarRef()
			if err != nil {
				return value.Empty, err
			}
			sb.WriteString(v.String())
			continue
		}
		if r == '[' {
			v, err := p.parseCommandSubst()
			if err != nil {
				return value.Empty, err
			}
			sb.WriteString(v.String())
			continue
		}
		sb.WriteRune(p.c.Next())
	}
}

func (p *parser) parseBraced() (value.Value, error) {
	p.c.Next() // consume '{'
	start := p.c.Mark()
	depth := 1
	for {
		if p.c.AtEnd() {
			return value.Empty, errf("missing close-brace in expression")
		}
		switch p.c.Next() {
		case '\\':
			if !p.c.AtEnd() {
				p.c.Next()
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return value.FromString(p.c.SliceTo(start, p.c.Pos().Offset-1)), nil
			}
		}
	}
}

// skipExpr advances the cursor past one expression at minPrec without
// evaluating anything: no ReadScalar/ReadElement/EvalScript call reaches the
// host. It mirrors parseExpr's grammar exactly, token for token, so the
// short-circuited side of `&&`/`||` is still syntax-checked but never run.
func (p *parser) skipExpr(minPrec int) error {
	if err := p.skipUnary(); err != nil {
		return err
	}
	for {
		p.skipSpace()
		op, ok := p.peekOperator()
		if !ok {
			break
		}
		if op == "?" {
			if minPrec > rightAssocTernary {
				break
			}
			p.consumeOperator(op)
			if err := p.skipExpr(rightAssocTernary); err != nil {
				return err
			}
			p.skipSpace()
			if p.c.Peek() != ':' {
				return errf("expected ':' in ternary expression")
			}
			p.c.Next()
			if err := p.skipExpr(rightAssocTernary); err != nil {
				return err
			}
			continue
		}
		prec, ok := binPrec[op]
		if !ok || prec < minPrec {
			break
		}
		p.consumeOperator(op)
		if err := p.skipExpr(prec + 1); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) skipUnary() error {
	p.skipSpace()
	switch p.c.Peek() {
	case '-', '+', '!', '~':
		p.c.Next()
		return p.skipUnary()
	}
	return p.skipPrimary()
}

func (p *parser) skipPrimary() error {
	p.skipSpace()
	switch p.c.Peek() {
	case '(':
		p.c.Next()
		if err := p.skipExpr(0); err != nil {
			return err
		}
		p.skipSpace()
		if p.c.Peek() != ')' {
			return errf("missing close-paren in expression")
		}
		p.c.Next()
		return nil
	case '$':
		return p.skipVarRef()
	case '[':
		return p.skipBracket()
	case '"':
		return p.skipQuoted()
	case '{':
		return p.skipBraced()
	}
	if isDigitStart(p.c.Peek()) {
		_, err := p.parseNumber() // no host calls; safe to evaluate
		return err
	}
	if scan.IsWordChar(p.c.Peek()) {
		return p.skipFuncOrBareword()
	}
	return errf("unexpected character %q in expression", string(p.c.Peek()))
}

func (p *parser) skipVarRef() error {
	p.c.Next() // consume '$'
	if p.c.Peek() == '{' {
		p.c.Next()
		for !p.c.AtEnd() && p.c.Peek() != '}' {
			p.c.Next()
		}
		if p.c.AtEnd() {
			return errf("missing close-brace for variable name")
		}
		p.c.Next()
		return nil
	}
	start := p.c.Mark()
	for scan.IsWordChar(p.c.Peek()) {
		p.c.Next()
	}
	if p.c.Slice(start) == "" {
		return nil // a lone '$' is literal (Tcl behavior)
	}
	if p.c.Peek() == '(' {
		p.c.Next()
		depth := 1
		for depth > 0 {
			if p.c.AtEnd() {
				return errf("missing close-paren for array element")
			}
			switch p.c.Next() {
			case '(':
				depth++
			case ')':
				depth--
			}
		}
	}
	return nil
}

// skipBracket advances past a `[...]` command substitution without running
// it, matching parseCommandSubst's own bracket-depth counting exactly so the
// two never disagree on where a script ends.
func (p *parser) skipBracket() error {
	p.c.Next() // consume '['
	depth := 1
	for depth > 0 {
		if p.c.AtEnd() {
			return errf("missing close-bracket in expression")
		}
		switch p.c.Next() {
		case '[':
			depth++
		case ']':
			depth--
		}
	}
	return nil
}

func (p *parser) skipQuoted() error {
	p.c.Next() // consume '"'
	for {
		if p.c.AtEnd() {
			return errf("missing close-quote in expression")
		}
		r := p.c.Peek()
		if r == '"' {
			p.c.Next()
			return nil
		}
		if r == '\\' {
			p.c.ScanBackslash(true)
			continue
		}
		if r == '$' {
			if err := p.skipVarRef(); err != nil {
				return err
			}
			continue
		}
		if r == '[' {
			if err := p.skipBracket(); err != nil {
				return err
			}
			continue
		}
		p.c.Next()
	}
}

func (p *parser) skipBraced() error {
	p.c.Next() // consume '{'
	depth := 1
	for {
		if p.c.AtEnd() {
			return errf("missing close-brace in expression")
		}
		switch p.c.Next() {
		case '\\':
			if !p.c.AtEnd() {
				p.c.Next()
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}

func (p *parser) skipFuncOrBareword() error {
	start := p.c.Mark()
	for scan.IsWordChar(p.c.Peek()) {
		p.c.Next()
	}
	name := p.c.Slice(start)
	save := *p.c
	p.skipSpace()
	if p.c.Peek() != '(' {
		*p.c = save
		return nil
	}
	p.c.Next()
	p.skipSpace()
	if p.c.Peek() != ')' {
		for {
			if err := p.skipExpr(0); err != nil {
				return err
			}
			p.skipSpace()
			if p.c.Peek() == ',' {
				p.c.Next()
				continue
			}
			break
		}
	}
	p.skipSpace()
	if p.c.Peek() != ')' {
		return errf("missing close-paren calling function %q", name)
	}
	p.c.Next()
	return nil
}

// mathFuncs implements spec.md §4.6's function-call forms: abs, int, double,
// round, plus a handful of transcendental functions idiomatic Tcl expr
// supports, since the spec's list is illustrative ("math functions such
// as...").
var mathFuncs = map[string]func([]value.Value) (value.Value, error){
	"abs":   func(a []value.Value) (value.Value, error) { return mathUnary(a, math.Abs, func(n int64) int64 {
		if n < 0 {
			return -n
		}
		return n
	}) },
	"round": func(a []value.Value) (value.Value, error) {
		f, err := requireOneFloat(a)
		if err != nil {
			return value.Empty, err
		}
		return value.FromInt(int64(math.Round(f))), nil
	},
	"int": func(a []value.Value) (value.Value, error) {
		f, err := requireOneFloat(a)
		if err != nil {
			return value.Empty, err
		}
		return value.FromInt(int64(f)), nil
	},
	"double": func(a []value.Value) (value.Value, error) {
		f, err := requireOneFloat(a)
		if err != nil {
			return value.Empty, err
		}
		return value.FromFloat(f), nil
	},
	"sqrt":  func(a []value.Value) (value.Value, error) { return mathFloatFn(a, math.Sqrt) },
	"floor": func(a []value.Value) (value.Value, error) { return mathFloatFn(a, math.Floor) },
	"ceil":  func(a []value.Value) (value.Value, error) { return mathFloatFn(a, math.Ceil) },
	"pow": func(a []value.Value) (value.Value, error) {
		if len(a) != 2 {
			return value.Empty, errf("wrong # args to function \"pow\"")
		}
		x, err := a[0].AsFloat()
		if err != nil {
			return value.Empty, err
		}
		y, yerr := a[1].AsFloat()
		if yerr != nil {
			return value.Empty, yerr
		}
		return value.FromFloat(math.Pow(x, y)), nil
	},
}

func mathFloatFn(a []value.Value, fn func(float64) float64) (value.Value, error) {
	f, err := requireOneFloat(a)
	if err != nil {
		return value.Empty, err
	}
	return value.FromFloat(fn(f)), nil
}

func mathUnary(a []value.Value, ffn func(float64) float64, ifn func(int64) int64) (value.Value, error) {
	if len(a) != 1 {
		return value.Empty, errf("wrong # args to function")
	}
	if n, err := a[0].AsInt(); err == nil {
		return value.FromInt(ifn(n)), nil
	}
	f, err := a[0].AsFloat()
	if err != nil {
		return value.Empty, err
	}
	return value.FromFloat(ffn(f)), nil
}

func requireOneFloat(a []value.Value) (float64, error) {
	if len(a) != 1 {
		return 0, errf("wrong # args to function")
	}
	return a[0].AsFloat()
}

func (p *parser) parseFuncOrBareword() (value.Value, error) {
	start := p.c.Mark()
	for scan.IsWordChar(p.c.Peek()) {
		p.c.Next()
	}
	name := p.c.Slice(start)
	save := *p.c
	p.skipSpace()
	if p.c.Peek() == '(' {
		p.c.Next()
		var fnArgs []value.Value
		p.skipSpace()
		if p.c.Peek() != ')' {
			for {
				v, err := p.parseExpr(0)
				if err != nil {
					return value.Empty, err
				}
				fnArgs = append(fnArgs, v)
				p.skipSpace()
				if p.c.Peek() == ',' {
					p.c.Next()
					continue
				}
				break
			}
		}
		p.skipSpace()
		if p.c.Peek() != ')' {
			return value.Empty, errf("missing close-paren calling function %q", name)
		}
		p.c.Next()
		fn, ok := mathFuncs[name]
		if !ok {
			return value.Empty, errf("unknown math function %q", name)
		}
		return fn(fnArgs)
	}
	*p.c = save
	switch name {
	case "true", "yes", "on":
		return value.FromBool(true), nil
	case "false", "no", "off":
		return value.FromBool(false), nil
	}
	return value.Empty, errf("invalid bareword %q in expression", name)
}
