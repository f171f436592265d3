package interp

import (
	"bytes"
	"strings"
	"testing"
)

func eval(t *testing.T, script string) Result {
	t.Helper()
	in := New(nil, true)
	return in.Eval(script)
}

func TestEvalBasicCommands(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"set returns value", `set x 5`, "5"},
		{"variable substitution", "set x 5; set y $x; set y", "5"},
		{"command substitution", `set x [set y 3]; set x`, "3"},
		{"expr arithmetic", `expr {2 + 3 * 4}`, "14"},
		{"string concat", `set a foo; set b bar; return "$a$b"`, "foobar"},
		{"list building", `list a b c`, "a b c"},
		{"braces preserve literal text", `set x {$y}`, "$y"},
		{"nested brackets", `set x [expr {1 + [expr {2 + 3}]}]`, "6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := eval(t, tt.script)
			if res.Exc != nil {
				t.Fatalf("Eval(%q) error = %v", tt.script, res.Exc)
			}
			if got := res.Value.String(); got != tt.want {
				t.Errorf("Eval(%q) = %q, want %q", tt.script, got, tt.want)
			}
		})
	}
}

func TestProcCallAndReturn(t *testing.T) {
	script := `
proc double {n} {
	return [expr {$n * 2}]
}
double 21
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "42" {
		t.Errorf("double 21 = %q, want %q", got, "42")
	}
}

func TestProcVariadicArgs(t *testing.T) {
	script := `
proc sumAll {first args} {
	set total $first
	foreach n $args {
		set total [expr {$total + $n}]
	}
	return $total
}
sumAll 1 2 3 4
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "10" {
		t.Errorf("sumAll 1 2 3 4 = %q, want %q", got, "10")
	}
}

func TestProcDefaultArgs(t *testing.T) {
	script := `
proc greet {name {greeting hello}} {
	return "$greeting, $name"
}
greet world
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "hello, world" {
		t.Errorf("greet world = %q, want %q", got, "hello, world")
	}
}

func TestWhileLoopWithBreakAndContinue(t *testing.T) {
	script := `
set total 0
set i 0
while {$i < 10} {
	incr i
	if {$i == 5} { continue }
	if {$i > 8} { break }
	set total [expr {$total + $i}]
}
set total
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	// 1+2+3+4+6+7+8 = 31
	if got := res.Value.String(); got != "31" {
		t.Errorf("loop total = %q, want %q", got, "31")
	}
}

func TestForeachMultipleLists(t *testing.T) {
	script := `
set out {}
foreach a {1 2} b {x y z} {
	append out "$a$b "
}
set out
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "1x 2y z " {
		t.Errorf("foreach result = %q, want %q", got, "1x 2y z ")
	}
}

func TestCatchReportsReturnCodeNotErrorCode(t *testing.T) {
	// Per real Tcl (and spec.md §4.7), catch sees the raw, not-yet-converted
	// exception: `return -code error` inside a catch body reports code 2
	// (the numeric code for "return"), not 1 ("error").
	script := `
set code [catch {return -code error foo} result]
set code
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "2" {
		t.Errorf("catch code = %q, want %q", got, "2")
	}
}

func TestCatchReportsPlainErrorCode(t *testing.T) {
	script := `
set code [catch {error "boom"} result]
list $code $result
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "1 boom" {
		t.Errorf("catch result = %q, want %q", got, "1 boom")
	}
}

func TestUnknownCommandErrors(t *testing.T) {
	res := eval(t, "nosuchcommand 1 2 3")
	if res.Exc == nil {
		t.Fatal("Eval(nosuchcommand) error = nil, want error")
	}
	if !strings.Contains(res.Exc.Error(), "invalid command name") {
		t.Errorf("error = %q, want it to mention invalid command name", res.Exc.Error())
	}
}

func TestBreakOutsideLoopErrors(t *testing.T) {
	res := eval(t, "break")
	if res.Exc == nil {
		t.Fatal(`Eval("break") error = nil, want error`)
	}
}

func TestUpvarLinksCallerVariable(t *testing.T) {
	script := `
proc increment {varName} {
	upvar 1 $varName v
	incr v
}
set counter 10
increment counter
set counter
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "11" {
		t.Errorf("counter after increment = %q, want %q", got, "11")
	}
}

func TestDictRoundTrip(t *testing.T) {
	script := `
set d [dict create a 1 b 2]
dict set d c 3
dict get $d c
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "3" {
		t.Errorf("dict get result = %q, want %q", got, "3")
	}
}

func TestPutsWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	in := New(&buf, true)
	res := in.Eval(`puts "hello, world"`)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := buf.String(); got != "hello, world\n" {
		t.Errorf("puts output = %q, want %q", got, "hello, world\n")
	}
}

func TestCompleteDetectsUnbalancedInput(t *testing.T) {
	in := New(nil, true)
	if in.Complete("set x {incomplete") {
		t.Error(`Complete("set x {incomplete") = true, want false`)
	}
	if !in.Complete("set x {complete}") {
		t.Error(`Complete("set x {complete}") = false, want true`)
	}
}

func TestArrayElementSetGetUnset(t *testing.T) {
	script := `
set a(x) 1
set a(y) 2
incr a(x)
append a(y) 9
lappend a(z) first second
set before [array size a]
unset a(y)
list $before [array size a] $a(x) $a(z)
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "3 2 2 {first second}" {
		t.Errorf("array element ops = %q, want %q", got, "3 2 2 {first second}")
	}
}

func TestUnmatchedParenNameIsPlainScalar(t *testing.T) {
	// No closing paren means the whole string is a literal scalar name,
	// not an array reference.
	res := eval(t, `set {a(x} 1`)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "1" {
		t.Errorf("set {a(x} 1 = %q, want %q", got, "1")
	}
}

func TestForBreakInNextIsQuietExit(t *testing.T) {
	script := `
set log {}
for {set i 0} {$i < 5} {lappend log $i; if {$i == 2} break; incr i} {
	lappend log hit-$i
}
list $i $log
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "2 {hit-0 0 hit-1 1 hit-2 2}" {
		t.Errorf("for with break in next = %q, want %q", got, "2 {hit-0 0 hit-1 1 hit-2 2}")
	}
}

func TestExpandOperator(t *testing.T) {
	script := `
set args {1 2 3}
proc sum3 {a b c} { return [expr {$a + $b + $c}] }
sum3 {*}$args
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "6" {
		t.Errorf("sum3 {*}$args = %q, want %q", got, "6")
	}
}
