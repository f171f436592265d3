package interp

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestScriptFixtures snapshots the combined stdout + result value of a set
// of representative scripts, the way the teacher's own fixture suite
// snapshots DWScript program output with go-snaps rather than hand-written
// expected strings.
func TestScriptFixtures(t *testing.T) {
	fixtures := []struct {
		name   string
		script string
	}{
		{
			name: "fibonacci_proc",
			script: `
proc fib {n} {
	if {$n < 2} { return $n }
	return [expr {[fib [expr {$n - 1}]] + [fib [expr {$n - 2}]]}]
}
for {set i 0} {$i < 10} {incr i} {
	puts [fib $i]
}
`,
		},
		{
			name: "array_accounting",
			script: `
set balances(alice) 100
set balances(bob) 50
incr balances(alice) -30
lappend balances(history) "alice paid bob 30"
foreach who [lsort [array names balances]] {
	if {$who eq "history"} { continue }
	puts "$who: $balances($who)"
}
puts [array get balances history]
`,
		},
		{
			name: "dict_and_json",
			script: `
set rec [dict create name molt role engine]
dict set rec tags {scripting embeddable}
puts [dict get $rec name]
set doc {{"active":true,"count":3}}
puts [dict json get $doc count]
puts [dict json set $doc count 4]
`,
		},
		{
			name: "error_catch_unwind",
			script: `
proc risky {n} {
	if {$n < 0} {
		error "negative input: $n"
	}
	return [expr {$n * $n}]
}
foreach n {4 -1 9} {
	set code [catch {risky $n} result]
	if {$code == 0} {
		puts "ok: $result"
	} else {
		puts "error: $result"
	}
}
`,
		},
		{
			name: "string_processing",
			script: `
set words {the quick brown fox}
set upper {}
foreach w $words {
	lappend upper [string toupper $w]
}
puts $upper
puts [string map {brown gray} "the quick brown fox"]
`,
		},
	}

	for _, fx := range fixtures {
		t.Run(fx.name, func(t *testing.T) {
			var buf bytes.Buffer
			in := New(&buf, true)
			res := in.Eval(fx.script)
			if res.Exc != nil {
				t.Fatalf("Eval(%s) error = %v", fx.name, res.Exc)
			}
			snapshot := fmt.Sprintf("stdout:\n%sresult: %s", buf.String(), res.Value.String())
			snaps.MatchSnapshot(t, snapshot)
		})
	}
}
