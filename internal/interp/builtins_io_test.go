package interp

import (
	"bytes"
	"strings"
	"testing"
)

func TestPutsNonewline(t *testing.T) {
	var buf bytes.Buffer
	in := New(&buf, true)
	res := in.Eval(`puts -nonewline hi; puts there`)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := buf.String(); got != "hithere\n" {
		t.Errorf("puts -nonewline output = %q, want %q", got, "hithere\n")
	}
}

func TestTimeReportsPerIteration(t *testing.T) {
	res := eval(t, `time {set x 1} 5`)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if !strings.Contains(res.Value.String(), "microseconds per iteration") {
		t.Errorf("time result = %q, want it to mention microseconds per iteration", res.Value.String())
	}
}

func TestTimePropagatesBodyError(t *testing.T) {
	res := eval(t, `time {error boom} 3`)
	if res.Exc == nil {
		t.Fatal("time with erroring body: error = nil, want error")
	}
}
