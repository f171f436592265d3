package interp

import "testing"

func TestArrayBuiltins(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"set then get", `set a(x) 1; set a(y) 2; array get a`, "x 1 y 2"},
		{"names sorted", `set a(z) 1; set a(a) 2; array names a`, "a z"},
		{"size", `set a(x) 1; set a(y) 2; array size a`, "2"},
		{"exists true", `set a(x) 1; array exists a`, "1"},
		{"exists false", `array exists nope`, "0"},
		{"array set from list", `array set a {x 1 y 2}; set a(x)`, "1"},
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

func TestInfoBuiltins(t *testing.T) {
	res := eval(t, `info exists nonexistentVar`)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "0" {
		t.Errorf("info exists nonexistentVar = %q, want %q", got, "0")
	}

	res = eval(t, `set x 1; info exists x`)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "1" {
		t.Errorf("info exists x = %q, want %q", got, "1")
	}

	res = eval(t, `proc foo {} {}; expr {[lsearch [info procs] foo] >= 0}`)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "1" {
		t.Errorf("info procs should include foo, got %q", got)
	}
}
