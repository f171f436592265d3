package interp

import "testing"

func TestDictJSONGetAndSet(t *testing.T) {
	script := `
set doc {{"name":"ada","tags":["tcl","go"]}}
set name [dict json get $doc name]
set doc2 [dict json set $doc age 36]
list $name [dict json get $doc2 age]
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "ada 36" {
		t.Errorf("dict json round trip = %q, want %q", got, "ada 36")
	}
}

func TestDictJSONMissingPathErrors(t *testing.T) {
	res := eval(t, `dict json get {{"a":1}} b`)
	if res.Exc == nil {
		t.Fatal("dict json get on missing path: error = nil, want error")
	}
}

func TestDictJSONExists(t *testing.T) {
	res := eval(t, `dict json exists {{"a":1}} a`)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "1" {
		t.Errorf("dict json exists = %q, want %q", got, "1")
	}
}
