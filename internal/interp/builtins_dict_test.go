package interp

import "testing"

func TestDictBuiltins(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"create and get", `dict get [dict create a 1 b 2] b`, "2"},
		{"nested get", `dict get [dict create a [dict create b 2]] a b`, "2"},
		{"exists true", `dict exists [dict create a 1] a`, "1"},
		{"exists false", `dict exists [dict create a 1] z`, "0"},
		{"keys", `dict keys [dict create a 1 b 2]`, "a b"},
		{"values", `dict values [dict create a 1 b 2]`, "1 2"},
		{"size", `dict size [dict create a 1 b 2]`, "2"},
		{"remove", `dict remove [dict create a 1 b 2] a`, "b 2"},
		{"merge", `dict merge [dict create a 1] [dict create b 2]`, "a 1 b 2"},
		{"merge overwrite", `dict merge [dict create a 1] [dict create a 9]`, "a 9"},
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

func TestDictAppendAndIncrOnVariable(t *testing.T) {
	script := `
set counts [dict create hits 0]
dict incr counts hits 5
dict append counts label "ok"
list [dict get $counts hits] [dict get $counts label]
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "5 ok" {
		t.Errorf("dict incr/append = %q, want %q", got, "5 ok")
	}
}

func TestDictForIteratesInInsertionOrder(t *testing.T) {
	script := `
set out {}
dict for {k v} [dict create a 1 b 2 c 3] {
	append out "$k=$v "
}
set out
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "a=1 b=2 c=3 " {
		t.Errorf("dict for order = %q, want %q", got, "a=1 b=2 c=3 ")
	}
}

func TestDictForBreak(t *testing.T) {
	script := `
set out {}
dict for {k v} [dict create a 1 b 2 c 3] {
	if {$k eq "b"} { break }
	append out $k
}
set out
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "a" {
		t.Errorf("dict for break result = %q, want %q", got, "a")
	}
}

func TestDictGetMissingKeyErrors(t *testing.T) {
	res := eval(t, `dict get [dict create a 1] missing`)
	if res.Exc == nil {
		t.Fatal("dict get missing key: error = nil, want error")
	}
}

func TestDictUnsetRemovesKey(t *testing.T) {
	script := `
set d [dict create a 1 b 2]
dict unset d a
dict keys $d
`
	res := eval(t, script)
	if res.Exc != nil {
		t.Fatalf("Eval() error = %v", res.Exc)
	}
	if got := res.Value.String(); got != "b" {
		t.Errorf("dict unset result = %q, want %q", got, "b")
	}
}
