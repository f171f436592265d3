package interp

import "testing"

func TestStringBuiltins(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"length", `string length hello`, "5"},
		{"index", `string index hello 1`, "e"},
		{"index end", `string index hello end`, "o"},
		{"range", `string range hello 1 3`, "ell"},
		{"tolower", `string tolower HELLO`, "hello"},
		{"toupper", `string toupper hello`, "HELLO"},
		{"totitle", `string totitle {hello world}`, "Hello World"},
		{"trim", `string trim "  hi  "`, "hi"},
		{"trim custom chars", `string trim xxhixx x`, "hi"},
		{"repeat", `string repeat ab 3`, "ababab"},
		{"first found", `string first l hello`, "2"},
		{"first not found", `string first z hello`, "-1"},
		{"first with start", `string first l hello 3`, "3"},
		{"last", `string last l hello`, "3"},
		{"cat", `string cat foo bar baz`, "foobarbaz"},
		{"reverse", `string reverse hello`, "olleh"},
		{"replace", `string replace hello 1 2 XY`, "hXYlo"},
		{"match glob", `string match h*o hello`, "1"},
		{"match glob fails", `string match abc hello`, "0"},
		{"map", `string map {a 1 b 2} abcab`, "12c12"},
		{"is integer true", `string is integer 42`, "1"},
		{"is integer false", `string is integer abc`, "0"},
		{"compare equal", `string compare foo foo`, "0"},
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
