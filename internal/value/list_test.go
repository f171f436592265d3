package value

import (
	"reflect"
	"testing"
)

func TestParseListBasic(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"bare words", "a b c", []string{"a", "b", "c"}},
		{"braced item preserves whitespace", "a {b c} d", []string{"a", "b c", "d"}},
		{"quoted item", `a "b c" d`, []string{"a", "b c", "d"}},
		{"nested braces", "{a {b c} d}", []string{"a {b c} d"}},
		{"extra whitespace collapses", "  a   b  ", []string{"a", "b"}},
		{"escaped space in bare word", `a\ b c`, []string{"a b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ParseList(tt.in)
			if err != nil {
				t.Fatalf("ParseList(%q) error = %v", tt.in, err)
			}
			got := make([]string, len(items))
			for i, v := range items {
				got[i] = v.String()
			}
			if tt.want == nil {
				tt.want = []string{}
			}
			if len(got) == 0 {
				got = []string{}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseList(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseListUnmatchedBraceErrors(t *testing.T) {
	if _, err := ParseList("{a b"); err == nil {
		t.Error("ParseList unmatched brace = nil error, want error")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		items []string
	}{
		{"simple words", []string{"a", "b", "c"}},
		{"needs braces", []string{"hello world", "x"}},
		{"contains braces", []string{"a {nested} b"}},
		{"empty item", []string{"", "a"}},
		{"special characters", []string{"a$b", "c[d]", "e;f"}},
		{"leading hash", []string{"#comment"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make([]Value, len(tt.items))
			for i, s := range tt.items {
				values[i] = FromString(s)
			}
			formatted := Format(values)
			roundTripped, err := ParseList(formatted)
			if err != nil {
				t.Fatalf("ParseList(Format(%#v)) error = %v (formatted: %q)", tt.items, err, formatted)
			}
			got := make([]string, len(roundTripped))
			for i, v := range roundTripped {
				got[i] = v.String()
			}
			if !reflect.DeepEqual(got, tt.items) {
				t.Errorf("round trip = %#v, want %#v (formatted: %q)", got, tt.items, formatted)
			}
		})
	}
}

func TestAsListCachedKind(t *testing.T) {
	v := FromList([]Value{FromString("a"), FromString("b")})
	items, err := v.AsList()
	if err != nil {
		t.Fatalf("AsList() error = %v", err)
	}
	if len(items) != 2 || items[0].String() != "a" || items[1].String() != "b" {
		t.Errorf("AsList() = %#v, want [a b]", items)
	}
}
