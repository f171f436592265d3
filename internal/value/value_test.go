package value

import "testing"

func TestFromIntString(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{"zero", 0, "0"},
		{"positive", 42, "42"},
		{"negative", -7, "-7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromInt(tt.n).String(); got != tt.want {
				t.Errorf("FromInt(%d).String() = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestFromFloatString(t *testing.T) {
	tests := []struct {
		name string
		f    float64
		want string
	}{
		{"integer-looking", 3, "3"},
		{"fraction", 3.5, "3.5"},
		{"positive infinity", posInf(), "Inf"},
		{"negative infinity", negInf(), "-Inf"},
		{"not a number", nan(), "NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromFloat(tt.f).String(); got != tt.want {
				t.Errorf("FromFloat(%v).String() = %q, want %q", tt.f, got, tt.want)
			}
		})
	}
}

func TestFromBoolString(t *testing.T) {
	if got := FromBool(true).String(); got != "1" {
		t.Errorf("FromBool(true).String() = %q, want %q", got, "1")
	}
	if got := FromBool(false).String(); got != "0" {
		t.Errorf("FromBool(false).String() = %q, want %q", got, "0")
	}
}

func TestEqual(t *testing.T) {
	if !Equal(FromString("abc"), FromString("abc")) {
		t.Error("Equal(abc, abc) = false, want true")
	}
	if Equal(FromString("abc"), FromString("abd")) {
		t.Error("Equal(abc, abd) = true, want false")
	}
	// Equal compares string form only, even across cached kinds.
	if !Equal(FromInt(1), FromBool(true)) {
		t.Error(`Equal(FromInt(1), FromBool(true)) = false, want true (both render "1")`)
	}
}

func TestIsEmpty(t *testing.T) {
	if !Empty.IsEmpty() {
		t.Error("Empty.IsEmpty() = false, want true")
	}
	if FromString("0").IsEmpty() {
		t.Error(`FromString("0").IsEmpty() = true, want false`)
	}
}

func TestAsIntCoercion(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		want    int64
		wantErr bool
	}{
		{"decimal", "42", 42, false},
		{"negative", "-7", -7, false},
		{"hex", "0x1F", 31, false},
		{"whitespace padded", "  12  ", 12, false},
		{"not a number", "abc", 0, true},
		{"leading zero is not octal", "010", 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromString(tt.s).AsInt()
			if (err != nil) != tt.wantErr {
				t.Fatalf("AsInt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("AsInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAsBoolCoercion(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want bool
	}{
		{"one", "1", true},
		{"zero", "0", false},
		{"true", "true", true},
		{"YES mixed case", "YES", true},
		{"off", "off", false},
		{"nonzero integer", "5", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromString(tt.s).AsBool()
			if err != nil {
				t.Fatalf("AsBool() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("AsBool(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func TestAsDictOddLengthFails(t *testing.T) {
	if _, err := FromString("a b c").AsDict(); err == nil {
		t.Error("AsDict() on odd-length list = nil error, want error")
	}
}

func TestAsDictKeepsLastDuplicate(t *testing.T) {
	d, err := FromString("a 1 b 2 a 3").AsDict()
	if err != nil {
		t.Fatalf("AsDict() error = %v", err)
	}
	v, ok := d.Get(FromString("a"))
	if !ok || v.String() != "3" {
		t.Errorf(`d.Get("a") = (%v, %v), want ("3", true)`, v, ok)
	}
}

func posInf() float64 { f := 1.0; return f / 0 }
func negInf() float64 { f := -1.0; return f / 0 }
func nan() float64    { f := 0.0; return f / f }
