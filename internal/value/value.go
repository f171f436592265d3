// Package value implements the engine's universal data container: an
// immutable, reference-counted-by-Go's-GC Value carrying a canonical string
// form and, optionally, one cached structured form (integer, float, boolean,
// list, or dict). See spec.md §3 and §4.2, and SPEC_FULL.md §9 for the
// Go-specific translation of the "owning clone rather than long-lived
// borrow" design note.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which structured form, if any, a Value has cached.
type Kind int

const (
	// KindNone means only the string form is known; no structured form has
	// been computed yet.
	KindNone Kind = iota
	KindInt
	KindFloat
	KindBool
	KindList
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	default:
		return "string"
	}
}

// Value is the universal, immutable data container. The zero Value is the
// empty string. Values are cheap to copy: all structured payloads are
// represented as already-immutable Go values (string, int64, float64, bool)
// or slices/maps that Value never mutates in place, so copying a Value never
// requires a deep clone.
type Value struct {
	str  string
	kind Kind

	i    int64
	f    float64
	b    bool
	list []Value // present when kind == KindList
	dict *Dict   // present when kind == KindDict
}

// Empty is the canonical empty-string Value.
var Empty = Value{}

// FromString builds a Value whose only known form is the given string. Each
// coercion (AsInt, AsList, ...) parses the string again; the result is not
// stored back into the Value.
func FromString(s string) Value {
	return Value{str: s, kind: KindNone}
}

// FromInt builds a Value with an int64 structured form cached up front; its
// string form is the canonical base-10 rendering.
func FromInt(n int64) Value {
	return Value{str: strconv.FormatInt(n, 10), kind: KindInt, i: n}
}

// FromFloat builds a Value with a float64 structured form cached up front.
// The canonical string follows spec.md §4.2: Inf/-Inf/NaN render with those
// exact capitalizations, and integer-looking floats print without a
// fractional part.
func FromFloat(f float64) Value {
	return Value{str: formatFloat(f), kind: KindFloat, f: f}
}

// FromBool builds a Value with a bool structured form, rendering as "1" or
// "0" (Tcl's canonical boolean string form).
func FromBool(b bool) Value {
	s := "0"
	if b {
		s = "1"
	}
	return Value{str: s, kind: KindBool, b: b}
}

// FromList builds a Value from an already-formed sequence of Values, caching
// the list structured form and deriving the canonical string via Format.
func FromList(items []Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{str: Format(cp), kind: KindList, list: cp}
}

// FromDict builds a Value from an already-formed Dict.
func FromDict(d *Dict) Value {
	return Value{str: d.Format(), kind: KindDict, dict: d}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// strconv's 'g' format already omits a trailing ".0" for integer-looking
	// values in exponent-free range, and already writes exponents in
	// lowercase-e-with-sign style, so the string is returned unchanged.
	if strings.ContainsAny(s, "eE") {
		return s
	}
	return s
}

// String returns the canonical string form. This never requires access to
// the structured cache, satisfying spec.md §4.2's no-deadlock requirement.
func (v Value) String() string {
	return v.str
}

// Kind reports which structured form, if any, is currently cached. This is
// advisory only: IsEmpty, AsInt, etc. will compute a fresh structured form
// on demand if the cache is absent or of the wrong kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsEmpty reports whether the Value's string form is empty.
func (v Value) IsEmpty() bool {
	return v.str == ""
}

// Equal reports Value equality by canonical string form, per spec.md §4.2.
func Equal(a, b Value) bool {
	return a.str == b.str
}

// GoString supports %#v and debug dumps (kr/pretty) with a compact,
// kind-tagged rendering.
func (v Value) GoString() string {
	return fmt.Sprintf("value.Value{kind:%s, str:%q}", v.kind, v.str)
}
