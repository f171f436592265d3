package value

import "testing"

func TestDictSetPreservesInsertionOrderOnReplace(t *testing.T) {
	d := NewDict()
	d.Set(FromString("a"), FromString("1"))
	d.Set(FromString("b"), FromString("2"))
	d.Set(FromString("a"), FromString("3"))

	keys := d.Keys()
	if len(keys) != 2 || keys[0].String() != "a" || keys[1].String() != "b" {
		t.Fatalf("Keys() = %#v, want [a b]", keys)
	}
	v, ok := d.Get(FromString("a"))
	if !ok || v.String() != "3" {
		t.Errorf(`Get("a") = (%v, %v), want ("3", true)`, v, ok)
	}
}

func TestDictDeleteRemovesFromOrder(t *testing.T) {
	d := NewDict()
	d.Set(FromString("a"), FromString("1"))
	d.Set(FromString("b"), FromString("2"))
	d.Delete(FromString("a"))

	if d.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", d.Len())
	}
	if _, ok := d.Get(FromString("a")); ok {
		t.Error(`Get("a") after Delete = ok, want not found`)
	}
}

func TestDictMergeAppendsNewKeysInOrder(t *testing.T) {
	a := NewDict()
	a.Set(FromString("x"), FromString("1"))
	b := NewDict()
	b.Set(FromString("x"), FromString("override"))
	b.Set(FromString("y"), FromString("2"))

	merged := a.Merge(b)
	keys := merged.Keys()
	if len(keys) != 2 || keys[0].String() != "x" || keys[1].String() != "y" {
		t.Fatalf("Merge keys = %#v, want [x y]", keys)
	}
	v, _ := merged.Get(FromString("x"))
	if v.String() != "override" {
		t.Errorf(`merged "x" = %q, want "override"`, v.String())
	}
}

func TestDictCloneIsIndependent(t *testing.T) {
	d := NewDict()
	d.Set(FromString("a"), FromString("1"))
	cp := d.Clone()
	cp.Set(FromString("a"), FromString("2"))

	orig, _ := d.Get(FromString("a"))
	if orig.String() != "1" {
		t.Errorf("original mutated through clone: got %q, want %q", orig.String(), "1")
	}
}

func TestDictFormatRoundTripsThroughAsDict(t *testing.T) {
	d := NewDict()
	d.Set(FromString("name"), FromString("ada"))
	d.Set(FromString("lang"), FromString("tcl-like"))

	v := FromDict(d)
	back, err := v.AsDict()
	if err != nil {
		t.Fatalf("AsDict() error = %v", err)
	}
	got, _ := back.Get(FromString("lang"))
	if got.String() != "tcl-like" {
		t.Errorf(`round-tripped "lang" = %q, want "tcl-like"`, got.String())
	}
}
