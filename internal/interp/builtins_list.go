package interp

import (
	"sort"
	"strings"

	"github.com/molt-lang/molt/internal/value"
)

func registerListBuiltins(in *Interpreter) {
	in.AddCommand("list", cmdList)
	in.AddCommand("lindex", cmdLindex)
	in.AddCommand("llength", cmdLlength)
	in.AddCommand("lappend", cmdLappend)
	in.AddCommand("lrange", cmdLrange)
	in.AddCommand("lsort", cmdLsort)
	in.AddCommand("linsert", cmdLinsert)
	in.AddCommand("lreplace", cmdLreplace)
	in.AddCommand("lsearch", cmdLsearch)
	in.AddCommand("lset", cmdLset)
	in.AddCommand("lreverse", cmdLreverse)
}

func cmdList(_ *Interpreter, _ int, args []value.Value) Result {
	return Ok(value.FromList(args[1:]))
}

// resolveIndex turns an index token into a 0-based offset, understanding
// Tcl's "end" and "end-N" forms (spec.md §4.3 supplemental list ops).
func resolveIndex(tok string, length int) (int, bool) {
	tok = strings.TrimSpace(tok)
	if tok == "end" {
		return length - 1, true
	}
	if strings.HasPrefix(tok, "end-") {
		var n int
		if _, err := sscanInt(tok[4:], &n); err == nil {
			return length - 1 - n, true
		}
		return 0, false
	}
	if strings.HasPrefix(tok, "end+") {
		var n int
		if _, err := sscanInt(tok[4:], &n); err == nil {
			return length - 1 + n, true
		}
		return 0, false
	}
	var n int
	if _, err := sscanInt(tok, &n); err != nil {
		return 0, false
	}
	return n, true
}

func sscanInt(s string, out *int) (int, error) {
	v := value.FromString(s)
	n, err := v.AsInt()
	if err != nil {
		return 0, err
	}
	*out = int(n)
	return 1, nil
}

func cmdLindex(_ *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 2 {
		return wrongArgs("lindex list ?index ...?")
	}
	cur := args[1]
	for _, idxArg := range args[2:] {
		items, err := cur.AsList()
		if err != nil {
			return Errorf("expected list but got %q", cur.String())
		}
		idx, ok := resolveIndex(idxArg.String(), len(items))
		if !ok {
			return Errorf("bad index %q", idxArg.String())
		}
		if idx < 0 || idx >= len(items) {
			return Ok(value.Empty)
		}
		cur = items[idx]
	}
	return Ok(cur)
}

func cmdLlength(_ *Interpreter, _ int, args []value.Value) Result {
	if len(args) != 2 {
		return wrongArgs("llength list")
	}
	items, err := args[1].AsList()
	if err != nil {
		return Errorf("expected list but got %q", args[1].String())
	}
	return Ok(value.FromInt(int64(len(items))))
}

func cmdLappend(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 2 {
		return wrongArgs("lappend varName ?value ...?")
	}
	name := args[1].String()
	base, index, isArray := splitArrayRef(name)
	var items []value.Value
	var cur value.Value
	var err error
	if isArray {
		cur, err = in.scopes.readElement(base, index)
	} else {
		cur, err = in.scopes.readScalar(name)
	}
	if err == nil {
		items, _ = cur.AsList()
	}
	items = append(items, args[2:]...)
	result := value.FromList(items)
	var setErr error
	if isArray {
		setErr = in.scopes.setElement(base, index, result)
	} else {
		setErr = in.scopes.setScalar(name, result)
	}
	if setErr != nil {
		return Err(setErr.(*Exception))
	}
	return Ok(result)
}

func cmdLrange(_ *Interpreter, _ int, args []value.Value) Result {
	if len(args) != 4 {
		return wrongArgs("lrange list first last")
	}
	items, err := args[1].AsList()
	if err != nil {
		return Errorf("expected list but got %q", args[1].String())
	}
	first, ok1 := resolveIndex(args[2].String(), len(items))
	last, ok2 := resolveIndex(args[3].String(), len(items))
	if !ok1 || !ok2 {
		return Errorf("bad index")
	}
	if first < 0 {
		first = 0
	}
	if last >= len(items) {
		last = len(items) - 1
	}
	if first > last {
		return Ok(value.FromList(nil))
	}
	return Ok(value.FromList(items[first : last+1]))
}

func cmdLsort(_ *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 2 {
		return wrongArgs("lsort ?-ascii|-integer|-real? ?-decreasing? ?-unique? list")
	}
	mode := "ascii"
	decreasing := false
	unique := false
	listArg := args[len(args)-1]
	for _, opt := range args[1 : len(args)-1] {
		switch opt.String() {
		case "-ascii":
			mode = "ascii"
		case "-integer":
			mode = "integer"
		case "-real":
			mode = "real"
		case "-decreasing":
			decreasing = true
		case "-increasing":
			decreasing = false
		case "-unique":
			unique = true
		}
	}
	items, err := listArg.AsList()
	if err != nil {
		return Errorf("expected list but got %q", listArg.String())
	}
	sorted := make([]value.Value, len(items))
	copy(sorted, items)
	var less func(a, b value.Value) bool
	switch mode {
	case "integer":
		less = func(a, b value.Value) bool {
			ai, _ := a.AsInt()
			bi, _ := b.AsInt()
			return ai < bi
		}
	case "real":
		less = func(a, b value.Value) bool {
			af, _ := a.AsFloat()
			bf, _ := b.AsFloat()
			return af < bf
		}
	default:
		less = func(a, b value.Value) bool { return a.String() < b.String() }
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if decreasing {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	if unique {
		out := sorted[:0]
		for i, v := range sorted {
			if i == 0 || v.String() != sorted[i-1].String() {
				out = append(out, v)
			}
		}
		sorted = out
	}
	return Ok(value.FromList(sorted))
}

func cmdLinsert(_ *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 3 {
		return wrongArgs("linsert list index ?element ...?")
	}
	items, err := args[1].AsList()
	if err != nil {
		return Errorf("expected list but got %q", args[1].String())
	}
	idx, ok := resolveIndex(args[2].String(), len(items))
	if !ok {
		return Errorf("bad index %q", args[2].String())
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(items) {
		idx = len(items)
	}
	out := make([]value.Value, 0, len(items)+len(args)-3)
	out = append(out, items[:idx]...)
	out = append(out, args[3:]...)
	out = append(out, items[idx:]...)
	return Ok(value.FromList(out))
}

func cmdLreplace(_ *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 4 {
		return wrongArgs("lreplace list first last ?element ...?")
	}
	items, err := args[1].AsList()
	if err != nil {
		return Errorf("expected list but got %q", args[1].String())
	}
	first, ok1 := resolveIndex(args[2].String(), len(items))
	last, ok2 := resolveIndex(args[3].String(), len(items))
	if !ok1 || !ok2 {
		return Errorf("bad index")
	}
	if first < 0 {
		first = 0
	}
	if last >= len(items) {
		last = len(items) - 1
	}
	if first > len(items) {
		first = len(items)
	}
	if last < first-1 {
		last = first - 1
	}
	out := make([]value.Value, 0, len(items))
	out = append(out, items[:first]...)
	out = append(out, args[4:]...)
	if last+1 <= len(items) {
		out = append(out, items[last+1:]...)
	}
	return Ok(value.FromList(out))
}

func cmdLsearch(_ *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 3 {
		return wrongArgs("lsearch ?-exact|-glob|-regexp? ?-all? list pattern")
	}
	all := false
	mode := "glob"
	listArg := args[len(args)-2]
	pattern := args[len(args)-1]
	for _, opt := range args[1 : len(args)-2] {
		switch opt.String() {
		case "-all":
			all = true
		case "-exact":
			mode = "exact"
		case "-glob":
			mode = "glob"
		case "-regexp":
			mode = "regexp"
		}
	}
	items, err := listArg.AsList()
	if err != nil {
		return Errorf("expected list but got %q", listArg.String())
	}
	var matches []int
	for i, it := range items {
		if matchPattern(mode, pattern.String(), it.String()) {
			matches = append(matches, i)
		}
	}
	if all {
		out := make([]value.Value, len(matches))
		for i, m := range matches {
			out[i] = value.FromInt(int64(m))
		}
		return Ok(value.FromList(out))
	}
	if len(matches) == 0 {
		return Ok(value.FromInt(-1))
	}
	return Ok(value.FromInt(int64(matches[0])))
}

func matchPattern(mode, pattern, s string) bool {
	switch mode {
	case "exact":
		return pattern == s
	case "regexp":
		return regexpMatch(pattern, s)
	default:
		ok, _ := globMatch(pattern, s)
		return ok
	}
}

func cmdLset(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 3 {
		return wrongArgs("lset varName ?index ...? value")
	}
	name := args[1].String()
	newVal := args[len(args)-1]
	idxArgs := args[2 : len(args)-1]

	v, err := in.scopes.readScalar(name)
	if err != nil {
		return Err(err.(*Exception))
	}
	items, lerr := v.AsList()
	if lerr != nil {
		return Errorf("expected list but got %q", v.String())
	}
	if len(idxArgs) == 0 {
		if err := in.scopes.setScalar(name, newVal); err != nil {
			return Err(err.(*Exception))
		}
		return Ok(newVal)
	}
	updated, serr := setListPath(items, idxArgs, newVal)
	if serr != nil {
		return Err(serr)
	}
	result := value.FromList(updated)
	if err := in.scopes.setScalar(name, result); err != nil {
		return Err(err.(*Exception))
	}
	return Ok(result)
}

func setListPath(items []value.Value, idxArgs []value.Value, newVal value.Value) ([]value.Value, *Exception) {
	idx, ok := resolveIndex(idxArgs[0].String(), len(items))
	if !ok || idx < 0 || idx >= len(items) {
		return nil, NewErrorf("list index out of range")
	}
	out := make([]value.Value, len(items))
	copy(out, items)
	if len(idxArgs) == 1 {
		out[idx] = newVal
		return out, nil
	}
	nested, err := out[idx].AsList()
	if err != nil {
		return nil, NewErrorf("expected list but got %q", out[idx].String())
	}
	updated, serr := setListPath(nested, idxArgs[1:], newVal)
	if serr != nil {
		return nil, serr
	}
	out[idx] = value.FromList(updated)
	return out, nil
}

func cmdLreverse(_ *Interpreter, _ int, args []value.Value) Result {
	if len(args) != 2 {
		return wrongArgs("lreverse list")
	}
	items, err := args[1].AsList()
	if err != nil {
		return Errorf("expected list but got %q", args[1].String())
	}
	out := make([]value.Value, len(items))
	for i, v := range items {
		out[len(items)-1-i] = v
	}
	return Ok(value.FromList(out))
}
