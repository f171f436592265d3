package interp

import (
	"sort"

	"github.com/molt-lang/molt/internal/value"
)

func registerArrayBuiltins(in *Interpreter) {
	in.AddCommand("array", cmdArray)
}

// cmdArray implements the `array` command family (spec.md §4.4 "Arrays"):
// names, get, set, exists, size, unset.
func cmdArray(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 3 {
		return wrongArgs("array option arrayName ?arg ...?")
	}
	option := args[1].String()
	name := args[2].String()
	switch option {
	case "exists":
		_, ok := in.scopes.arrayCell(name)
		return Ok(value.FromBool(ok))
	case "size":
		cell, ok := in.scopes.arrayCell(name)
		if !ok {
			return Ok(value.FromInt(0))
		}
		return Ok(value.FromInt(int64(len(cell.array))))
	case "names":
		cell, ok := in.scopes.arrayCell(name)
		if !ok {
			return Ok(value.FromList(nil))
		}
		names := make([]string, 0, len(cell.array))
		for k := range cell.array {
			names = append(names, k)
		}
		sort.Strings(names)
		out := make([]value.Value, len(names))
		for i, n := range names {
			out[i] = value.FromString(n)
		}
		return Ok(value.FromList(out))
	case "get":
		cell, ok := in.scopes.arrayCell(name)
		if !ok {
			return Ok(value.FromList(nil))
		}
		names := make([]string, 0, len(cell.array))
		for k := range cell.array {
			names = append(names, k)
		}
		sort.Strings(names)
		out := make([]value.Value, 0, 2*len(names))
		for _, n := range names {
			out = append(out, value.FromString(n), cell.array[n])
		}
		return Ok(value.FromList(out))
	case "set":
		if len(args) != 4 {
			return wrongArgs("array set arrayName list")
		}
		items, err := args[3].AsList()
		if err != nil || len(items)%2 != 0 {
			return Errorf("list must have an even number of elements")
		}
		for i := 0; i+1 < len(items); i += 2 {
			if serr := in.scopes.setElement(name, items[i].String(), items[i+1]); serr != nil {
				return Err(serr.(*Exception))
			}
		}
		return OkEmpty
	case "unset":
		in.scopes.unset(name)
		return OkEmpty
	default:
		return Errorf(`unknown or ambiguous subcommand %q: must be exists, get, names, set, size, or unset`, option)
	}
}
