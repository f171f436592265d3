package interp

import (
	"github.com/molt-lang/molt/internal/value"
)

func registerInfoBuiltins(in *Interpreter) {
	in.AddCommand("info", cmdInfo)
}

// cmdInfo implements the `info` introspection family (spec.md §6): commands,
// procs, exists, vars, level.
func cmdInfo(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 2 {
		return wrongArgs("info option ?arg ...?")
	}
	option := args[1].String()
	rest := args[2:]
	switch option {
	case "commands":
		out := make([]value.Value, 0)
		for _, n := range in.CommandNames() {
			out = append(out, value.FromString(n))
		}
		return Ok(value.FromList(out))
	case "procs":
		out := make([]value.Value, 0)
		for _, n := range in.ProcNames() {
			out = append(out, value.FromString(n))
		}
		return Ok(value.FromList(out))
	case "vars":
		out := make([]value.Value, 0)
		for _, n := range in.VarsInScope() {
			out = append(out, value.FromString(n))
		}
		return Ok(value.FromList(out))
	case "exists":
		if len(rest) != 1 {
			return wrongArgs("info exists varName")
		}
		return Ok(value.FromBool(in.scopes.exists(rest[0].String())))
	case "level":
		return Ok(value.FromInt(int64(len(in.callStack))))
	default:
		return Errorf(`unknown or ambiguous subcommand %q`, option)
	}
}
