package interp

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/molt-lang/molt/internal/value"
)

// registerJSONBuiltins adds `dict json ...`, a thin bridge between JSON text
// and the engine's value model. JSON here is kept as an ordinary string value
// rather than decoded into a Dict: gjson and sjson are built to index into and
// patch JSON text without materializing the whole document, which is the same
// "interpret-as-you-go, nothing fully parsed until it's needed" approach the
// rest of the engine takes to scripts. A caller that wants a real Dict out of
// a JSON object still goes through `dict json get` one path at a time, the
// same way `dict get` addresses a nested structure one key at a time.
func registerJSONBuiltins(in *Interpreter) {
	in.AddCommand("dict", chainDictJSON(in))
}

// chainDictJSON wraps cmdDict so the existing `dict` command also answers a
// `json` subcommand, without teaching cmdDict itself about gjson/sjson.
func chainDictJSON(in *Interpreter) NativeFunc {
	return func(in *Interpreter, ctxID int, args []value.Value) Result {
		if len(args) >= 2 && args[1].String() == "json" {
			return cmdDictJSON(in, args[2:])
		}
		return cmdDict(in, ctxID, args)
	}
}

// cmdDictJSON implements `dict json get|set|type|exists text path ?value?`
// (SPEC_FULL.md §4.10 domain-stack supplement: JSON interop).
func cmdDictJSON(_ *Interpreter, rest []value.Value) Result {
	if len(rest) < 1 {
		return wrongArgs("dict json option ?arg ...?")
	}
	option := rest[0].String()
	rest = rest[1:]
	switch option {
	case "get":
		if len(rest) != 2 {
			return wrongArgs("dict json get jsonText path")
		}
		res := gjson.Get(rest[0].String(), rest[1].String())
		if !res.Exists() {
			return Errorf("path %q not found in JSON value", rest[1].String())
		}
		return Ok(value.FromString(res.String()))
	case "exists":
		if len(rest) != 2 {
			return wrongArgs("dict json exists jsonText path")
		}
		return Ok(value.FromBool(gjson.Get(rest[0].String(), rest[1].String()).Exists()))
	case "type":
		if len(rest) != 2 {
			return wrongArgs("dict json type jsonText path")
		}
		res := gjson.Get(rest[0].String(), rest[1].String())
		if !res.Exists() {
			return Errorf("path %q not found in JSON value", rest[1].String())
		}
		return Ok(value.FromString(res.Type.String()))
	case "set":
		if len(rest) != 3 {
			return wrongArgs("dict json set jsonText path value")
		}
		out, err := sjson.Set(rest[0].String(), rest[1].String(), rest[2].String())
		if err != nil {
			return Errorf("failed to set JSON path %q: %v", rest[1].String(), err)
		}
		return Ok(value.FromString(out))
	case "unset":
		if len(rest) != 2 {
			return wrongArgs("dict json unset jsonText path")
		}
		out, err := sjson.Delete(rest[0].String(), rest[1].String())
		if err != nil {
			return Errorf("failed to delete JSON path %q: %v", rest[1].String(), err)
		}
		return Ok(value.FromString(out))
	default:
		return Errorf(`unknown or ambiguous subcommand %q`, option)
	}
}
