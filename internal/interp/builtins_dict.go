package interp

import (
	"github.com/molt-lang/molt/internal/value"
)

func registerDictBuiltins(in *Interpreter) {
	in.AddCommand("dict", cmdDict)
}

// cmdDict implements the `dict` command family (spec.md §4.2, §8
// supplemental): get, set, exists, keys, values, size, merge, for, remove,
// append, incr.
func cmdDict(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 2 {
		return wrongArgs("dict option ?arg ...?")
	}
	option := args[1].String()
	rest := args[2:]
	switch option {
	case "get":
		if len(rest) < 1 {
			return wrongArgs("dict get dictValue ?key ...?")
		}
		d, err := rest[0].AsDict()
		if err != nil {
			return Errorf("missing value to go with key")
		}
		cur := value.FromDict(d)
		for _, k := range rest[1:] {
			dd, derr := cur.AsDict()
			if derr != nil {
				return Errorf(`key %q not known in dictionary`, k.String())
			}
			v, ok := dd.Get(k)
			if !ok {
				return Errorf(`key %q not known in dictionary`, k.String())
			}
			cur = v
		}
		return Ok(cur)
	case "exists":
		if len(rest) < 2 {
			return wrongArgs("dict exists dictValue key ?key ...?")
		}
		d, err := rest[0].AsDict()
		if err != nil {
			return Ok(value.FromBool(false))
		}
		cur := value.FromDict(d)
		for _, k := range rest[1:] {
			dd, derr := cur.AsDict()
			if derr != nil {
				return Ok(value.FromBool(false))
			}
			v, ok := dd.Get(k)
			if !ok {
				return Ok(value.FromBool(false))
			}
			cur = v
		}
		return Ok(value.FromBool(true))
	case "keys":
		if len(rest) != 1 {
			return wrongArgs("dict keys dictValue")
		}
		d, err := rest[0].AsDict()
		if err != nil {
			return Errorf("invalid dictionary value")
		}
		return Ok(value.FromList(d.Keys()))
	case "values":
		if len(rest) != 1 {
			return wrongArgs("dict values dictValue")
		}
		d, err := rest[0].AsDict()
		if err != nil {
			return Errorf("invalid dictionary value")
		}
		return Ok(value.FromList(d.Values()))
	case "size":
		if len(rest) != 1 {
			return wrongArgs("dict size dictValue")
		}
		d, err := rest[0].AsDict()
		if err != nil {
			return Errorf("invalid dictionary value")
		}
		return Ok(value.FromInt(int64(d.Len())))
	case "set":
		if len(rest) < 3 {
			return wrongArgs("dict set varName key ?key ...? value")
		}
		return dictSetVar(in, rest[0].String(), rest[1:len(rest)-1], rest[len(rest)-1])
	case "unset", "remove":
		if option == "remove" {
			if len(rest) < 1 {
				return wrongArgs("dict remove dictValue ?key ...?")
			}
			d, err := rest[0].AsDict()
			if err != nil {
				return Errorf("invalid dictionary value")
			}
			d = d.Clone()
			for _, k := range rest[1:] {
				d.Delete(k)
			}
			return Ok(value.FromDict(d))
		}
		if len(rest) < 2 {
			return wrongArgs("dict unset varName key ?key ...?")
		}
		return dictUnsetVar(in, rest[0].String(), rest[1:])
	case "merge":
		base := value.FromDict(value.NewDict())
		if len(rest) > 0 {
			base = rest[0]
			rest = rest[1:]
		}
		d, err := base.AsDict()
		if err != nil {
			return Errorf("invalid dictionary value")
		}
		others := make([]*value.Dict, 0, len(rest))
		for _, r := range rest {
			od, oerr := r.AsDict()
			if oerr != nil {
				return Errorf("invalid dictionary value")
			}
			others = append(others, od)
		}
		return Ok(value.FromDict(d.Merge(others...)))
	case "append":
		if len(rest) < 2 {
			return wrongArgs("dict append varName key ?value ...?")
		}
		return dictAppendVar(in, rest[0].String(), rest[1], rest[2:])
	case "incr":
		if len(rest) < 2 {
			return wrongArgs("dict incr varName key ?increment?")
		}
		delta := int64(1)
		if len(rest) == 3 {
			d, err := rest[2].AsInt()
			if err != nil {
				return Errorf("expected integer but got %q", rest[2].String())
			}
			delta = d
		}
		return dictIncrVar(in, rest[0].String(), rest[1], delta)
	case "for":
		if len(rest) != 3 {
			return wrongArgs("dict for {keyVar valueVar} dictValue body")
		}
		return dictFor(in, rest[0], rest[1], rest[2])
	case "create":
		if len(rest)%2 != 0 {
			return Errorf("wrong # args: extra key with no value")
		}
		d := value.NewDict()
		for i := 0; i+1 < len(rest); i += 2 {
			d.Set(rest[i], rest[i+1])
		}
		return Ok(value.FromDict(d))
	default:
		return Errorf(`unknown or ambiguous subcommand %q`, option)
	}
}

func dictSetVar(in *Interpreter, varName string, keys []value.Value, val value.Value) Result {
	d := value.NewDict()
	if v, err := in.scopes.readScalar(varName); err == nil {
		if existing, derr := v.AsDict(); derr == nil {
			d = existing
		}
	}
	if setErr := dictSetPath(d, keys, val); setErr != nil {
		return Err(setErr)
	}
	result := value.FromDict(d)
	if err := in.scopes.setScalar(varName, result); err != nil {
		return Err(err.(*Exception))
	}
	return Ok(result)
}

func dictSetPath(d *value.Dict, keys []value.Value, val value.Value) *Exception {
	if len(keys) == 1 {
		d.Set(keys[0], val)
		return nil
	}
	nested := value.NewDict()
	if existing, ok := d.Get(keys[0]); ok {
		if nd, err := existing.AsDict(); err == nil {
			nested = nd
		}
	}
	if err := dictSetPath(nested, keys[1:], val); err != nil {
		return err
	}
	d.Set(keys[0], value.FromDict(nested))
	return nil
}

func dictUnsetVar(in *Interpreter, varName string, keys []value.Value) Result {
	v, err := in.scopes.readScalar(varName)
	if err != nil {
		return Err(err.(*Exception))
	}
	d, derr := v.AsDict()
	if derr != nil {
		return Errorf("invalid dictionary value")
	}
	if len(keys) == 1 {
		d.Delete(keys[0])
	} else {
		nested, ok := d.Get(keys[0])
		if ok {
			if nd, nerr := nested.AsDict(); nerr == nil {
				nd.Delete(keys[len(keys)-1])
				d.Set(keys[0], value.FromDict(nd))
			}
		}
	}
	result := value.FromDict(d)
	if serr := in.scopes.setScalar(varName, result); serr != nil {
		return Err(serr.(*Exception))
	}
	return Ok(result)
}

func dictAppendVar(in *Interpreter, varName string, key value.Value, extra []value.Value) Result {
	d := value.NewDict()
	if v, err := in.scopes.readScalar(varName); err == nil {
		if existing, derr := v.AsDict(); derr == nil {
			d = existing
		}
	}
	cur := ""
	if v, ok := d.Get(key); ok {
		cur = v.String()
	}
	for _, e := range extra {
		cur += e.String()
	}
	d.Set(key, value.FromString(cur))
	result := value.FromDict(d)
	if err := in.scopes.setScalar(varName, result); err != nil {
		return Err(err.(*Exception))
	}
	return Ok(result)
}

func dictIncrVar(in *Interpreter, varName string, key value.Value, delta int64) Result {
	d := value.NewDict()
	if v, err := in.scopes.readScalar(varName); err == nil {
		if existing, derr := v.AsDict(); derr == nil {
			d = existing
		}
	}
	cur := int64(0)
	if v, ok := d.Get(key); ok {
		n, nerr := v.AsInt()
		if nerr != nil {
			return Errorf("expected integer but got %q", v.String())
		}
		cur = n
	}
	d.Set(key, value.FromInt(cur+delta))
	result := value.FromDict(d)
	if err := in.scopes.setScalar(varName, result); err != nil {
		return Err(err.(*Exception))
	}
	return Ok(result)
}

func dictFor(in *Interpreter, varsArg, dictArg, body value.Value) Result {
	vars, verr := varsArg.AsList()
	if verr != nil || len(vars) != 2 {
		return Errorf("must have exactly two variable names")
	}
	d, derr := dictArg.AsDict()
	if derr != nil {
		return Errorf("invalid dictionary value")
	}
	last := value.Empty
	var result Result
	d.ForEach(func(k, v value.Value) {
		if result.Exc != nil {
			return
		}
		_ = in.scopes.setScalar(vars[0].String(), k)
		_ = in.scopes.setScalar(vars[1].String(), v)
		res := in.EvalBody(body)
		if res.Exc != nil {
			switch res.Exc.Code {
			case CodeBreak:
				result = Ok(last)
				result.Exc = &Exception{Code: CodeBreak}
			case CodeContinue:
			default:
				result = res
			}
			return
		}
		last = res.Value
	})
	if result.Exc != nil {
		if result.Exc.Code == CodeBreak {
			return Ok(last)
		}
		return result
	}
	return Ok(last)
}
