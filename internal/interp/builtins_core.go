package interp

import (
	"strconv"

	"github.com/molt-lang/molt/internal/value"
)

// registerBuiltins installs the full built-in command set (spec.md §1
// "Explicitly in scope", §8 "Supplemental features"). Called by New when
// the caller requests a full interpreter rather than a bare one.
func (in *Interpreter) registerBuiltins() {
	in.AddCommand("set", cmdSet)
	in.AddCommand("unset", cmdUnset)
	in.AddCommand("incr", cmdIncr)
	in.AddCommand("append", cmdAppend)
	in.AddCommand("global", cmdGlobal)
	in.AddCommand("upvar", cmdUpvar)
	in.AddCommand("rename", cmdRename)
	in.AddCommand("proc", cmdProc)
	in.AddCommand("apply", cmdApply)
	in.AddCommand("return", cmdReturn)
	in.AddCommand("break", cmdBreak)
	in.AddCommand("continue", cmdContinue)
	in.AddCommand("catch", cmdCatch)
	in.AddCommand("throw", cmdThrow)
	in.AddCommand("error", cmdError)
	in.AddCommand("if", cmdIf)
	in.AddCommand("while", cmdWhile)
	in.AddCommand("for", cmdFor)
	in.AddCommand("foreach", cmdForeach)
	in.AddCommand("eval", cmdEval)
	in.AddCommand("uplevel", cmdUplevel)

	registerListBuiltins(in)
	registerArrayBuiltins(in)
	registerDictBuiltins(in)
	registerJSONBuiltins(in)
	registerStringBuiltins(in)
	registerInfoBuiltins(in)
	registerExprBuiltins(in)
	in.AddCommand("puts", cmdPuts)
	in.AddCommand("time", cmdTime)
}

func wrongArgs(usage string) Result {
	return Errorf(`wrong # args: should be "%s"`, usage)
}

// cmdSet implements `set varName ?value?` (spec.md §4.4), including the
// `varName(index)` array-element form of varName.
func cmdSet(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 2 || len(args) > 3 {
		return wrongArgs("set varName ?newValue?")
	}
	name := args[1].String()
	base, index, isArray := splitArrayRef(name)
	if len(args) == 2 {
		var v value.Value
		var err error
		if isArray {
			v, err = in.scopes.readElement(base, index)
		} else {
			v, err = in.scopes.readScalar(name)
		}
		if err != nil {
			return Err(err.(*Exception))
		}
		return Ok(v)
	}
	var err error
	if isArray {
		err = in.scopes.setElement(base, index, args[2])
	} else {
		err = in.scopes.setScalar(name, args[2])
	}
	if err != nil {
		return Err(err.(*Exception))
	}
	return Ok(args[2])
}

// cmdUnset implements `unset ?-nocomplain? ?--? varName ...`.
func cmdUnset(in *Interpreter, _ int, args []value.Value) Result {
	names := args[1:]
	for i, n := range names {
		if n.String() == "-nocomplain" || n.String() == "--" {
			continue
		}
		_ = i
		if base, index, isArray := splitArrayRef(n.String()); isArray {
			in.scopes.unsetElement(base, index)
			continue
		}
		in.scopes.unset(n.String())
	}
	return OkEmpty
}

// cmdIncr implements `incr varName ?increment?` (spec.md §8 supplemental).
func cmdIncr(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 2 || len(args) > 3 {
		return wrongArgs("incr varName ?increment?")
	}
	delta := int64(1)
	if len(args) == 3 {
		d, err := args[2].AsInt()
		if err != nil {
			return Errorf("expected integer but got %q", args[2].String())
		}
		delta = d
	}
	name := args[1].String()
	base, index, isArray := splitArrayRef(name)
	cur := int64(0)
	var readErr error
	var curVal value.Value
	if isArray {
		curVal, readErr = in.scopes.readElement(base, index)
	} else {
		curVal, readErr = in.scopes.readScalar(name)
	}
	if readErr == nil {
		n, cerr := curVal.AsInt()
		if cerr != nil {
			return Errorf("expected integer but got %q", curVal.String())
		}
		cur = n
	}
	next := value.FromInt(cur + delta)
	var setErr error
	if isArray {
		setErr = in.scopes.setElement(base, index, next)
	} else {
		setErr = in.scopes.setScalar(name, next)
	}
	if setErr != nil {
		return Err(setErr.(*Exception))
	}
	return Ok(next)
}

// cmdAppend implements `append varName ?value value ...?` (spec.md §8
// supplemental): string-concatenates onto a variable, creating it if unset.
func cmdAppend(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 2 {
		return wrongArgs("append varName ?value ...?")
	}
	name := args[1].String()
	base, index, isArray := splitArrayRef(name)
	cur := ""
	var v value.Value
	var err error
	if isArray {
		v, err = in.scopes.readElement(base, index)
	} else {
		v, err = in.scopes.readScalar(name)
	}
	if err == nil {
		cur = v.String()
	}
	for _, a := range args[2:] {
		cur += a.String()
	}
	result := value.FromString(cur)
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

// cmdGlobal implements `global varName ...`: links each name into the
// current scope from the global frame (spec.md §4.4 "global").
func cmdGlobal(in *Interpreter, _ int, args []value.Value) Result {
	for _, a := range args[1:] {
		name := a.String()
		in.scopes.link(name, 0, name)
	}
	return OkEmpty
}

// cmdUpvar implements `upvar ?level? otherVar localVar ?otherVar localVar ...?`
// (spec.md §4.4 "upvar"). level defaults to 1 (the caller's frame); "#0"
// addresses the global frame absolutely.
func cmdUpvar(in *Interpreter, _ int, args []value.Value) Result {
	rest := args[1:]
	level := 1
	levelSpecified := false
	absolute := false
	if len(rest) > 0 && len(rest)%2 == 1 {
		lv, ok := parseLevel(rest[0].String())
		if !ok {
			return Errorf("bad level %q", rest[0].String())
		}
		level = lv
		levelSpecified = true
		absolute = rest[0].String()[0] == '#'
		rest = rest[1:]
	}
	_ = levelSpecified
	if len(rest) == 0 || len(rest)%2 != 0 {
		return wrongArgs("upvar ?level? otherVar localVar ?otherVar localVar ...?")
	}
	targetScope := in.scopes.currentIndex() - level
	if absolute {
		targetScope = level
	}
	if targetScope < 0 {
		targetScope = 0
	}
	if targetScope > in.scopes.currentIndex() {
		return Errorf("bad level \"#%d\"", level)
	}
	for i := 0; i < len(rest); i += 2 {
		other := rest[i].String()
		local := rest[i+1].String()
		in.scopes.link(local, targetScope, other)
	}
	return OkEmpty
}

// parseLevel parses an upvar/uplevel level spec: a bare integer (relative to
// the caller) or "#N" (absolute, 0 == global).
func parseLevel(s string) (int, bool) {
	if len(s) > 0 && s[0] == '#' {
		n, err := strconv.Atoi(s[1:])
		if err != nil {
			return 0, false
		}
		return n, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func cmdRename(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) != 3 {
		return wrongArgs("rename oldName newName")
	}
	newName := args[2].String()
	if newName == "" {
		newName = ""
	}
	if err := in.Rename(args[1].String(), newName); err != nil {
		return Err(err.(*Exception))
	}
	return OkEmpty
}

// cmdProc implements `proc name argList body` (spec.md §4.5). The last
// formal parameter named "args" makes the procedure variadic.
func cmdProc(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) != 4 {
		return wrongArgs("proc name args body")
	}
	name := args[1].String()
	formals, err := args[2].AsList()
	if err != nil {
		return Errorf("invalid argument list")
	}
	specs := make([]ArgSpec, 0, len(formals))
	variadic := false
	for i, f := range formals {
		parts, _ := f.AsList()
		var spec ArgSpec
		if len(parts) >= 2 {
			spec.Name = parts[0].String()
			def := parts[1]
			spec.Default = &def
		} else {
			spec.Name = f.String()
		}
		if spec.Name == "args" && i == len(formals)-1 {
			variadic = true
		}
		specs = append(specs, spec)
	}
	in.AddProc(name, specs, variadic, args[3])
	return OkEmpty
}

// cmdApply implements `apply {argList body} ?arg ...?` (SPEC_FULL.md §8):
// an anonymous, one-shot procedure call.
func cmdApply(in *Interpreter, ctx int, args []value.Value) Result {
	if len(args) < 2 {
		return wrongArgs("apply {argList body} ?arg ...?")
	}
	lambda, err := args[1].AsList()
	if err != nil || len(lambda) != 2 {
		return Errorf("can't interpret %q as anonymous function", args[1].String())
	}
	formals, ferr := lambda[0].AsList()
	if ferr != nil {
		return Errorf("invalid argument list")
	}
	specs := make([]ArgSpec, 0, len(formals))
	variadic := false
	for i, f := range formals {
		parts, _ := f.AsList()
		var spec ArgSpec
		if len(parts) >= 2 {
			spec.Name = parts[0].String()
			def := parts[1]
			spec.Default = &def
		} else {
			spec.Name = f.String()
		}
		if spec.Name == "args" && i == len(formals)-1 {
			variadic = true
		}
		specs = append(specs, spec)
	}
	p := &Proc{Name: "apply", Args: specs, Variadic: variadic, Body: lambda[1]}
	callArgs := append([]value.Value{value.FromString("apply")}, args[2:]...)
	return in.callProc(p, callArgs)
}

// cmdReturn implements `return ?-code code? ?-errorcode code? ?-level n? ?value?`
// (spec.md §4.7).
func cmdReturn(in *Interpreter, _ int, args []value.Value) Result {
	rest := args[1:]
	level := 1
	code := CodeOk
	var errorCode value.Value
	haveErrorCode := false
	val := value.Empty
	i := 0
	for i < len(rest) {
		switch rest[i].String() {
		case "-code":
			if i+1 >= len(rest) {
				return wrongArgs("return ?-code code? ?-level n? ?value?")
			}
			code = parseReturnCode(rest[i+1].String())
			i += 2
		case "-level":
			if i+1 >= len(rest) {
				return wrongArgs("return ?-code code? ?-level n? ?value?")
			}
			n, err := rest[i+1].AsInt()
			if err != nil {
				return Errorf("bad level %q", rest[i+1].String())
			}
			level = int(n)
			i += 2
		case "-errorcode":
			if i+1 >= len(rest) {
				return wrongArgs("return ?-code code? ?-level n? ?value?")
			}
			errorCode = rest[i+1]
			haveErrorCode = true
			i += 2
		default:
			val = rest[i]
			i++
		}
	}
	if level <= 0 {
		// `-level 0` takes effect immediately rather than unwinding to the
		// next procedure boundary (spec.md §4.7).
		return terminalResult(code, val, errorCode, haveErrorCode)
	}
	exc := &Exception{Code: CodeReturn, RawCode: int(code), Level: level, Value: val}
	if haveErrorCode {
		exc.ErrorCode = errorCode
	}
	return Err(exc)
}

// terminalResult builds the Result that a `return` with the given raw code
// produces once its level has reached zero, whether immediately (`-level
// 0`) or after unwinding through crossBoundary.
func terminalResult(code Code, val, errorCode value.Value, haveErrorCode bool) Result {
	switch code {
	case CodeOk:
		return Ok(val)
	case CodeError:
		exc := NewError(val.String())
		if haveErrorCode {
			exc.ErrorCode = errorCode
		}
		return Err(exc)
	case CodeBreak:
		return Err(NewBreak())
	case CodeContinue:
		return Err(NewContinue())
	default:
		return Err(&Exception{Code: CodeUser, RawCode: int(code), Value: val})
	}
}

func parseReturnCode(s string) Code {
	switch s {
	case "ok":
		return CodeOk
	case "error":
		return CodeError
	case "return":
		return CodeReturn
	case "break":
		return CodeBreak
	case "continue":
		return CodeContinue
	default:
		if n, err := strconv.Atoi(s); err == nil {
			return Code(n)
		}
		return CodeOk
	}
}

func cmdBreak(_ *Interpreter, _ int, args []value.Value) Result {
	if len(args) != 1 {
		return wrongArgs("break")
	}
	return Err(NewBreak())
}

func cmdContinue(_ *Interpreter, _ int, args []value.Value) Result {
	if len(args) != 1 {
		return wrongArgs("continue")
	}
	return Err(NewContinue())
}

// cmdCatch implements `catch body ?resultVar? ?optionsVar?` (spec.md §4.7):
// it never itself raises an error — it reports the body's outcome as an
// integer code, optionally storing the value and an options dict.
func cmdCatch(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 2 || len(args) > 4 {
		return wrongArgs("catch body ?resultVar? ?optionsVar?")
	}
	res := in.EvalBody(args[1])
	var code Code
	var level int
	var resultVal value.Value
	var errorInfo, errorCode value.Value
	if res.Exc == nil {
		code = CodeOk
		resultVal = res.Value
	} else {
		exc := res.Exc
		code = exc.Code
		if code == CodeUser {
			code = Code(exc.RawCode)
		}
		level = exc.Level
		resultVal = exc.Value
		errorInfo = value.FromString(exc.ErrorInfo)
		errorCode = exc.ErrorCode
		if exc.Code == CodeError {
			in.lastErrorInfo = exc.ErrorInfo
			if !errorCode.IsEmpty() {
				in.lastErrorCode = errorCode
			}
		}
	}
	if len(args) >= 3 {
		if err := in.scopes.setScalar(args[2].String(), resultVal); err != nil {
			return Err(err.(*Exception))
		}
	}
	if len(args) == 4 {
		d := value.NewDict()
		d.Set(value.FromString("-code"), value.FromInt(int64(code)))
		d.Set(value.FromString("-level"), value.FromInt(int64(level)))
		d.Set(value.FromString("-errorinfo"), errorInfo)
		d.Set(value.FromString("-errorcode"), errorCode)
		if err := in.scopes.setScalar(args[3].String(), value.FromDict(d)); err != nil {
			return Err(err.(*Exception))
		}
	}
	return Ok(value.FromInt(int64(code)))
}

// cmdThrow implements `throw code message` (SPEC_FULL.md §8): a structured
// alternative to `error` that sets the error-code to code directly.
func cmdThrow(_ *Interpreter, _ int, args []value.Value) Result {
	if len(args) != 3 {
		return wrongArgs("throw code message")
	}
	exc := NewError(args[2].String())
	exc.ErrorCode = args[1]
	return Err(exc)
}

// cmdError implements `error message ?errorInfo? ?errorCode?` (spec.md §4.7).
func cmdError(_ *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 2 || len(args) > 4 {
		return wrongArgs("error message ?errorInfo? ?errorCode?")
	}
	exc := NewError(args[1].String())
	if len(args) >= 3 && args[2].String() != "" {
		exc.ErrorInfo = args[2].String()
	}
	if len(args) == 4 {
		exc.ErrorCode = args[3]
	}
	return Err(exc)
}

// cmdIf implements `if cond then? body ?elseif cond then? body ...? ?else? ?body?`.
func cmdIf(in *Interpreter, _ int, args []value.Value) Result {
	rest := args[1:]
	for {
		if len(rest) == 0 {
			return wrongArgs("if cond body ?elseif cond body ...? ?else body?")
		}
		cond := rest[0]
		rest = rest[1:]
		if len(rest) > 0 && rest[0].String() == "then" {
			rest = rest[1:]
		}
		if len(rest) == 0 {
			return wrongArgs("if cond body")
		}
		body := rest[0]
		rest = rest[1:]

		ok, err := in.evalExprBool(cond.String())
		if err != nil {
			return Err(err)
		}
		if ok {
			return in.EvalBody(body)
		}
		if len(rest) == 0 {
			return OkEmpty
		}
		switch rest[0].String() {
		case "elseif":
			rest = rest[1:]
			continue
		case "else":
			rest = rest[1:]
			if len(rest) != 1 {
				return wrongArgs("if cond body ... else body")
			}
			return in.EvalBody(rest[0])
		default:
			return wrongArgs("if cond body ?elseif cond body ...? ?else body?")
		}
	}
}

// cmdWhile implements `while cond body` (spec.md §4.5): break/continue are
// caught here and never escape the loop.
func cmdWhile(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) != 3 {
		return wrongArgs("while cond body")
	}
	cond, body := args[1], args[2]
	last := value.Empty
	for {
		ok, err := in.evalExprBool(cond.String())
		if err != nil {
			return Err(err)
		}
		if !ok {
			return Ok(last)
		}
		res := in.EvalBody(body)
		if res.Exc != nil {
			switch res.Exc.Code {
			case CodeBreak:
				return Ok(last)
			case CodeContinue:
				continue
			default:
				return res
			}
		}
		last = res.Value
	}
}

// cmdFor implements `for start cond next body`.
func cmdFor(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) != 5 {
		return wrongArgs("for start cond next body")
	}
	start, cond, next, body := args[1], args[2], args[3], args[4]
	if res := in.EvalBody(start); res.Exc != nil {
		return res
	}
	last := value.Empty
	for {
		ok, err := in.evalExprBool(cond.String())
		if err != nil {
			return Err(err)
		}
		if !ok {
			return Ok(last)
		}
		res := in.EvalBody(body)
		if res.Exc != nil {
			switch res.Exc.Code {
			case CodeBreak:
				return Ok(last)
			case CodeContinue:
				// fall through to next-step below
			default:
				return res
			}
		} else {
			last = res.Value
		}
		if res.Exc == nil || res.Exc.Code == CodeContinue {
			if nres := in.EvalBody(next); nres.Exc != nil {
				// A break in the next-script is a quiet exit from the loop
				// (spec.md §4.8 / §9 Open Question), not an error: `for` is
				// itself a loop command, so `next` runs inside its scope.
				if nres.Exc.Code == CodeBreak {
					return Ok(last)
				}
				return nres
			}
		}
	}
}

// cmdForeach implements `foreach varList list ?varList list ...? body`
// (spec.md §4.5): with multiple varList/list pairs, all lists are walked in
// lockstep until the longest list is used up; variables whose list has run
// out are set to the empty string.
func cmdForeach(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 4 || len(args)%2 != 0 {
		return wrongArgs("foreach varList list ?varList list ...? body")
	}
	nPairs := (len(args) - 2) / 2
	body := args[len(args)-1]

	type pair struct {
		vars  []value.Value
		items []value.Value
	}
	pairs := make([]pair, nPairs)
	maxRounds := 0
	for i := 0; i < nPairs; i++ {
		vars, err := args[1+2*i].AsList()
		if err != nil || len(vars) == 0 {
			return Errorf("invalid foreach variable list")
		}
		items, ierr := args[2+2*i].AsList()
		if ierr != nil {
			return Errorf("invalid foreach list")
		}
		pairs[i] = pair{vars: vars, items: items}
		rounds := (len(items) + len(vars) - 1) / len(vars)
		if rounds > maxRounds {
			maxRounds = rounds
		}
	}

	last := value.Empty
	for round := 0; round < maxRounds; round++ {
		for _, p := range pairs {
			for vi, v := range p.vars {
				idx := round*len(p.vars) + vi
				item := value.Empty
				if idx < len(p.items) {
					item = p.items[idx]
				}
				if err := in.scopes.setScalar(v.String(), item); err != nil {
					return Err(err.(*Exception))
				}
			}
		}
		res := in.EvalBody(body)
		if res.Exc != nil {
			switch res.Exc.Code {
			case CodeBreak:
				return Ok(last)
			case CodeContinue:
				continue
			default:
				return res
			}
		}
		last = res.Value
	}
	return Ok(last)
}

// cmdEval implements `eval arg ?arg ...?`: concatenates its arguments as
// words (spec.md §6 "eval" convenience form) and evaluates the result.
func cmdEval(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 2 {
		return wrongArgs("eval arg ?arg ...?")
	}
	script := args[1].String()
	for _, a := range args[2:] {
		script += " " + a.String()
	}
	return in.Eval(script)
}

// cmdUplevel implements `uplevel ?level? arg ?arg ...?`: evaluates in the
// scope `level` frames up the stack rather than the current one.
func cmdUplevel(in *Interpreter, _ int, args []value.Value) Result {
	rest := args[1:]
	if len(rest) == 0 {
		return wrongArgs("uplevel ?level? arg ?arg ...?")
	}
	level := 1
	absolute := false
	if lv, ok := parseLevel(rest[0].String()); ok && len(rest) > 1 {
		level = lv
		absolute = rest[0].String()[0] == '#'
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return wrongArgs("uplevel ?level? arg ?arg ...?")
	}
	script := rest[0].String()
	for _, a := range rest[1:] {
		script += " " + a.String()
	}
	target := in.scopes.currentIndex() - level
	if absolute {
		target = level
	}
	if target < 0 {
		target = 0
	}
	if target > in.scopes.currentIndex() {
		return Errorf("bad level \"#%d\"", level)
	}
	saved := in.scopes.frames
	in.scopes.frames = in.scopes.frames[:target+1]
	res := in.Eval(script)
	in.scopes.frames = saved
	return res
}
