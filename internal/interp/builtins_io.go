package interp

import (
	"fmt"

	"github.com/molt-lang/molt/internal/value"
)

// cmdPuts implements `puts ?-nonewline? ?string?` (spec.md §6, SPEC_FULL.md
// §8 supplemental): writes to the interpreter's configured output sink.
func cmdPuts(in *Interpreter, _ int, args []value.Value) Result {
	rest := args[1:]
	newline := true
	if len(rest) > 0 && rest[0].String() == "-nonewline" {
		newline = false
		rest = rest[1:]
	}
	if len(rest) != 1 {
		return wrongArgs("puts ?-nonewline? string")
	}
	if newline {
		fmt.Fprintln(in.output, rest[0].String())
	} else {
		fmt.Fprint(in.output, rest[0].String())
	}
	return OkEmpty
}

// cmdTime implements `time script ?count?` (SPEC_FULL.md §8 supplemental):
// runs script count times (default 1) and reports elapsed microseconds per
// iteration, matching Tcl's `time` report string.
func cmdTime(in *Interpreter, _ int, args []value.Value) Result {
	if len(args) < 2 || len(args) > 3 {
		return wrongArgs("time script ?count?")
	}
	count := int64(1)
	if len(args) == 3 {
		n, err := args[2].AsInt()
		if err != nil {
			return Errorf("expected integer but got %q", args[2].String())
		}
		count = n
	}
	if count <= 0 {
		return Ok(value.FromString("0 microseconds per iteration"))
	}
	elapsed, exc := in.timeScriptIterations(args[1], count)
	if exc != nil {
		return Err(exc)
	}
	perIter := elapsed / count
	return Ok(value.FromString(fmt.Sprintf("%d microseconds per iteration", perIter)))
}

// timeScriptIterations runs body count times, returning total elapsed
// microseconds. Split out from cmdTime so the timing source (wall clock) is
// isolated to one call site.
func (in *Interpreter) timeScriptIterations(body value.Value, count int64) (int64, *Exception) {
	start := nowMicros()
	for i := int64(0); i < count; i++ {
		if res := in.EvalBody(body); res.Exc != nil {
			return 0, res.Exc
		}
	}
	return nowMicros() - start, nil
}
