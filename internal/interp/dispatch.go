package interp

import (
	"strings"

	"github.com/molt-lang/molt/internal/value"
)

// dispatch resolves argv[0] to a command entry and invokes it, per spec.md
// §4.5 "Dispatch". argv always has at least one element.
func (in *Interpreter) dispatch(argv []value.Value) Result {
	name := argv[0].String()
	entry, ok := in.reg.lookup(name)
	if !ok {
		return Errorf(`invalid command name %q`, name)
	}
	switch {
	case entry.native != nil:
		return entry.native(in, entry.ctxID, argv)
	case entry.proc != nil:
		// Dispatch copies the *Proc pointer before invocation, so a command
		// that redefines itself mid-call does not disturb the running call
		// (spec.md §9).
		return in.callProc(entry.proc, argv)
	default:
		return Errorf(`invalid command name %q`, name)
	}
}

// callProc binds argv's positional arguments against p's formal parameters,
// executes the body in a fresh scope, and applies the procedure-call
// boundary's Exception conversion (spec.md §4.5, §4.7).
func (in *Interpreter) callProc(p *Proc, argv []value.Value) Result {
	provided := argv[1:]
	nFixed := len(p.Args)
	if p.Variadic {
		nFixed--
	}
	if len(provided) < nFixed && !hasDefaultsFrom(p.Args, len(provided)) {
		return Errorf(`wrong # args: should be "%s"`, procUsage(p))
	}
	if !p.Variadic && len(provided) > len(p.Args) {
		return Errorf(`wrong # args: should be "%s"`, procUsage(p))
	}

	in.scopes.push()
	in.callStack = append(in.callStack, p.Name)
	defer func() {
		in.callStack = in.callStack[:len(in.callStack)-1]
		in.scopes.pop()
	}()

	for i, spec := range p.Args {
		if p.Variadic && i == len(p.Args)-1 {
			var rest []value.Value
			if i < len(provided) {
				rest = provided[i:]
			}
			_ = in.scopes.setScalar(spec.Name, value.FromList(rest))
			continue
		}
		switch {
		case i < len(provided):
			_ = in.scopes.setScalar(spec.Name, provided[i])
		case spec.Default != nil:
			_ = in.scopes.setScalar(spec.Name, *spec.Default)
		default:
			return Errorf(`wrong # args: should be "%s"`, procUsage(p))
		}
	}

	res := in.EvalBody(p.Body)
	return in.crossBoundary(res)
}

// hasDefaultsFrom reports whether every formal parameter of p from index
// start onward (the ones argv didn't supply) carries a default, so a short
// argument list is still acceptable.
func hasDefaultsFrom(args []ArgSpec, start int) bool {
	for i := start; i < len(args); i++ {
		if args[i].Default == nil {
			return false
		}
	}
	return true
}

func procUsage(p *Proc) string {
	var sb strings.Builder
	sb.WriteString(p.Name)
	for i, a := range p.Args {
		sb.WriteByte(' ')
		switch {
		case p.Variadic && i == len(p.Args)-1:
			sb.WriteString("?" + a.Name + " ...?")
		case a.Default != nil:
			sb.WriteString("?" + a.Name + "?")
		default:
			sb.WriteString(a.Name)
		}
	}
	return sb.String()
}
