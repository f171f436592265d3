package interp

import (
	"strings"

	"github.com/molt-lang/molt/internal/value"
)

// splitArrayRef recognizes the trailing `(index)` syntax Tcl uses to name an
// array element wherever a bare variable name is otherwise expected, e.g. the
// `varName` argument of `set`, `incr`, `append`, `lappend`, and `unset`. The
// parser applies the same split for `$name(index)` substitution in
// scanVarSubst; this is the equivalent for a literal word argument, where the
// index text has already been fully substituted by the time it reaches here.
func splitArrayRef(name string) (base, index string, isArray bool) {
	open := strings.IndexByte(name, '(')
	if open <= 0 || name[len(name)-1] != ')' {
		return name, "", false
	}
	return name[:open], name[open+1 : len(name)-1], true
}

type cellKind int

const (
	cellScalar cellKind = iota
	cellArray
	cellLink
)

// variable is a named binding inside a Scope: either an owned scalar cell,
// an owned array cell (name(index) -> Value), or a link record pointing at
// another scope's variable by index and name (spec.md §3 "Variable", §4.4).
type variable struct {
	kind  cellKind
	value value.Value
	array map[string]value.Value

	linkScope int
	linkName  string
}

// Scope is a single frame of variable bindings (spec.md §3 "Scope").
type Scope struct {
	vars map[string]*variable
}

func newScope() *Scope {
	return &Scope{vars: make(map[string]*variable)}
}

// scopes is the interpreter's non-empty scope stack; index 0 is global.
type scopes struct {
	frames []*Scope
}

func newScopes() *scopes {
	return &scopes{frames: []*Scope{newScope()}}
}

func (s *scopes) global() *Scope {
	return s.frames[0]
}

func (s *scopes) current() *Scope {
	return s.frames[len(s.frames)-1]
}

func (s *scopes) currentIndex() int {
	return len(s.frames) - 1
}

func (s *scopes) push() {
	s.frames = append(s.frames, newScope())
}

func (s *scopes) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *scopes) depth() int {
	return len(s.frames)
}

const maxLinkChain = 64

// resolve follows link cells starting at (scopeIdx, name) until it reaches an
// owning cell, returning that cell and the scope index that owns it. Links
// are resolved fresh on every access per spec.md §9 ("do not try to cache
// pointers into other scopes; they would be invalidated by scope pop").
func (s *scopes) resolve(scopeIdx int, name string) (*variable, int, bool) {
	for i := 0; i < maxLinkChain; i++ {
		frame := s.frames[scopeIdx]
		v, ok := frame.vars[name]
		if !ok {
			return nil, 0, false
		}
		if v.kind != cellLink {
			return v, scopeIdx, true
		}
		scopeIdx, name = v.linkScope, v.linkName
	}
	return nil, 0, false
}

// readScalar reads a scalar variable from the current scope.
func (s *scopes) readScalar(name string) (value.Value, error) {
	v, _, ok := s.resolve(s.currentIndex(), name)
	if !ok {
		return value.Empty, &Exception{Code: CodeError, Value: value.FromString(
			`can't read "` + name + `": no such variable`)}
	}
	if v.kind == cellArray {
		return value.Empty, &Exception{Code: CodeError, Value: value.FromString(
			`can't read "` + name + `": variable is array`)}
	}
	return v.value, nil
}

// readElement reads an array element.
func (s *scopes) readElement(name, index string) (value.Value, error) {
	v, _, ok := s.resolve(s.currentIndex(), name)
	if !ok {
		return value.Empty, &Exception{Code: CodeError, Value: value.FromString(
			`can't read "` + name + `(` + index + `)": no such variable`)}
	}
	if v.kind != cellArray {
		return value.Empty, &Exception{Code: CodeError, Value: value.FromString(
			`can't read "` + name + `(` + index + `)": variable isn't array`)}
	}
	elem, ok := v.array[index]
	if !ok {
		return value.Empty, &Exception{Code: CodeError, Value: value.FromString(
			`can't read "` + name + `(` + index + `)": no such element in array`)}
	}
	return elem, nil
}

// setScalar creates or replaces a scalar variable, following any existing
// link so `upvar`/`global` stay transparent.
func (s *scopes) setScalar(name string, v value.Value) error {
	idx := s.currentIndex()
	cell, ok := s.current().vars[name]
	targetScope, targetName := idx, name
	if ok && cell.kind == cellLink {
		resolved, _, found := s.resolve(idx, name)
		if found {
			if resolved.kind == cellArray {
				return arrayAssignError(name)
			}
			resolved.value = v
			return nil
		}
		targetScope, targetName = cell.linkScope, cell.linkName
	}
	frame := s.frames[targetScope]
	existing, ok := frame.vars[targetName]
	if ok && existing.kind == cellArray {
		return arrayAssignError(name)
	}
	frame.vars[targetName] = &variable{kind: cellScalar, value: v}
	return nil
}

func arrayAssignError(name string) error {
	return &Exception{Code: CodeError, Value: value.FromString(
		`can't set "` + name + `": variable is array`)}
}

// setElement creates the array if necessary and sets one element.
func (s *scopes) setElement(name, index string, v value.Value) error {
	idx := s.currentIndex()
	cell, ok := s.current().vars[name]
	targetScope, targetName := idx, name
	if ok && cell.kind == cellLink {
		targetScope, targetName = cell.linkScope, cell.linkName
	}
	frame := s.frames[targetScope]
	arr, ok := frame.vars[targetName]
	if !ok {
		arr = &variable{kind: cellArray, array: make(map[string]value.Value)}
		frame.vars[targetName] = arr
	}
	if arr.kind == cellLink {
		// A link chain ending in an array: resolve fully.
		resolved, _, found := s.resolve(targetScope, targetName)
		if !found {
			return &Exception{Code: CodeError, Value: value.FromString(`no such variable: ` + name)}
		}
		arr = resolved
	}
	if arr.kind == cellScalar {
		return &Exception{Code: CodeError, Value: value.FromString(
			`can't set "` + name + `(` + index + `)": variable isn't array`)}
	}
	if arr.array == nil {
		arr.array = make(map[string]value.Value)
	}
	arr.array[index] = v
	return nil
}

// unset removes a scalar/array variable entirely. Missing targets are
// silently ignored per spec.md §4.4.
func (s *scopes) unset(name string) {
	delete(s.current().vars, name)
}

// unsetElement removes one array element, silently ignoring a missing one.
func (s *scopes) unsetElement(name, index string) {
	v, _, ok := s.resolve(s.currentIndex(), name)
	if !ok || v.kind != cellArray {
		return
	}
	delete(v.array, index)
}

// link binds localName in the current scope to a variable living level
// frames toward the bottom of the stack (0 == global after translating
// `upvar #0`/`global`'s absolute-depth cases at the call site).
func (s *scopes) link(localName string, targetScopeIdx int, targetName string) {
	s.current().vars[localName] = &variable{
		kind:      cellLink,
		linkScope: targetScopeIdx,
		linkName:  targetName,
	}
}

// names returns every variable name visible (bound, not necessarily
// initialized through an array element) in the current scope.
func (s *scopes) names() []string {
	frame := s.current()
	out := make([]string, 0, len(frame.vars))
	for name := range frame.vars {
		out = append(out, name)
	}
	return out
}

// arrayCell fetches (without creating) the array cell for name, resolving
// links, for use by the `array` built-in family.
func (s *scopes) arrayCell(name string) (*variable, bool) {
	v, _, ok := s.resolve(s.currentIndex(), name)
	if !ok || v.kind != cellArray {
		return nil, false
	}
	return v, true
}

// ensureArray fetches or creates the array cell for name in the current
// scope (resolving an existing link, but creating locally if unbound).
func (s *scopes) ensureArray(name string) (*variable, error) {
	idx := s.currentIndex()
	cell, ok := s.current().vars[name]
	if ok && cell.kind == cellLink {
		resolved, _, found := s.resolve(idx, name)
		if found {
			if resolved.kind == cellScalar {
				return nil, &Exception{Code: CodeError, Value: value.FromString(
					`can't use "` + name + `" as array: variable isn't array`)}
			}
			if resolved.array == nil {
				resolved.array = make(map[string]value.Value)
				resolved.kind = cellArray
			}
			return resolved, nil
		}
	}
	if ok {
		if cell.kind == cellScalar {
			return nil, &Exception{Code: CodeError, Value: value.FromString(
				`can't use "` + name + `" as array: variable isn't array`)}
		}
		if cell.array == nil {
			cell.array = make(map[string]value.Value)
		}
		return cell, nil
	}
	cell = &variable{kind: cellArray, array: make(map[string]value.Value)}
	s.current().vars[name] = cell
	return cell, nil
}

// exists reports whether name is bound in the current scope (following
// links), without distinguishing scalar vs array.
func (s *scopes) exists(name string) bool {
	_, _, ok := s.resolve(s.currentIndex(), name)
	return ok
}

// existsElement reports whether name(index) is bound.
func (s *scopes) existsElement(name, index string) bool {
	v, _, ok := s.resolve(s.currentIndex(), name)
	if !ok || v.kind != cellArray {
		return false
	}
	_, ok = v.array[index]
	return ok
}
