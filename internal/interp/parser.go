package interp

import (
	"strings"

	"github.com/molt-lang/molt/internal/scan"
	"github.com/molt-lang/molt/internal/value"
)

// word is one parsed command word: its final Value plus whether it carried
// the `{*}` expansion prefix (spec.md §4.1 "Expansion prefix").
type word struct {
	val      value.Value
	expand   bool
}

// Eval parses and executes script at global scope (spec.md §6 "eval"). It is
// the only entry point that converts an escaping break/continue into an
// error, matching spec.md §7 ("The evaluator converts break/continue to
// error at the top of eval, not in eval_body").
func (in *Interpreter) Eval(script string) Result {
	r := in.crossBoundary(in.evalScript(script))
	if r.Exc != nil && r.Exc.Code == CodeError {
		in.lastErrorInfo = r.Exc.ErrorInfo
		if !r.Exc.ErrorCode.IsEmpty() {
			in.lastErrorCode = r.Exc.ErrorCode
		}
	}
	return r
}

// EvalBody executes script preserving break/continue, for use by loop and
// procedure bodies (spec.md §6 "eval_body").
func (in *Interpreter) EvalBody(body value.Value) Result {
	return in.evalScript(body.String())
}

func (in *Interpreter) evalScript(script string) Result {
	c := scan.New(script)
	return in.evalScriptCursor(c, false)
}

// crossBoundary applies one procedure-call-boundary worth of Exception
// conversion (spec.md §4.7): a `return` Exception's level is decremented,
// converting to Ok once it reaches zero; an escaping break/continue becomes
// an error, since only loops (and catch, which never calls crossBoundary)
// reinterpret those codes.
func (in *Interpreter) crossBoundary(r Result) Result {
	if r.Exc == nil {
		return r
	}
	exc := r.Exc
	switch exc.Code {
	case CodeReturn:
		exc.descendLevel()
		if exc.Level <= 0 {
			haveErrorCode := !exc.ErrorCode.IsEmpty()
			return terminalResult(Code(exc.RawCode), exc.Value, exc.ErrorCode, haveErrorCode)
		}
		return r
	case CodeBreak:
		return Errorf(`invoked "break" outside of a loop`)
	case CodeContinue:
		return Errorf(`invoked "continue" outside of a loop`)
	default:
		return r
	}
}

// evalScriptCursor is the shared interpret-as-you-go engine: it parses one
// command at a time directly off c and executes it before parsing the next,
// so no AST is ever materialized (spec.md §4.1). When bracketMode is true,
// an unescaped top-level ']' (as found inside a `[script]` substitution)
// additionally terminates the script, without being consumed.
func (in *Interpreter) evalScriptCursor(c *scan.Cursor, bracketMode bool) Result {
	in.recursionDepth++
	defer func() { in.recursionDepth-- }()
	if in.recursionDepth > in.recursionLimit {
		return Errorf("too many nested calls (infinite loop?)")
	}

	last := value.Empty
	for {
		if !in.skipInterCommand(c, bracketMode) {
			break
		}
		if bracketMode && c.Peek() == ']' {
			break
		}
		if c.AtEnd() {
			break
		}

		cmdStart := c.Mark()
		words, werr := in.parseCommandWords(c, bracketMode)
		if werr != nil {
			return Err(werr)
		}
		cmdText := strings.TrimSpace(c.Slice(cmdStart))

		// Consume a single trailing command terminator, if present.
		if !bracketMode || c.Peek() != ']' {
			if c.Peek() == ';' || c.Peek() == '\n' {
				c.Next()
			}
		}

		if len(words) == 0 {
			continue
		}
		argv := expandWords(words)
		if len(argv) == 0 {
			continue
		}

		res := in.dispatch(argv)
		if res.Exc != nil {
			appendErrorInfoFrame(res.Exc, cmdText)
			return res
		}
		last = res.Value
	}
	return Ok(last)
}

// expandWords flattens a parsed word list into the final argument vector,
// splicing any `{*}`-expanded word's list items in place (spec.md §4.1
// "Expansion prefix", §9 "{*} expansion").
func expandWords(words []word) []value.Value {
	argv := make([]value.Value, 0, len(words))
	for _, w := range words {
		if !w.expand {
			argv = append(argv, w.val)
			continue
		}
		items, err := w.val.AsList()
		if err != nil {
			// A malformed expansion list degrades to a single literal word
			// rather than aborting the whole command.
			argv = append(argv, w.val)
			continue
		}
		argv = append(argv, items...)
	}
	return argv
}

// skipInterCommand skips whitespace, command terminators, comments, and
// blank/empty commands that appear before the next real command. It returns
// false if the caller should stop (end of script reached).
func (in *Interpreter) skipInterCommand(c *scan.Cursor, bracketMode bool) bool {
	for {
		for c.Peek() == ' ' || c.Peek() == '\t' || c.Peek() == '\r' {
			c.Next()
		}
		if c.Peek() == ';' || c.Peek() == '\n' {
			c.Next()
			continue
		}
		if c.Peek() == '#' {
			for !c.AtEnd() && c.Peek() != '\n' {
				if bracketMode {
					// A comment still absorbs brackets/braces naturally since
					// Tcl comments run to end-of-line regardless of content.
				}
				c.Next()
			}
			continue
		}
		return true
	}
}

// parseCommandWords reads every word of the current command.
func (in *Interpreter) parseCommandWords(c *scan.Cursor, bracketMode bool) ([]word, *Exception) {
	var words []word
	for {
		for c.Peek() == ' ' || c.Peek() == '\t' {
			c.Next()
		}
		if c.AtEnd() || c.Peek() == ';' || c.Peek() == '\n' {
			return words, nil
		}
		if bracketMode && c.Peek() == ']' {
			return words, nil
		}
		w, err := in.parseWord(c, bracketMode)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
}

// parseWord parses a single word: detects the `{*}` expansion prefix, then
// dispatches to the braced/quoted/bare word grammar (spec.md §4.1).
func (in *Interpreter) parseWord(c *scan.Cursor, bracketMode bool) (word, *Exception) {
	expand := false
	if c.PeekString("{*}") {
		// Only an expansion marker when immediately followed by the start of
		// another word, with no intervening whitespace (spec.md §4.1).
		save := snapshot(c)
		c.Next()
		c.Next()
		c.Next()
		next := c.Peek()
		if next != 0 && next != ' ' && next != '\t' && next != ';' && next != '\n' &&
			!(bracketMode && next == ']') {
			expand = true
		} else {
			restore(c, save)
		}
	}
	val, err := in.parseWordBody(c, bracketMode)
	if err != nil {
		return word{}, err
	}
	return word{val: val, expand: expand}, nil
}

func (in *Interpreter) parseWordBody(c *scan.Cursor, bracketMode bool) (value.Value, *Exception) {
	switch c.Peek() {
	case '{':
		return in.parseBracedWord(c, bracketMode)
	case '"':
		return in.parseQuotedWord(c, bracketMode)
	default:
		return in.parseBareWord(c, bracketMode)
	}
}

// parseBracedWord reads a {...} word verbatim: no substitutions are
// performed, nested braces are balanced (an escaped brace does not count
// toward the balance), and a backslash-newline is preserved exactly as
// written (spec.md §4.1 "Braced").
func (in *Interpreter) parseBracedWord(c *scan.Cursor, bracketMode bool) (value.Value, *Exception) {
	startPos := c.Pos()
	c.Next() // consume '{'
	start := c.Mark()
	depth := 1
	for {
		if c.AtEnd() {
			return value.Empty, asExc(&scan.SyntaxError{Pos: startPos, Message: "missing close-brace"})
		}
		r := c.Next()
		switch r {
		case '\\':
			if !c.AtEnd() {
				c.Next()
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				content := c.SliceTo(start, c.Pos().Offset-1)
				if err := requireWordBoundary(c, bracketMode, "close-brace"); err != nil {
					return value.Empty, err
				}
				return value.FromString(content), nil
			}
		}
	}
}

// parseQuotedWord reads a "..." word, applying variable/command/backslash
// substitution to its contents (spec.md §4.1 "Quoted").
func (in *Interpreter) parseQuotedWord(c *scan.Cursor, bracketMode bool) (value.Value, *Exception) {
	startPos := c.Pos()
	c.Next() // consume opening quote
	v, err := in.scanSubstituted(c, func(r rune) bool { return r == '"' })
	if err != nil {
		return value.Empty, err
	}
	if c.AtEnd() {
		return value.Empty, asExc(&scan.SyntaxError{Pos: startPos, Message: "missing close-quote"})
	}
	c.Next() // consume closing quote
	if err := requireWordBoundary(c, bracketMode, "close-quote"); err != nil {
		return value.Empty, err
	}
	return v, nil
}

// parseBareWord reads an unquoted, unbraced word up to the next whitespace
// or command terminator, applying the same substitution rules as a quoted
// word (spec.md §4.1 "Bare").
func (in *Interpreter) parseBareWord(c *scan.Cursor, bracketMode bool) (value.Value, *Exception) {
	return in.scanSubstituted(c, func(r rune) bool {
		if r == ' ' || r == '\t' || r == ';' || r == '\n' || r == 0 {
			return true
		}
		return bracketMode && r == ']'
	})
}

// scanSubstituted is the shared substitution scanner for quoted and bare
// words: it concatenates literal runs, `$` variable references, `[script]`
// command substitutions, and backslash escapes until stop(rune) reports
// true (or input ends), per spec.md §4.1 "Substitutions inside quoted and
// bare words".
func (in *Interpreter) scanSubstituted(c *scan.Cursor, stop func(rune) bool) (value.Value, *Exception) {
	var sb strings.Builder
	for {
		r := c.Peek()
		if c.AtEnd() || stop(r) {
			break
		}
		switch r {
		case '\\':
			sb.WriteString(c.ScanBackslash(true))
		case '$':
			sub, err := in.scanVarSubst(c)
			if err != nil {
				return value.Empty, err
			}
			sb.WriteString(sub)
		case '[':
			sub, err := in.scanCommandSubst(c)
			if err != nil {
				return value.Empty, err
			}
			sb.WriteString(sub)
		default:
			sb.WriteRune(c.Next())
		}
	}
	return value.FromString(sb.String()), nil
}

// scanVarSubst parses a `$name`, `$name(index)`, or `${name}` reference
// starting at the `$`, and returns the substituted text (spec.md §4.1).
func (in *Interpreter) scanVarSubst(c *scan.Cursor) (string, *Exception) {
	c.Next() // consume '$'
	if c.Peek() == '{' {
		c.Next()
		start := c.Mark()
		for !c.AtEnd() && c.Peek() != '}' {
			c.Next()
		}
		name := c.Slice(start)
		if c.AtEnd() {
			return "", asExc(c.Error("missing close-brace for variable name"))
		}
		c.Next() // consume '}'
		v, err := in.scopes.readScalar(name)
		if err != nil {
			return "", err.(*Exception)
		}
		return v.String(), nil
	}

	start := c.Mark()
	for scan.IsWordChar(c.Peek()) {
		c.Next()
	}
	name := c.Slice(start)
	if name == "" {
		// A lone `$` not followed by a valid name is literal (Tcl behavior).
		return "$", nil
	}
	if c.Peek() == '(' {
		c.Next()
		idx, err := in.scanSubstituted(c, func(r rune) bool { return r == ')' })
		if err != nil {
			return "", err
		}
		if c.Peek() != ')' {
			return "", asExc(c.Error("missing close-paren for array element"))
		}
		c.Next()
		v, verr := in.scopes.readElement(name, idx.String())
		if verr != nil {
			return "", verr.(*Exception)
		}
		return v.String(), nil
	}
	v, err := in.scopes.readScalar(name)
	if err != nil {
		return "", err.(*Exception)
	}
	return v.String(), nil
}

// scanCommandSubst parses a `[script]` substitution starting at the `[` and
// returns the substituted text: the nested script's result string form.
func (in *Interpreter) scanCommandSubst(c *scan.Cursor) (string, *Exception) {
	startPos := c.Pos()
	c.Next() // consume '['
	res := in.evalScriptCursor(c, true)
	if res.Exc != nil {
		return "", res.Exc
	}
	if c.Peek() != ']' {
		return "", asExc(&scan.SyntaxError{Pos: startPos, Message: "missing close-bracket"})
	}
	c.Next()
	return res.Value.String(), nil
}

// requireWordBoundary ensures a braced/quoted word is immediately followed
// by whitespace, a command terminator, a close-bracket (in bracket mode), or
// end of input.
func requireWordBoundary(c *scan.Cursor, bracketMode bool, what string) *Exception {
	r := c.Peek()
	if c.AtEnd() || r == ' ' || r == '\t' || r == ';' || r == '\n' {
		return nil
	}
	if bracketMode && r == ']' {
		return nil
	}
	return asExc(c.Error("extra characters after " + what))
}

func asExc(err error) *Exception {
	if se, ok := err.(*scan.SyntaxError); ok {
		return &Exception{Code: CodeError, Value: value.FromString(se.Message)}
	}
	return &Exception{Code: CodeError, Value: value.FromString(err.Error())}
}

// cursorSnapshot captures enough of a Cursor's state to support the small
// amount of backtracking `{*}`-prefix detection needs.
type cursorSnapshot struct {
	pos    int
	line   int
	column int
}

func snapshot(c *scan.Cursor) cursorSnapshot {
	p := c.Pos()
	return cursorSnapshot{pos: p.Offset, line: p.Line, column: p.Column}
}

func restore(c *scan.Cursor, s cursorSnapshot) {
	c.Restore(s.pos, s.line, s.column)
}

// scriptIsComplete reports whether s parses as a syntactically complete
// script: every brace, bracket, and quote is balanced (spec.md §6
// "complete"). It performs no substitution or execution.
func scriptIsComplete(s string) bool {
	c := scan.New(s)
	return completeFrom(c, false)
}

func completeFrom(c *scan.Cursor, bracketMode bool) bool {
	for {
		for c.Peek() == ' ' || c.Peek() == '\t' || c.Peek() == '\r' || c.Peek() == ';' || c.Peek() == '\n' {
			c.Next()
		}
		if c.Peek() == '#' {
			for !c.AtEnd() && c.Peek() != '\n' {
				c.Next()
			}
			continue
		}
		if c.AtEnd() {
			return !bracketMode
		}
		if bracketMode && c.Peek() == ']' {
			c.Next()
			return true
		}
		if !completeWord(c, bracketMode) {
			return false
		}
	}
}

func completeWord(c *scan.Cursor, bracketMode bool) bool {
	for c.Peek() == ' ' || c.Peek() == '\t' {
		c.Next()
	}
	switch c.Peek() {
	case '{':
		c.Next()
		depth := 1
		for {
			if c.AtEnd() {
				return false
			}
			r := c.Next()
			switch r {
			case '\\':
				if !c.AtEnd() {
					c.Next()
				}
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return true
				}
			}
		}
	case '"':
		c.Next()
		for {
			if c.AtEnd() {
				return false
			}
			r := c.Next()
			if r == '\\' {
				if !c.AtEnd() {
					c.Next()
				}
				continue
			}
			if r == '"' {
				return true
			}
		}
	default:
		for {
			r := c.Peek()
			if c.AtEnd() || r == ' ' || r == '\t' || r == ';' || r == '\n' {
				return true
			}
			if bracketMode && r == ']' {
				return true
			}
			if r == '\\' {
				c.Next()
				if !c.AtEnd() {
					c.Next()
				}
				continue
			}
			if r == '[' {
				c.Next()
				if !completeFrom(c, true) {
					return false
				}
				continue
			}
			c.Next()
		}
	}
}
