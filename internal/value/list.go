package value

import (
	"strings"

	"github.com/molt-lang/molt/internal/scan"
)

// ParseList parses s by the list grammar of spec.md §4.3 and returns its
// items. List whitespace is {space, tab, newline, CR, VT, FF} — note that
// newline IS whitespace here, unlike command parsing.
func ParseList(s string) ([]Value, error) {
	c := scan.New(s)
	var items []Value
	for {
		skipListWhitespace(c)
		if c.AtEnd() {
			break
		}
		item, err := parseListItem(c)
		if err != nil {
			return nil, err
		}
		items = append(items, FromString(item))
	}
	return items, nil
}

func isListWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func skipListWhitespace(c *scan.Cursor) {
	for isListWhitespace(c.Peek()) {
		c.Next()
	}
}

func parseListItem(c *scan.Cursor) (string, error) {
	switch c.Peek() {
	case '{':
		return parseBracedListItem(c)
	case '"':
		return parseQuotedListItem(c)
	default:
		return parseBareListItem(c)
	}
}

// parseBracedListItem reads a {...} item. Contents are preserved verbatim;
// backslash-newline is retained as-is, not collapsed, and backslash only
// matters for the purpose of not counting an escaped brace toward balance.
func parseBracedListItem(c *scan.Cursor) (string, error) {
	startPos := c.Pos()
	c.Next() // consume '{'
	start := c.Mark()
	depth := 1
	for {
		if c.AtEnd() {
			return "", &scan.SyntaxError{Pos: startPos, Message: "unmatched open brace in list"}
		}
		r := c.Next()
		switch r {
		case '\\':
			if !c.AtEnd() {
				c.Next() // skip escaped char, doesn't affect brace counting
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				content := c.SliceTo(start, c.Pos().Offset-1)
				if err := requireBoundary(c); err != nil {
					return "", err
				}
				return content, nil
			}
		}
	}
}

// parseQuotedListItem reads a "..." item, then applies backslash
// substitution to the captured contents.
func parseQuotedListItem(c *scan.Cursor) (string, error) {
	startPos := c.Pos()
	c.Next() // consume opening quote
	start := c.Mark()
	for {
		if c.AtEnd() {
			return "", &scan.SyntaxError{Pos: startPos, Message: "unmatched open quote in list"}
		}
		r := c.Peek()
		if r == '\\' {
			c.Next()
			if !c.AtEnd() {
				c.Next()
			}
			continue
		}
		if r == '"' {
			raw := c.SliceTo(start, c.Pos().Offset)
			c.Next() // consume closing quote
			if err := requireBoundary(c); err != nil {
				return "", err
			}
			return substituteBackslashes(raw), nil
		}
		c.Next()
	}
}

// parseBareListItem reads up to the next unescaped list-whitespace, then
// applies backslash substitution to the captured contents.
func parseBareListItem(c *scan.Cursor) (string, error) {
	start := c.Mark()
	for {
		if c.AtEnd() {
			break
		}
		r := c.Peek()
		if isListWhitespace(r) {
			break
		}
		if r == '\\' {
			c.Next()
			if !c.AtEnd() {
				c.Next()
			}
			continue
		}
		c.Next()
	}
	raw := c.Slice(start)
	return substituteBackslashes(raw), nil
}

// requireBoundary ensures a braced/quoted item is immediately followed by
// list whitespace or end of input, matching Tcl's "list element in braces
// followed by garbage" diagnostic.
func requireBoundary(c *scan.Cursor) error {
	if c.AtEnd() || isListWhitespace(c.Peek()) {
		return nil
	}
	return c.Error("list element in braces/quotes followed by extra characters")
}

// substituteBackslashes runs the shared backslash-escape table (scan.Cursor)
// over raw text captured from a quoted or bare list item.
func substituteBackslashes(raw string) string {
	if !strings.ContainsRune(raw, '\\') {
		return raw
	}
	c := scan.New(raw)
	var sb strings.Builder
	for !c.AtEnd() {
		if c.Peek() == '\\' {
			sb.WriteString(c.ScanBackslash(false))
			continue
		}
		sb.WriteRune(c.Next())
	}
	return sb.String()
}

// Format renders a sequence of Values as a canonical list string, choosing
// the shortest safe representation per item per spec.md §4.3. The invariant
// is that ParseList(Format(xs)) == xs for any finite sequence of Values.
func Format(items []Value) string {
	parts := make([]string, len(items))
	for i, v := range items {
		parts[i] = formatListItem(v.String())
	}
	return strings.Join(parts, " ")
}

func formatListItem(s string) string {
	if s == "" {
		return "{}"
	}
	if isListSafe(s) {
		return s
	}
	if canWrapInBraces(s) {
		return "{" + s + "}"
	}
	return escapeBareWord(s)
}

// isListSafe reports whether s may be emitted verbatim as a bare list word:
// no list whitespace, quotes, braces, brackets, dollar, semicolon, or
// backslash, and not a leading '#' (which would start a comment).
func isListSafe(s string) bool {
	if s[0] == '#' {
		return false
	}
	for _, r := range s {
		if isListWhitespace(r) {
			return false
		}
		switch r {
		case '"', '{', '}', '[', ']', '$', ';', '\\':
			return false
		}
	}
	return true
}

// canWrapInBraces reports whether s has balanced (possibly escaped) braces
// and does not end in a backslash, so that wrapping it verbatim in {...}
// round-trips correctly.
func canWrapInBraces(s string) bool {
	if strings.HasSuffix(s, "\\") {
		return false
	}
	depth := 0
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			i++ // skip escaped rune, doesn't affect balance
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

var bareEscapes = map[rune]string{
	' ':  "\\ ",
	'\t': "\\t",
	'\n': "\\n",
	'\r': "\\r",
	'\v': "\\v",
	'\f': "\\f",
	'"':  "\\\"",
	'{':  "\\{",
	'}':  "\\}",
	'[':  "\\[",
	']':  "\\]",
	'$':  "\\$",
	';':  "\\;",
	'\\': "\\\\",
}

// escapeBareWord backslash-escapes every list-unsafe rune in s, plus a
// leading '#', so the result round-trips as a single bare word.
func escapeBareWord(s string) string {
	var sb strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i == 0 && r == '#' {
			sb.WriteString("\\#")
			continue
		}
		if esc, ok := bareEscapes[r]; ok {
			sb.WriteString(esc)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
