// Package scan provides the low-level character cursor shared by the script
// word parser, the list codec, and the expression tokenizer. It exposes
// marking, peeking, slice extraction, and backslash-substitution primitives
// so that the higher-level parsers can return unallocated slices of the
// source text whenever no substitution or escaping was present.
package scan

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Cursor is a rune-aware reader over a source string. It tracks byte offset,
// line, and column so that callers can report precise error positions.
type Cursor struct {
	src    string
	pos    int // byte offset of the next rune to read
	line   int // 1-based
	column int // 1-based, rune count from start of line
}

// Position identifies a location within the source text.
type Position struct {
	Offset int
	Line   int
	Column int
}

// New creates a Cursor over src, positioned at the start of input.
func New(src string) *Cursor {
	return &Cursor{src: src, line: 1, column: 1}
}

// Pos returns the current position.
func (c *Cursor) Pos() Position {
	return Position{Offset: c.pos, Line: c.line, Column: c.column}
}

// AtEnd reports whether the cursor has consumed the entire source.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.src)
}

// Peek returns the rune at the cursor without consuming it, or 0 at end.
func (c *Cursor) Peek() rune {
	if c.AtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.src[c.pos:])
	return r
}

// PeekAt returns the rune offset runes ahead of the cursor without consuming
// anything, or 0 if that position is past the end.
func (c *Cursor) PeekAt(offset int) rune {
	p := c.pos
	var r rune
	for i := 0; i <= offset; i++ {
		if p >= len(c.src) {
			return 0
		}
		var size int
		r, size = utf8.DecodeRuneInString(c.src[p:])
		p += size
	}
	return r
}

// PeekString reports whether the literal string s appears at the cursor.
func (c *Cursor) PeekString(s string) bool {
	return strings.HasPrefix(c.src[c.pos:], s)
}

// Next consumes and returns the rune at the cursor, advancing line/column
// bookkeeping. Returns 0 at end of input.
func (c *Cursor) Next() rune {
	if c.AtEnd() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(c.src[c.pos:])
	c.pos += size
	if r == '\n' {
		c.line++
		c.column = 1
	} else {
		c.column++
	}
	return r
}

// Mark captures the current byte offset for later slice extraction.
func (c *Cursor) Mark() int {
	return c.pos
}

// Restore resets the cursor to a previously captured (offset, line, column)
// triple, for the small amount of backtracking the `{*}` expansion-prefix
// check needs.
func (c *Cursor) Restore(offset, line, column int) {
	c.pos = offset
	c.line = line
	c.column = column
}

// Slice returns the source text between a mark (inclusive) and the current
// position (exclusive).
func (c *Cursor) Slice(from int) string {
	return c.src[from:c.pos]
}

// SliceTo returns the source text between two byte offsets.
func (c *Cursor) SliceTo(from, to int) string {
	return c.src[from:to]
}

// Rest returns everything from the current position to the end of input.
func (c *Cursor) Rest() string {
	return c.src[c.pos:]
}

// IsWordChar reports whether r may appear in a `$name` variable-name
// reference: letters, digits, or underscore, per the host's notion of
// alphanumerics (spec.md §4.1).
func IsWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ScanBackslash consumes a backslash escape sequence starting at the
// backslash itself (which the caller has already peeked but not consumed)
// and returns its substituted text. It implements the full escape table from
// spec.md §4.1: \a \b \f \n \r \t \v, \xHH, \uHHHH, \UHHHHHHHH, \0-\7 octal,
// backslash-newline collapse, and the identity fallback \c -> c.
//
// collapseFollowingWhitespace controls whether, after a backslash-newline,
// subsequent horizontal whitespace is also consumed (true for script-word
// parsing; list parsing never calls this path for plain whitespace collapse
// since list backslash-newline is preserved verbatim, see internal/value).
func (c *Cursor) ScanBackslash(collapseFollowingWhitespace bool) string {
	if c.Peek() != '\\' {
		return ""
	}
	c.Next() // consume backslash
	if c.AtEnd() {
		// "Backslash at end of input is replaced by itself" — open question
		// in spec.md §9, resolved here: a trailing lone backslash is emitted
		// literally rather than silently dropped, since every other
		// unrecognized escape falls back to identity.
		return "\\"
	}
	r := c.Next()
	switch r {
	case 'a':
		return "\a"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'n':
		return "\n"
	case 'r':
		return "\r"
	case 't':
		return "\t"
	case 'v':
		return "\v"
	case '\n':
		if collapseFollowingWhitespace {
			for c.Peek() == ' ' || c.Peek() == '\t' {
				c.Next()
			}
		}
		return " "
	case 'x':
		return c.scanHexEscape(2, "x")
	case 'u':
		return c.scanHexEscape(4, "u")
	case 'U':
		return c.scanHexEscape(8, "U")
	case '0', '1', '2', '3', '4', '5', '6', '7':
		return c.scanOctalEscape(r)
	default:
		return string(r)
	}
}

// scanHexEscape consumes up to maxDigits hex digits and decodes them as a
// Unicode scalar. If zero digits follow, it falls back to the bare marker
// letter (e.g. a lone "\x" with no hex digits yields "x"). If the digits
// decode to a value that is not a valid Unicode scalar, it falls back to the
// marker letter followed by the digits actually consumed.
func (c *Cursor) scanHexEscape(maxDigits int, marker string) string {
	start := c.pos
	n := 0
	for n < maxDigits && isHexDigit(c.Peek()) {
		c.Next()
		n++
	}
	digits := c.src[start:c.pos]
	if n == 0 {
		return marker
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return marker + digits
	}
	return string(rune(v))
}

// scanOctalEscape consumes up to two additional octal digits after the one
// already read into first, for a maximum of three octal digits total.
func (c *Cursor) scanOctalEscape(first rune) string {
	digits := []rune{first}
	for len(digits) < 3 && isOctalDigit(c.Peek()) {
		digits = append(digits, c.Next())
	}
	v, err := strconv.ParseUint(string(digits), 8, 32)
	if err != nil {
		return string(digits)
	}
	return string(rune(v))
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isOctalDigit(r rune) bool {
	return r >= '0' && r <= '7'
}

// Error formats a parse error anchored at the cursor's current position.
func (c *Cursor) Error(format string, args ...any) error {
	return &SyntaxError{Pos: c.Pos(), Message: fmt.Sprintf(format, args...)}
}

// SyntaxError is a parse-time error carrying a source position; Error()
// appends the line and column to the message.
type SyntaxError struct {
	Pos     Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Message, e.Pos.Line, e.Pos.Column)
}
