package interp

import (
	"fmt"

	"github.com/molt-lang/molt/internal/value"
)

// Code identifies the kind of non-local result an Exception carries, per
// spec.md §4.7 and §3 "Exception".
type Code int

const (
	CodeOk Code = iota
	CodeError
	CodeReturn
	CodeBreak
	CodeContinue
	// CodeUser covers application-defined codes from `return -code N`, N>=5.
	CodeUser
)

func (c Code) String() string {
	switch c {
	case CodeOk:
		return "ok"
	case CodeError:
		return "error"
	case CodeReturn:
		return "return"
	case CodeBreak:
		return "break"
	case CodeContinue:
		return "continue"
	default:
		return "user"
	}
}

// Exception is the non-Ok branch of a MoltResult: a structured, non-local
// control-transfer result carrying a code, a level, a carried value, and,
// for errors, an accumulating error-code/error-info pair (spec.md §3, §4.7).
type Exception struct {
	Code      Code
	RawCode   int // the literal numeric code when Code == CodeUser; for CodeReturn, the code the return completes with
	Level     int
	Value     value.Value
	ErrorCode value.Value // defaults to "NONE" for plain errors
	ErrorInfo string
}

func (e *Exception) Error() string {
	return e.Value.String()
}

// NewError constructs a plain error Exception with level 0 and error-code
// NONE, matching the `error` command's defaults (spec.md §4.7).
func NewError(message string) *Exception {
	return &Exception{
		Code:      CodeError,
		Level:     0,
		Value:     value.FromString(message),
		ErrorCode: value.FromString("NONE"),
	}
}

// NewErrorf is a convenience wrapper around NewError + fmt.Sprintf-style
// formatting, used throughout the built-in commands.
func NewErrorf(format string, args ...any) *Exception {
	return NewError(fmt.Sprintf(format, args...))
}

// NewBreak constructs the Exception produced by the `break` command.
func NewBreak() *Exception {
	return &Exception{Code: CodeBreak, Level: 0, Value: value.Empty}
}

// NewContinue constructs the Exception produced by the `continue` command.
func NewContinue() *Exception {
	return &Exception{Code: CodeContinue, Level: 0, Value: value.Empty}
}

// NewReturn constructs the Exception produced by a plain `return ?value?`:
// code=ok (so it converts to Ok at the nearest procedure boundary), level=1.
func NewReturn(v value.Value) *Exception {
	return &Exception{Code: CodeReturn, Level: 1, Value: v}
}

// IsOkResult reports whether e represents a code=ok return (regardless of
// level), i.e. it should convert to a plain Ok(value) once its level reaches
// zero.
func (e *Exception) IsOkResult() bool {
	return e.Code == CodeReturn && e.RawCode == 0
}

// descendLevel decrements the exception's level by one as it crosses a
// procedure-call boundary, per spec.md §4.7. Once Level reaches zero, the
// caller (proc dispatch) converts it to the terminal code.
func (e *Exception) descendLevel() {
	if e.Level > 0 {
		e.Level--
	}
}
