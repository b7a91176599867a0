package makefile

import (
	"errors"
	"fmt"
)

// ErrorKind tags the failures a parse can produce.
type ErrorKind int

const (
	// SourceUnreadable means the Makefile could not be opened or read. It is
	// fatal: no model is built.
	SourceUnreadable ErrorKind = iota + 1
	// ParseAnomaly means a line could not be placed in the model. It is
	// recorded on the Makefile and parsing continues.
	ParseAnomaly
)

func (k ErrorKind) String() string {
	switch k {
	case SourceUnreadable:
		return "source unreadable"
	case ParseAnomaly:
		return "parse anomaly"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinels for errors.Is matching on kind.
var (
	ErrSourceUnreadable = &Error{Kind: SourceUnreadable}
	ErrParseAnomaly     = &Error{Kind: ParseAnomaly}
)

// Error is the structured error type returned and collected by the parser.
type Error struct {
	Kind   ErrorKind
	Path   string
	Line   int // 1-based source line, 0 when not tied to a line
	Detail string
	Err    error
}

func (e *Error) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	msg := e.Kind.String()
	if loc != "" {
		msg = loc + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so that errors.Is(err, ErrSourceUnreadable) works
// regardless of path or detail.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func anomaly(path string, line int, format string, args ...any) *Error {
	return &Error{
		Kind:   ParseAnomaly,
		Path:   path,
		Line:   line,
		Detail: fmt.Sprintf(format, args...),
	}
}
