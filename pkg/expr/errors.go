package expr

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Compile or Eval wraps exactly one of them.
var (
	ErrSyntax          = errors.New("syntax error")
	ErrType            = errors.New("type error")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrUnsupportedNode = errors.New("unsupported expression")
)

// Error locates a failure in the source expression.
type Error struct {
	Kind error
	Pos  int
	Msg  string
}

func newError(kind error, pos int, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d: %s", e.Kind, e.Pos, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Kind
}
