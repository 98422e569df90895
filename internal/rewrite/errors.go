package rewrite

import (
	"errors"
	"fmt"

	"github.com/strongdm/ccfilter/internal/lexer"
)

// ErrMalformed matches every *MalformedInputError via errors.Is.
var ErrMalformed = errors.New("malformed input")

// MalformedInputError reports a stream that ended inside a literal or a
// block comment. Line and Column locate where the open region began.
type MalformedInputError struct {
	Name   string
	State  lexer.State
	Line   int
	Column int
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("%s: input is malformed, ends inside %s opened at line %d, column %d", e.Name, e.State.Describe(), e.Line, e.Column)
}

func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformed }

// Region tells literal truncation apart from comment truncation.
func (e *MalformedInputError) Region() lexer.Region { return e.State.Region() }

// ReadError wraps a failure of the byte source.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("error reading %s: %v", e.Name, e.Err) }

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps a failure of the byte sink, including flush.
type WriteError struct {
	Name string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("error writing output for %s: %v", e.Name, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsWriteError reports whether err is or wraps a *WriteError.
func IsWriteError(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}
