package smd

import (
	"fmt"

	"github.com/pkg/errors"
)

// MalformedInputError reports text that does not follow the triangles block
// grammar. Line is 1-based; 0 means end of input.
type MalformedInputError struct {
	Line   int
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("malformed smd: %s", e.Reason)
	}
	return fmt.Sprintf("malformed smd at line %d: %s", e.Line, e.Reason)
}

func malformed(line int, format string, args ...interface{}) error {
	return &MalformedInputError{Line: line, Reason: fmt.Sprintf(format, args...)}
}

// IOError wraps failures to read the input or write the output file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Cause lets errors.Cause reach the underlying os error.
func (e *IOError) Cause() error { return e.Err }

func ioError(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}

func IsMalformed(err error) bool {
	var me *MalformedInputError
	return errors.As(err, &me)
}

func IsIO(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}
