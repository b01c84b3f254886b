package dateformat

import (
	"fmt"

	perrors "github.com/wehubfusion/Prism/pkg/errors"
)

// ParseError represents a value that could not be interpreted as a date.
type ParseError struct {
	Input   interface{}
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: cannot interpret %v (%T) as a date: %s", e.Input, e.Input, e.Message)
}

// Unwrap lets callers match with errors.Is(err, errors.ErrInvalidDate).
func (e *ParseError) Unwrap() error { return perrors.ErrInvalidDate }

func newParseError(input interface{}, message string) *ParseError {
	return &ParseError{Input: input, Message: message}
}
