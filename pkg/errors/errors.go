package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates that transform options failed validation
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidRequest indicates that a wire request could not be decoded or validated
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUncacheable indicates that the arguments of a call cannot produce a stable cache key
	ErrUncacheable = errors.New("arguments are not cacheable")

	// ErrInvalidDate indicates that a value could not be interpreted as a date
	ErrInvalidDate = errors.New("invalid date")
)

// Error codes carried by Error
const (
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeRequest       = "REQUEST_ERROR"
	CodeInternal      = "INTERNAL_ERROR"
)

// Error represents a structured error with a machine-readable code
type Error struct {
	// Code is a machine-readable error code
	Code string

	// Message is a human-readable error message
	Message string

	// Err is the underlying error, if any
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new coded error
func NewError(code, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Code returns the code of the first Error in err's chain, or CodeInternal
func Code(err error) string {
	if err == nil {
		return ""
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return CodeConfiguration
	case errors.Is(err, ErrInvalidRequest):
		return CodeRequest
	}
	return CodeInternal
}

// IsInvalidConfig checks if an error is a configuration error
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsInvalidRequest checks if an error is a request decoding error
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}
