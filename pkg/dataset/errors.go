package dataset

import (
	"fmt"

	perrors "github.com/wehubfusion/Prism/pkg/errors"
)

// ConfigError represents an options validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error [%s]: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error { return perrors.ErrInvalidConfig }

func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// RequestError represents a wire request that could not be decoded or validated.
type RequestError struct {
	Index   int
	ID      string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	prefix := "request error"
	if e.ID != "" {
		prefix = fmt.Sprintf("request error [%s]", e.ID)
	} else if e.Index >= 0 {
		prefix = fmt.Sprintf("request error at %d", e.Index)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *RequestError) Unwrap() []error {
	if e.Err != nil {
		return []error{perrors.ErrInvalidRequest, e.Err}
	}
	return []error{perrors.ErrInvalidRequest}
}

func NewRequestError(index int, id, message string, err error) *RequestError {
	return &RequestError{Index: index, ID: id, Message: message, Err: err}
}
