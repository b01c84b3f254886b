package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	err := NewError(CodeRequest, "decode failed", fmt.Errorf("unexpected EOF"))
	assert.Equal(t, "[REQUEST_ERROR] decode failed: unexpected EOF", err.Error())

	bare := NewError(CodeInternal, "boom", nil)
	assert.Equal(t, "[INTERNAL_ERROR] boom", bare.Error())
}

func TestError_Unwrap(t *testing.T) {
	err := NewError(CodeConfiguration, "bad match", ErrInvalidConfig)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.True(t, IsInvalidConfig(err))
	assert.False(t, IsInvalidRequest(err))
}

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "coded", err: NewError(CodeRequest, "x", nil), want: CodeRequest},
		{name: "wrapped coded", err: fmt.Errorf("outer: %w", NewError(CodeConfiguration, "x", nil)), want: CodeConfiguration},
		{name: "config sentinel", err: fmt.Errorf("field: %w", ErrInvalidConfig), want: CodeConfiguration},
		{name: "request sentinel", err: fmt.Errorf("body: %w", ErrInvalidRequest), want: CodeRequest},
		{name: "plain", err: errors.New("other"), want: CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}
