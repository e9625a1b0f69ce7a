package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidParameter, "test message: %s", "value")

	if err.Code != ErrCodeInvalidParameter {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidParameter)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_PARAMETER: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, cause, "failed to encode")

	if err.Code != ErrCodeInternal {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInternal)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidParameter, "test"),
			code:     ErrCodeInvalidParameter,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidParameter, "test"),
			code:     ErrCodeDegenerateLayout,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInternal, New(ErrCodeInvalidParameter, "inner"), "outer"),
			code:     ErrCodeInternal,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("layout: %w", New(ErrCodeUnsupportedKind, "inner")),
			code:     ErrCodeUnsupportedKind,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidParameter,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidParameter,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{"invalid parameter", InvalidParameter("m=%d", 0), ErrInvalidParameter, true},
		{"degenerate layout", fmt.Errorf("normalize: %w", New(ErrCodeDegenerateLayout, "x axis")), ErrDegenerateLayout, true},
		{"unsupported kind", UnsupportedKind("layout", "hexagon"), ErrUnsupportedKind, true},
		{"different code", InvalidParameter("p"), ErrDegenerateLayout, false},
		{"plain error", errors.New("plain"), ErrInvalidParameter, false},
		{"non-sentinel target", InvalidParameter("p"), InvalidParameter("p"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.expected {
				t.Errorf("errors.Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSentinelErrorString(t *testing.T) {
	if got := ErrDegenerateLayout.Error(); got != "DEGENERATE_LAYOUT" {
		t.Errorf("Error() = %q, want DEGENERATE_LAYOUT", got)
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeUnsupportedKind, "test"),
			expected: ErrCodeUnsupportedKind,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "sentinel without message",
			err:      ErrUnsupportedKind,
			expected: "UNSUPPORTED_KIND",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
