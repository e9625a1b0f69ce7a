// Package errors provides structured error types for netweave.
//
// Every failure surfaced by the generators, the layout engine and the
// normalizer carries one of a small set of machine-readable codes:
//   - INVALID_PARAMETER: a numeric argument is out of range
//   - DEGENERATE_LAYOUT: a layout collapsed on at least one axis
//   - UNSUPPORTED_KIND: an unknown generator or layout selector
//
// The remaining codes are used by the outer surfaces (CLI, server, cache).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidParameter, "p=%v outside [0,1]", p)
//	if errors.Is(err, errors.ErrCodeInvalidParameter) {
//	    // Handle validation error
//	}
//
// Code sentinels also work with the standard library:
//
//	if stderrors.Is(err, errors.ErrInvalidParameter) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Core errors
	ErrCodeInvalidParameter Code = "INVALID_PARAMETER"
	ErrCodeDegenerateLayout Code = "DEGENERATE_LAYOUT"
	ErrCodeUnsupportedKind  Code = "UNSUPPORTED_KIND"

	// Input errors raised by the outer surfaces
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Run errors
	ErrCodeCanceled Code = "CANCELED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Code sentinels for use with the standard library errors.Is.
var (
	ErrInvalidParameter = &Error{Code: ErrCodeInvalidParameter}
	ErrDegenerateLayout = &Error{Code: ErrCodeDegenerateLayout}
	ErrUnsupportedKind  = &Error{Code: ErrCodeUnsupportedKind}
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches code sentinels: a target *Error without message or cause
// matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" || t.Cause != nil {
		return false
	}
	return t.Code == e.Code
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

// InvalidParameter is shorthand for New(ErrCodeInvalidParameter, ...).
func InvalidParameter(format string, args ...any) *Error {
	return New(ErrCodeInvalidParameter, format, args...)
}

// UnsupportedKind reports an unknown selector for the given family
// ("network", "layout").
func UnsupportedKind(family, kind string) *Error {
	return New(ErrCodeUnsupportedKind, "unsupported %s kind %q", family, kind)
}
