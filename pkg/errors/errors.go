// Package errors provides structured error types for the Orthogram engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages naming the offending entity
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow the pipeline stages:
//   - DEFINITION_*: malformed definition files (unknown key, bad type, include trouble)
//   - LAYOUT_*: grid construction failures (covers, names, references)
//   - ROUTING_*: connections that cannot be routed
//   - SIZING_*: infeasible constraint systems
//   - RENDER_*: drawing back-end failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDefinition, "unknown key %q in block %q", key, name)
//	if errors.Is(err, errors.ErrCodeDefinition) {
//	    // Handle definition error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "failed to read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the pipeline stages.
const (
	// Definition errors (malformed DDF input)
	ErrCodeDefinition Code = "DEFINITION_ERROR"

	// Layout errors (grid and block construction)
	ErrCodeLayout Code = "LAYOUT_ERROR"

	// Routing errors (no path for a connection)
	ErrCodeRouting Code = "ROUTING_ERROR"

	// Sizing errors (infeasible constraint system)
	ErrCodeSizing Code = "SIZING_ERROR"

	// Render errors (drawing back-end failures)
	ErrCodeRender Code = "RENDER_ERROR"

	// File-system errors outside the drawing back-end
	ErrCodeIO Code = "IO_ERROR"

	// Input validation errors (CLI options, paths)
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// Unexpected internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
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
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
