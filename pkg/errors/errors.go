// Package errors provides structured error types for netprune.
//
// This package defines error codes and types that enable:
//   - A single taxonomy shared by the library, the pipeline and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into three groups:
//   - Configuration errors (INVALID_CONFIG, INVALID_SYNTAX, UNKNOWN_ATTRIBUTE,
//     UNKNOWN_FUNCTION): raised before the network is touched; they abort a run.
//   - Per-node outcomes (MERGE_CONFLICT, INVALID_NETWORK_OPERATION): expected
//     while simplifying; the node is kept and the run continues.
//   - Input and internal errors (INVALID_INPUT, INVALID_FORMAT, FILE_NOT_FOUND,
//     INTERNAL_ERROR).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownFunction, "function %q not recognized", name)
//	if errors.IsConfiguration(err) {
//	    // abort the run
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeConfiguration    Code = "INVALID_CONFIG"
	ErrCodeSyntax           Code = "INVALID_SYNTAX"
	ErrCodeUnknownAttribute Code = "UNKNOWN_ATTRIBUTE"
	ErrCodeUnknownFunction  Code = "UNKNOWN_FUNCTION"

	// Per-node simplification outcomes
	ErrCodeMergeConflict    Code = "MERGE_CONFLICT"
	ErrCodeInvalidOperation Code = "INVALID_NETWORK_OPERATION"

	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// configurationCodes are the codes that abort a run before any mutation.
var configurationCodes = map[Code]bool{
	ErrCodeConfiguration:    true,
	ErrCodeSyntax:           true,
	ErrCodeUnknownAttribute: true,
	ErrCodeUnknownFunction:  true,
}

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

// IsConfiguration reports whether err is a configuration error: a malformed
// rule, an unknown attribute or function, or an invalid filter. These are
// always raised before the network is modified.
func IsConfiguration(err error) bool {
	return configurationCodes[GetCode(err)]
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
