// Package errors provides structured error types for sketchgraph.
//
// Errors carry a machine-readable [Code] so that the CLI can tell a bad
// scene file apart from a bad flag or a missing file without string
// matching, and pick an exit status accordingly.
//
// # Error Codes
//
//   - MALFORMED_INPUT: a scene, graph, or config file could not be decoded
//   - INVALID_OPTION, INVALID_FORMAT, INVALID_PATH: a caller-supplied value
//     was rejected before any work was done
//   - FILE_NOT_FOUND: an input file does not exist
//   - ROUNDTRIP_MISMATCH: a reconstructed scene differs from its source
//
// Conditions the graph builder tolerates (arrows with dangling bindings,
// duplicate element ids) are never reported through this package.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedInput, "element %d: missing %q", i, "id")
//	if errors.Is(err, errors.ErrCodeMalformedInput) {
//	    // Handle bad input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMalformedInput, jsonErr, "decode scene")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input errors
	ErrCodeMalformedInput Code = "MALFORMED_INPUT"
	ErrCodeInvalidOption  Code = "INVALID_OPTION"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Verification errors
	ErrCodeRoundTripMismatch Code = "ROUNDTRIP_MISMATCH"
)

// Exit statuses returned by [ExitCode].
const (
	ExitFailure = 1 // the input could not be processed
	ExitUsage   = 2 // a flag, format, or path was rejected
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

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
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
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

// UserMessage returns the message (and cause) without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}

// ExitCode maps err to a process exit status: [ExitUsage] for rejected
// options, formats, and paths, [ExitFailure] for everything else, and 0 for
// nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetCode(err) {
	case ErrCodeInvalidOption, ErrCodeInvalidFormat, ErrCodeInvalidPath:
		return ExitUsage
	default:
		return ExitFailure
	}
}
