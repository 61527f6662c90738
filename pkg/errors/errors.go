// Package errors provides structured error types for walletgraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the TUI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages for the activity log
//
// # Error Codes
//
// The graph engine distinguishes four kinds of failure when talking to a
// block explorer:
//   - EMPTY_ADDRESS: blank input, rejected before any network call
//   - PROVIDER_ERROR: the explorer answered with a non-success status
//   - NO_MORE_PAGES: load-more requested for an address without a cursor
//   - NETWORK_FAILURE: the explorer could not be reached
//
// NO_MORE_PAGES is expected and benign; callers dispatch on the code instead
// of comparing messages.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyAddress, "missing address")
//	if errors.Is(err, errors.ErrCodeEmptyAddress) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetworkFailure, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeEmptyAddress Code = "EMPTY_ADDRESS"

	// Pagination
	ErrCodeNoMorePages Code = "NO_MORE_PAGES"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Upstream errors
	ErrCodeProvider       Code = "PROVIDER_ERROR"
	ErrCodeNetworkFailure Code = "NETWORK_FAILURE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// coder is implemented by error types that carry their own code.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a typed error
// (such as *ProviderError) with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	if err == nil {
		return ""
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// ProviderError reports a non-success response from the block explorer.
// Callers treat it as terminal for the attempt.
type ProviderError struct {
	Status int    // HTTP status code returned upstream
	Detail string // Truncated response body, if any
}

// Error implements the error interface. The message always carries the status.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("API error %d", e.Status)
}

// Code returns the error code for this error type.
func (e *ProviderError) Code() Code {
	return ErrCodeProvider
}
