package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig    = "CONFIG"
	ErrUsage     = "USAGE"
	ErrSSH       = "SSH"
	ErrAgent     = "SSH_AGENT"
	ErrNotFound  = "NODE_NOT_FOUND"
	ErrTransport = "TRANSPORT"
	ErrExec      = "EXEC"
)

// Coded is implemented by errors that carry an error code and an optional
// remediation hint. Domain errors in other packages implement it so they can
// be rendered and classified the same way as *Error.
type Coded interface {
	error
	ErrorCode() string
	ErrorSuggestion() string
}

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return Format(e.Message, e.Cause, e.Suggestion)
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorCode implements Coded.
func (e *Error) ErrorCode() string { return e.Code }

// ErrorSuggestion implements Coded.
func (e *Error) ErrorSuggestion() string { return e.Suggestion }

// Format renders a message, an optional cause and an optional suggestion in
// the three-part layout shared by every error in the CLI.
func Format(message string, cause error, suggestion string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", message))

	if cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", cause.Error()))
	}

	if suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", suggestion))
	}

	return b.String()
}

// IsCode checks if an error is a coded error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var coded Coded
	if errors.As(err, &coded) {
		return coded.ErrorCode() == code
	}
	return false
}

// ExitError carries a child process exit status through the cobra error
// path. It is not a failure of the CLI itself: main exits with Code and
// prints nothing, since the child already wrote its own diagnostics.
type ExitError struct {
	Code int
}

// NewExitError creates an ExitError for the given exit status.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// GetExitCode extracts the exit code from an ExitError anywhere in the chain.
func GetExitCode(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
