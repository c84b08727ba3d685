// Package errors defines the coded errors returned by the reading log services.
//
// Services return typed errors and callers check them with errors.Is:
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    ...
//	}
package errors

import (
	"errors"
	"fmt"
)

// Is re-exports errors.Is so callers need only this package.
var Is = errors.Is

// Code represents a machine-readable error code.
type Code string

const (
	CodeValidation    Code = "VALIDATION"
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	CodeOutOfRange    Code = "OUT_OF_RANGE"
)

// ExitCode maps an error code to a process exit status.
func (c Code) ExitCode() int {
	switch c {
	case CodeValidation:
		return 2
	case CodeNotFound, CodeOutOfRange:
		return 3
	case CodeAlreadyExists:
		return 4
	default:
		return 1
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error carrying the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors for use with errors.Is().
var (
	ErrValidation    = &Error{Code: CodeValidation, Message: "validation error"}
	ErrNotFound      = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrOutOfRange    = &Error{Code: CodeOutOfRange, Message: "index out of range"}
)

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with per-field details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExistsf creates an already exists error with formatted message.
func AlreadyExistsf(format string, args ...any) *Error {
	return &Error{Code: CodeAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

// OutOfRange reports an index outside [0, size).
func OutOfRange(index, size int) *Error {
	return &Error{
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("row %d out of range (have %d rows)", index, size),
		Details: map[string]int{"index": index, "size": size},
	}
}

// OutOfRangef creates an out of range error with formatted message.
func OutOfRangef(format string, args ...any) *Error {
	return &Error{Code: CodeOutOfRange, Message: fmt.Sprintf(format, args...)}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
