package models

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeMultipleMatches = "MULTIPLE_MATCHES"
	CodeUnavailable     = "UNAVAILABLE"
	CodeInternal        = "INTERNAL_ERROR"
)

// AppError is the application error type. Code classifies the failure so
// callers can branch without string matching; Err holds the wrapped cause.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewConflictError signals a uniqueness or duplicate-association violation.
// Surfaced distinctly so callers can show a field-level message.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewMultipleMatchesError signals a data-integrity fault: a lookup that must
// match at most one live row matched several. It is logged and treated as
// fatal by callers, never resolved silently.
func NewMultipleMatchesError(resource, column string, value interface{}) *AppError {
	return &AppError{
		Code:    CodeMultipleMatches,
		Message: fmt.Sprintf("multiple %s rows match %s = %v", resource, column, value),
	}
}

// NewUnavailableError signals a connection or transport failure talking to
// the backend. The core does not retry; the caller decides.
func NewUnavailableError(err error) *AppError {
	return &AppError{
		Code:    CodeUnavailable,
		Message: "storage backend unavailable",
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound reports whether err signals a missing or soft-deleted row.
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

// IsConflict reports whether err signals a uniqueness violation.
func IsConflict(err error) bool { return HasCode(err, CodeConflict) }

// IsValidation reports whether err signals rejected input.
func IsValidation(err error) bool { return HasCode(err, CodeValidation) }
