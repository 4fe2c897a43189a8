package errors

import (
	"net/http"

	"tripwatch/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Scan admission errors. These abort the scan before any event exists.
	ErrUnknownTag = NewBaseError(
		http.StatusNotFound,
		"UNKNOWN_TAG",
		"No child is bound to this tag",
		"",
	)

	ErrInactiveTag = NewBaseError(
		http.StatusConflict,
		"INACTIVE_TAG",
		"The child has no active enrollment in this group's trip window",
		"",
	)

	ErrSessionExpired = NewBaseError(
		http.StatusGone,
		"SESSION_EXPIRED",
		"The scan session is no longer valid, open a new one",
		"",
	)

	ErrSessionNotFound = NewBaseError(
		http.StatusNotFound,
		"SESSION_NOT_FOUND",
		"No scan session with this ID is open",
		"",
	)

	// Group / window errors.
	ErrGroupWindowClosed = NewBaseError(
		http.StatusConflict,
		"GROUP_WINDOW_CLOSED",
		"The group has no enrollment inside its trip window",
		"",
	)

	// Dispatch errors. Surfaced only after the retry ceiling is exhausted.
	ErrDispatchFailed = NewBaseError(
		http.StatusBadGateway,
		"DISPATCH_FAILED",
		"The guardian notification could not be delivered",
		"",
	)

	// Confirmation errors.
	ErrConfirmationNotFound = NewBaseError(
		http.StatusNotFound,
		"CONFIRMATION_NOT_FOUND",
		"No confirmation with this ID exists",
		"",
	)

	// Directory errors.
	ErrChildNotFound = NewBaseError(
		http.StatusNotFound,
		"CHILD_NOT_FOUND",
		"Child record not found",
		"",
	)

	ErrGuardianNotFound = NewBaseError(
		http.StatusNotFound,
		"GUARDIAN_NOT_FOUND",
		"Guardian record not found",
		"",
	)

	// Validation-related errors.
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	// General errors.
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal error",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)

	ErrConflict = NewBaseError(
		http.StatusConflict,
		"CONFLICT",
		"Resource conflict",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
