package errors

import (
	"fmt"
	"net/http"
	"runtime/debug"
)

// Error codes used by the relay core. Validation and storage errors are
// reported to the originating connection only; they never abort processing
// for other members of a session.
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeUnknownSession     = "UNKNOWN_SESSION"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	Stack      string `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// NewError creates a new application error
func NewError(statusCode int, code string, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Stack:      string(debug.Stack()),
	}
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(code string, message string) *AppError {
	return NewError(http.StatusBadRequest, code, message)
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(code string, message string) *AppError {
	return NewError(http.StatusNotFound, code, message)
}

// NewConflictError creates a 409 Conflict error
func NewConflictError(code string, message string) *AppError {
	return NewError(http.StatusConflict, code, message)
}

// NewInternalServerError creates a 500 Internal Server Error
func NewInternalServerError(code string, message string) *AppError {
	return NewError(http.StatusInternalServerError, code, message)
}

// NewValidationError reports missing or malformed message fields.
func NewValidationError(message string) *AppError {
	return NewBadRequestError(CodeValidationFailed, message)
}

// NewStorageUnavailableError reports an unreachable persistence backend.
func NewStorageUnavailableError(message string) *AppError {
	return NewError(http.StatusServiceUnavailable, CodeStorageUnavailable, message)
}

// NewUnknownSessionError reports a join against a session the registry has
// never seen. Only raised when join-time validation is enabled.
func NewUnknownSessionError(sessionID string) *AppError {
	return NewNotFoundError(CodeUnknownSession, fmt.Sprintf("unknown session %q", sessionID))
}

// Is checks if the target error is of type AppError
func Is(err error, target *AppError) bool {
	appErr, ok := err.(*AppError)
	if !ok {
		return false
	}
	return appErr.Code == target.Code
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
