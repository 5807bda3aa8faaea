package apperrors

import (
	"errors"
	"fmt"
)

// APIError is the error body returned by every endpoint: {"detail": ..., "code": ...}
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"detail"`
	Field   string    `json:"field,omitempty"`
	Status  int       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, message string) *APIError {
	return &APIError{Code: code, Message: message, Status: code.StatusCode()}
}

// NotFound creates a NOT_FOUND error, e.g. NotFound("Posht") -> "Posht not found"
func NotFound(resource string) *APIError {
	return newError(ErrNotFound, resource+" not found")
}

func Unauthorized(message string) *APIError {
	return newError(ErrUnauthorized, message)
}

func Forbidden(message string) *APIError {
	return newError(ErrForbidden, message)
}

func BadRequest(message string) *APIError {
	return newError(ErrBadRequest, message)
}

// Validation creates a VALIDATION_ERROR (422)
func Validation(field, message string) *APIError {
	e := newError(ErrValidation, message)
	e.Field = field
	return e
}

// Internal hides the cause from the client; callers log it.
func Internal() *APIError {
	return newError(ErrInternalError, "Internal server error")
}

// As extracts an *APIError from err, falling back to Internal.
func As(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal()
}
