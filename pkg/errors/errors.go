package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound          = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden         = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrValidation        = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrPayloadTooLarge   = New("PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge, "uploaded files are too large")
	ErrInternal          = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrSchema            = New("SCHEMA_ERROR", http.StatusUnprocessableEntity, "required columns are missing")
	ErrParse             = New("PARSE_ERROR", http.StatusUnprocessableEntity, "input file could not be read")
	ErrReferenceNotFound = New("REFERENCE_NOT_FOUND", http.StatusServiceUnavailable, "reference table is not available")
	ErrCacheMiss         = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error. Domain error kinds keep their
// own code and details; anything unknown becomes a generic internal error that
// carries the input checklist.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr.toError()
	}
	var refErr *ReferenceNotFoundError
	if errors.As(err, &refErr) {
		return refErr.toError()
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.toError()
	}
	internal := Wrap(err, ErrInternal.Code, ErrInternal.Status, "comparison failed unexpectedly")
	internal.Details = map[string]interface{}{"checklist": Checklist()}
	return internal
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
