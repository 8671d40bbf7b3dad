// Package apperrors defines the error kinds shared by services and handlers
package apperrors

import (
	"errors"
	"net/http"
)

// Error kinds. Services wrap one of these so handlers can pick a status code
// without inspecting message text.
var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrExternalService  = errors.New("external service error")
	ErrIntegrity        = errors.New("integrity error")
	ErrInvalidSignature = errors.New("invalid signature")
)

// kindError carries a caller-facing message and the kind it belongs to
type kindError struct {
	kind    error
	message string
	cause   error
}

func (e *kindError) Error() string {
	return e.message
}

// Is reports whether target is the kind of this error
func (e *kindError) Is(target error) bool {
	return target == e.kind
}

// Unwrap returns the underlying cause, if any
func (e *kindError) Unwrap() error {
	return e.cause
}

// Wrap returns an error of the given kind with a caller-facing message
func Wrap(kind error, message string) error {
	return &kindError{kind: kind, message: message}
}

// WrapCause is like Wrap but keeps the underlying cause for logging
func WrapCause(kind error, message string, cause error) error {
	return &kindError{kind: kind, message: message, cause: cause}
}

// Validation is shorthand for Wrap(ErrValidation, message)
func Validation(message string) error {
	return Wrap(ErrValidation, message)
}

// NotFound is shorthand for Wrap(ErrNotFound, message)
func NotFound(message string) error {
	return Wrap(ErrNotFound, message)
}

// Conflict is shorthand for Wrap(ErrConflict, message)
func Conflict(message string) error {
	return Wrap(ErrConflict, message)
}

// Forbidden is shorthand for Wrap(ErrForbidden, message)
func Forbidden(message string) error {
	return Wrap(ErrForbidden, message)
}

// StatusCode maps an error to the HTTP status code of its kind.
// Errors of unknown kind map to 500.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrExternalService):
		return http.StatusBadGateway
	case errors.Is(err, ErrIntegrity):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// IsDomain reports whether err belongs to one of the known kinds,
// meaning its message is safe to show to the caller
func IsDomain(err error) bool {
	return StatusCode(err) != http.StatusInternalServerError
}
