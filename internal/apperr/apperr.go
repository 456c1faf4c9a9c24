// Package apperr defines the error kinds the services return. Handlers map
// them onto HTTP statuses; everything else is treated as a store failure.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrDuplicateUsername is returned when registration hits the unique
	// constraint on usernames.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrNotFound is returned when a referenced user or post does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned when a password does not verify
	// against the stored hash.
	ErrInvalidCredentials = errors.New("incorrect password")

	// ErrAuthRequired is returned when a guarded operation runs without a
	// resolved identity.
	ErrAuthRequired = errors.New("authentication required")

	// ErrForbidden is returned when the caller is authenticated but is not
	// the owner of the resource.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validation builds a field-level validation error.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StoreError wraps an unexpected storage failure. It is not recoverable by
// the services and surfaces as a server error.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps err as a StoreError unless it is nil or already one of the
// recoverable kinds above.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrDuplicateUsername) || errors.Is(err, ErrNotFound) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// HTTPStatus maps an error onto the status code the presentation layer
// should answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateUsername):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
