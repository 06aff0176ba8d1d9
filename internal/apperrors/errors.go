// Package apperrors defines the error taxonomy shared by services and
// handlers. Services wrap one of the sentinels with fmt.Errorf("...: %w", ...)
// and handlers map the chain to an HTTP status with StatusFor.
package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrValidation marks missing or malformed input the caller can fix.
	ErrValidation = errors.New("validation failed")
	// ErrAccessDenied marks a role or ownership mismatch.
	ErrAccessDenied = errors.New("access denied")
	// ErrNotFound marks an absent resource.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a duplicate of an existing resource.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState marks a mutation attempted outside its allowed state.
	ErrInvalidState = errors.New("invalid state")
)

// StatusFor maps an error chain to an HTTP status code. Errors outside the
// taxonomy are internal failures.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrAccessDenied):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidState):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Internal reports whether the error falls outside the taxonomy and its
// detail must not be surfaced to the caller.
func Internal(err error) bool {
	return StatusFor(err) == fiber.StatusInternalServerError
}
