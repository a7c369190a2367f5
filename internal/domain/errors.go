package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("missing or invalid credentials")
	ErrForbidden       = errors.New("admin access required")
	ErrNotFound        = errors.New("record not found")
	// ErrConflict is returned when a write was based on a stale version or
	// would overwrite a record the caller did not know about.
	ErrConflict = errors.New("record was modified by someone else, reload and retry")
)

// ValidationError rejects malformed input before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
