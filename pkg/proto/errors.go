package proto

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is wrapped by every "not found" error.
	ErrNotFound = errors.New("not found")
	// ErrWebhookNotFound is returned when a webhook is not found.
	ErrWebhookNotFound = fmt.Errorf("webhook %w", ErrNotFound)
	// ErrWebhookLogNotFound is returned when a delivery log entry is not found.
	ErrWebhookLogNotFound = fmt.Errorf("webhook log %w", ErrNotFound)
	// ErrProjectNotFound is returned when a project is not found.
	ErrProjectNotFound = fmt.Errorf("project %w", ErrNotFound)
	// ErrTaskNotFound is returned when a task is not found.
	ErrTaskNotFound = fmt.Errorf("task %w", ErrNotFound)
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = fmt.Errorf("role %w", ErrNotFound)
	// ErrAlreadyExists is returned when a unique value is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInUse is returned when a record is still referenced by others.
	ErrInUse = errors.New("record is still in use")
)

// ValidationError lists the fields rejected by a write.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a problem with field. The first message per field wins.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Err returns nil when no field was rejected.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Error implements error.
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
