// Package apperrors defines the error taxonomy shared by services and the
// HTTP layer: validation, transition, not-found, policy and dependency
// failures. SLA breaches are domain facts, never errors.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition means a status rule was violated. Surfaced to the
	// caller as a rejected action, not retried.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound means a stale identifier was supplied.
	ErrNotFound = errors.New("record not found")

	// ErrPolicyDenied means the capability check failed upstream.
	ErrPolicyDenied = errors.New("operation not permitted")
)

// ValidationError is a field-level input error the caller can recover from
// by reprompting.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation builds a field-level validation error.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// DependencyError wraps a failure of an external collaborator
// (notification transport, file storage). Retried by the queue layer,
// logged rather than surfaced as a hard failure to the original caller.
type DependencyError struct {
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// WrapDependency tags err with the collaborator that produced it.
func WrapDependency(dependency string, err error) error {
	if err == nil {
		return nil
	}
	return &DependencyError{Dependency: dependency, Err: err}
}

// InvalidTransition builds an ErrInvalidTransition with the offending move.
func InvalidTransition(from, to string) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
