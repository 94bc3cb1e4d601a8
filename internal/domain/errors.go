// Package domain contains the quotation lifecycle rules and their error taxonomy.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/gRPC/etc by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates a referenced entity (quotation, user, company) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflictingState indicates the action is illegal for the quotation's current status,
	// including the loser of a race between two concurrent transitions.
	ErrConflictingState = errors.New("conflicting state")

	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrPermissionDenied indicates a capability or ownership check failed.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrStorage indicates the storage collaborator failed and the outcome is unknown.
	ErrStorage = errors.New("storage error")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictingStateError reports an action attempted from a status that is not one of its sources.
type ConflictingStateError struct {
	Action  ActionName
	Current Status
	Reason  string
}

// Error implements the error interface.
func (e *ConflictingStateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s quotation in status %s: %s", e.Action, e.Current, e.Reason)
	}

	return fmt.Sprintf("cannot %s quotation in status %s", e.Action, e.Current)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConflictingStateError) Unwrap() error {
	return ErrConflictingState
}

// NewConflictingStateError creates a conflicting state error for the given action and status.
func NewConflictingStateError(action ActionName, current Status) error {
	return &ConflictingStateError{Action: action, Current: current}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on field %q: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error that carries the rejected value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// PermissionDeniedError provides context for capability and ownership failures.
type PermissionDeniedError struct {
	Operation string
	Reason    string
}

// Error implements the error interface.
func (e *PermissionDeniedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("permission denied for %s: %s", e.Operation, e.Reason)
	}

	return "permission denied for " + e.Operation
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *PermissionDeniedError) Unwrap() error {
	return ErrPermissionDenied
}

// NewPermissionDeniedError creates a permission denied error.
func NewPermissionDeniedError(operation, reason string) error {
	return &PermissionDeniedError{Operation: operation, Reason: reason}
}

// StorageError wraps a failure of the persistence or delivery layer.
// Callers should reload current state before retrying.
type StorageError struct {
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage failure during %s: %v", e.Operation, e.Err)
	}

	return "storage failure during " + e.Operation
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *StorageError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStorage}
	}

	return []error{ErrStorage, e.Err}
}

// NewStorageError creates a storage error wrapping the driver cause.
func NewStorageError(operation string, err error) error {
	return &StorageError{Operation: operation, Err: err}
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflictingState checks if the error is a conflicting state error.
func IsConflictingState(err error) bool {
	return errors.Is(err, ErrConflictingState)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsPermissionDenied checks if the error is a permission denied error.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsStorage checks if the error is a storage error.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
