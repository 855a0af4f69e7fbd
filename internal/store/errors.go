package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store. This is the generic version of the entity-specific not
	// found errors below.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g. a second progress record for the same
	// learner and word).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrPersistence is returned when a read or write fails for
	// infrastructure reasons. It is recoverable: the caller may retry the
	// same operation, since the scheduling computation that produced the
	// entity is pure and replays identically.
	ErrPersistence = errors.New("persistence failed")

	// Entity-specific "not found" errors

	// ErrProgressNotFound indicates that no progress record exists for
	// the (learner, word) pair. For the session engine this is not an
	// error condition: it means the word has never been rated.
	ErrProgressNotFound = fmt.Errorf("%w: progress record", ErrNotFound)

	// ErrWordNotFound indicates that the requested word does not exist in the catalog.
	ErrWordNotFound = fmt.Errorf("%w: word", ErrNotFound)

	// ErrNormalProgressNotFound indicates that no normal-mode progress
	// exists for the (learner, word) pair.
	ErrNormalProgressNotFound = fmt.Errorf("%w: normal progress", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g. "progress_record", "word")
	Operation string // The operation that failed (e.g. "get", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
