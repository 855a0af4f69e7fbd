// Package session implements the study-session engine: assembling a
// bounded queue of due and new words for a learner, and driving the
// interactive review loop over that queue.
package session

import (
	"errors"
	"fmt"
)

// Common error types for the session engine
var (
	// ErrNoListsSelected indicates a build request without any source lists.
	ErrNoListsSelected = errors.New("at least one list must be selected")

	// ErrInvalidTargetSize indicates a non-positive target session size.
	ErrInvalidTargetSize = errors.New("target size must be at least 1")

	// ErrTargetSizeTooLarge indicates a target size above the configured cap.
	ErrTargetSizeTooLarge = errors.New("target size exceeds the configured maximum")

	// ErrSessionNotFound indicates that no live session exists for the given ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidTransition indicates a rating submitted for a word that
	// is not the one currently awaiting a rating. This guards against
	// double submission for the same card and is a client error, not a
	// retryable condition.
	ErrInvalidTransition = errors.New("invalid transition: word is not awaiting a rating")

	// ErrSessionComplete indicates a rating submitted after the last
	// word was already rated.
	ErrSessionComplete = errors.New("session already complete")

	// ErrSessionNotComplete indicates a summary requested before every
	// word has been rated.
	ErrSessionNotComplete = errors.New("session still in progress")
)

// PersistenceError wraps a store failure during rating submission. It is
// recoverable: the rating was not counted and the cursor did not move,
// so the caller may retry the identical submission. Recomputation is
// safe because the scheduling transformation is pure.
type PersistenceError struct {
	// Operation is the store operation that failed (e.g. "get", "create", "update")
	Operation string
	// Err is the underlying store error
	Err error
}

// Error implements the error interface for PersistenceError.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError reports whether the error is a recoverable
// persistence failure.
func IsPersistenceError(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr)
}
