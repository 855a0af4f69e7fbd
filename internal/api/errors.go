package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lexikon-app/lexikon-api/internal/domain"
	"github.com/lexikon-app/lexikon-api/internal/domain/srs"
	"github.com/lexikon-app/lexikon-api/internal/service/auth"
	"github.com/lexikon-app/lexikon-api/internal/service/progress"
	"github.com/lexikon-app/lexikon-api/internal/service/session"
	"github.com/lexikon-app/lexikon-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	var perr *session.PersistenceError

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, store.ErrWordNotFound),
		errors.Is(err, store.ErrProgressNotFound),
		errors.Is(err, store.ErrNormalProgressNotFound),
		errors.Is(err, progress.ErrNeverReviewed):
		return http.StatusNotFound

	// Conflict errors: the request is well-formed but the session is not
	// in a state that accepts it
	case errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, session.ErrSessionComplete),
		errors.Is(err, session.ErrSessionNotComplete):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, session.ErrNoListsSelected),
		errors.Is(err, session.ErrInvalidTargetSize),
		errors.Is(err, session.ErrTargetSizeTooLarge),
		errors.Is(err, srs.ErrInvalidDays),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// A failed write is retryable: signal the client to try again
	case errors.As(err, &perr):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var perr *session.PersistenceError

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, session.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, store.ErrWordNotFound):
		return "Word not found"

	case errors.Is(err, store.ErrProgressNotFound):
		return "Progress not found"

	case errors.Is(err, store.ErrNormalProgressNotFound):
		return "Progress not found"

	case errors.Is(err, progress.ErrNeverReviewed):
		return "Word has no scheduled review"

	case errors.Is(err, session.ErrInvalidTransition):
		return "Word is not awaiting a rating"

	case errors.Is(err, session.ErrSessionComplete):
		return "Session already complete"

	case errors.Is(err, session.ErrSessionNotComplete):
		return "Session still in progress"

	case errors.Is(err, domain.ErrInvalidRating):
		return "Invalid rating"

	case errors.Is(err, session.ErrNoListsSelected):
		return "At least one list must be selected"

	case errors.Is(err, session.ErrInvalidTargetSize),
		errors.Is(err, session.ErrTargetSizeTooLarge):
		return "Invalid session size"

	case errors.Is(err, srs.ErrInvalidDays):
		return "Postpone days must be at least 1"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.As(err, &perr):
		return "Could not save the rating, please retry"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'CreateSessionRequest.TargetSize'
		// Error:Field validation for 'TargetSize' failed on the 'gte' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}
