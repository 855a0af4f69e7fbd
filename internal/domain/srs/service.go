package srs

import (
	"errors"
	"time"

	"github.com/lexikon-app/lexikon-api/internal/domain"
)

// Common errors
var (
	ErrNilRecord   = errors.New("progress record cannot be nil")
	ErrInvalidDays = errors.New("postpone days must be at least 1")
)

// Service defines the interface for SRS algorithm operations.
// Implementations must be pure with respect to their inputs: no I/O and
// no mutation of the record passed in.
type Service interface {
	// CalculateNextReview computes a new progress record from a rating.
	// Returns domain.ErrInvalidRating for a rating outside the four
	// accepted labels; the input is never silently clamped.
	CalculateNextReview(
		record *domain.ProgressRecord,
		rating domain.Rating,
		now time.Time,
	) (*domain.ProgressRecord, error)

	// PostponeReview pushes the next review time forward by a number of
	// days without touching repetitions, ease factor, or mastery.
	PostponeReview(
		record *domain.ProgressRecord,
		days int,
		now time.Time,
	) (*domain.ProgressRecord, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements the Service interface.
func (s *defaultService) CalculateNextReview(
	record *domain.ProgressRecord,
	rating domain.Rating,
	now time.Time,
) (*domain.ProgressRecord, error) {
	if record == nil {
		return nil, ErrNilRecord
	}

	if !rating.Valid() {
		return nil, domain.ErrInvalidRating
	}

	return calculateNextRecord(record, rating, now, s.params), nil
}

// PostponeReview implements the Service interface.
func (s *defaultService) PostponeReview(
	record *domain.ProgressRecord,
	days int,
	now time.Time,
) (*domain.ProgressRecord, error) {
	if record == nil {
		return nil, ErrNilRecord
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	next := *record
	next.NextReviewAt = record.NextReviewAt.AddDate(0, 0, days)
	next.UpdatedAt = now

	return &next, nil
}
