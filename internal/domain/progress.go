package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ProgressRecord
var (
	ErrEmptyProgressLearnerID = errors.New("progress record learner ID cannot be empty")
	ErrEmptyProgressWordID    = errors.New("progress record word ID cannot be empty")
	ErrInvalidRepetitions     = errors.New("repetitions must be greater than or equal to 0")
	ErrInvalidInterval        = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEaseFactor      = errors.New("ease factor must be greater than or equal to 1.3")
)

// Mastery thresholds. A word is mastered once the learner has produced
// seven consecutive successful reviews without the ease factor having
// decayed below its starting value.
const (
	MasteryRepetitions = 7
	MasteryEaseFactor  = 2.5
)

// DefaultEaseFactor is the ease factor assigned before the first review.
const DefaultEaseFactor = 2.5

// MinEaseFactor is the floor below which the ease factor never drops.
const MinEaseFactor = 1.3

// ProgressRecord tracks a learner's spaced repetition state for a single
// word. A record does not exist until the learner rates the word for the
// first time, and is mutated exactly once per rating event.
//
// NextReviewAt is the zero time for a record that has never been
// scheduled; such words count as "new" rather than "due".
type ProgressRecord struct {
	LearnerID      uuid.UUID `json:"learner_id"`
	WordID         uuid.UUID `json:"word_id"`
	Repetitions    int       `json:"repetitions"`      // Consecutive successful reviews since the last lapse
	EaseFactor     float64   `json:"ease_factor"`      // Interval growth multiplier, never below 1.3
	IntervalDays   int       `json:"interval_days"`    // Days until the next scheduled review
	NextReviewAt   time.Time `json:"next_review_at"`   // Zero until the first review
	IsMastered     bool      `json:"is_mastered"`      // Derived; recomputed after every rating
	LastReviewedAt time.Time `json:"last_reviewed_at"` // Zero until the first review
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewProgressRecord creates the default state for a word the learner has
// never reviewed. The record is not persisted until the first rating.
func NewProgressRecord(learnerID, wordID uuid.UUID) (*ProgressRecord, error) {
	now := time.Now().UTC()
	record := &ProgressRecord{
		LearnerID:    learnerID,
		WordID:       wordID,
		Repetitions:  0,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the ProgressRecord has valid data.
// Returns an error if any field fails validation.
func (p *ProgressRecord) Validate() error {
	if p.LearnerID == uuid.Nil {
		return ErrEmptyProgressLearnerID
	}

	if p.WordID == uuid.Nil {
		return ErrEmptyProgressWordID
	}

	if p.Repetitions < 0 {
		return ErrInvalidRepetitions
	}

	if p.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if p.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}

	return nil
}

// Reviewed reports whether the word has ever been rated. Unreviewed
// records belong to the "new" pool regardless of their other fields.
func (p *ProgressRecord) Reviewed() bool {
	return !p.LastReviewedAt.IsZero()
}

// DueOn reports whether the record is scheduled on or before the given
// date. Records that were never reviewed are not due; they are new.
func (p *ProgressRecord) DueOn(asOf time.Time) bool {
	if !p.Reviewed() || p.IsMastered {
		return false
	}
	return !p.NextReviewAt.After(asOf)
}
