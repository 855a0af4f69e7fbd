package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidStreak indicates a negative correct streak, which the
// floor-at-zero update rule can never produce.
var ErrInvalidStreak = errors.New("correct streak must be greater than or equal to 0")

// NormalProgress tracks the non-SRS "normal quiz" counter for a single
// word. It has no scheduling component: no intervals, no due dates.
// Mastery is reached at a fixed streak and shares the SRS threshold.
type NormalProgress struct {
	LearnerID     uuid.UUID `json:"learner_id"`
	WordID        uuid.UUID `json:"word_id"`
	CorrectStreak int       `json:"correct_streak"` // +1 on correct, -1 on incorrect, floored at 0
	IsMastered    bool      `json:"is_mastered"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewNormalProgress creates the zero-streak state for a word.
func NewNormalProgress(learnerID, wordID uuid.UUID) (*NormalProgress, error) {
	now := time.Now().UTC()
	progress := &NormalProgress{
		LearnerID: learnerID,
		WordID:    wordID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the NormalProgress has valid data.
func (p *NormalProgress) Validate() error {
	if p.LearnerID == uuid.Nil {
		return ErrEmptyProgressLearnerID
	}

	if p.WordID == uuid.Nil {
		return ErrEmptyProgressWordID
	}

	if p.CorrectStreak < 0 {
		return ErrInvalidStreak
	}

	return nil
}
