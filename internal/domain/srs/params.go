package srs

import (
	"github.com/lexikon-app/lexikon-api/internal/domain"
)

// Params defines all configurable parameters for the SRS algorithm.
//
// The defaults are the review-timing contract of the application: they
// reproduce the interval and ease arithmetic learners' schedules were
// built on, so changing any of them reschedules every existing record.
type Params struct {
	// Core limits
	MinEaseFactor float64

	// Ease factor adjustment applied per rating. The values for Good and
	// Easy are the SM-2 ease delta 0.1-(5-q)*(0.08+(5-q)*0.02) evaluated
	// at the quality scores this system actually produces; the lapse
	// ratings use a flat penalty instead of the formula.
	EaseAdjustment map[domain.Rating]float64

	// Interval scheduled by any lapse rating, in days.
	LapseIntervalDays int

	// Interval after the first successful review, in days.
	FirstIntervalDays int

	// Interval after the second consecutive successful review, per rating.
	SecondIntervalDays map[domain.Rating]int

	// Extra multiplier applied to the computed interval for Easy ratings
	// from the third consecutive success onward.
	EasyIntervalBonus float64

	// Mastery thresholds. Both must hold for a word to leave rotation.
	MasteryRepetitions int
	MasteryEaseFactor  float64
}

// NewDefaultParams creates a new Params instance with the production values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor: domain.MinEaseFactor,

		EaseAdjustment: map[domain.Rating]float64{
			domain.RatingAgain: -0.20,
			domain.RatingHard:  -0.20,
			domain.RatingGood:  0.0,
			domain.RatingEasy:  0.1,
		},

		LapseIntervalDays: 1,
		FirstIntervalDays: 1,

		SecondIntervalDays: map[domain.Rating]int{
			domain.RatingGood: 3,
			domain.RatingEasy: 4,
		},

		EasyIntervalBonus: 1.3,

		MasteryRepetitions: domain.MasteryRepetitions,
		MasteryEaseFactor:  domain.MasteryEaseFactor,
	}
}
