package srs

import (
	"math"
	"time"

	"github.com/lexikon-app/lexikon-api/internal/domain"
)

// calculateNewEaseFactor determines the new ease factor after a review.
//
// Lapse ratings (Again, Hard) apply a flat penalty; successful ratings
// apply the SM-2 ease delta for their quality score, which is zero for
// Good and positive for Easy. The result is floored at MinEaseFactor and
// deliberately has no upper bound: mastery requires the ease factor to
// sit at or above its starting value, so Easy must be able to push it
// past 2.5.
func calculateNewEaseFactor(
	currentEF float64,
	rating domain.Rating,
	params *Params,
) float64 {
	newEF := currentEF + params.EaseAdjustment[rating]

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the new interval in days after a
// successful review (Good or Easy).
//
// Parameters:
//   - repetitions: the consecutive-success count INCLUDING this review
//   - priorInterval: the interval before this review, in days
//   - easeFactor: the ease factor BEFORE this review's adjustment
//   - rating: the successful rating (Good or Easy)
//
// Behavior:
//   - First success: fixed 1-day interval, for every rating. An Easy on
//     the very first review does not skip ahead; the rating-specific
//     growth only starts at the second success.
//   - Second success: 3 days for Good, 4 for Easy.
//   - Third success onward: round(priorInterval x easeFactor), and for
//     Easy the result is multiplied by the bonus and rounded again.
//
// The interval is never rounded below 1 for a successful review. Lapses
// do not go through this function; they always schedule LapseIntervalDays.
func calculateNewInterval(
	repetitions int,
	priorInterval int,
	easeFactor float64,
	rating domain.Rating,
	params *Params,
) int {
	switch {
	case repetitions == 1:
		return params.FirstIntervalDays
	case repetitions == 2:
		return params.SecondIntervalDays[rating]
	default:
		interval := math.Round(float64(priorInterval) * easeFactor)
		if rating == domain.RatingEasy {
			interval = math.Round(interval * params.EasyIntervalBonus)
		}
		if interval < 1 {
			interval = 1
		}
		return int(interval)
	}
}

// calculateNextRecord creates a new ProgressRecord with updated values
// based on the review rating.
//
// This is the full per-review state transition. It follows immutability
// principles by returning a new record rather than modifying the input,
// which keeps the function safe to re-run: replaying the same prior
// state and rating always yields the same result.
//
// The interval calculation uses the ease factor from BEFORE this
// review's adjustment; the adjustment takes effect on the next review.
// The mastery flag is recomputed on every transition and is the only
// place in the system that sets it.
func calculateNextRecord(
	record *domain.ProgressRecord,
	rating domain.Rating,
	now time.Time,
	params *Params,
) *domain.ProgressRecord {
	next := &domain.ProgressRecord{
		LearnerID: record.LearnerID,
		WordID:    record.WordID,
		CreatedAt: record.CreatedAt,
	}

	if rating.IsLapse() {
		next.Repetitions = 0
		next.IntervalDays = params.LapseIntervalDays
	} else {
		next.Repetitions = record.Repetitions + 1
		next.IntervalDays = calculateNewInterval(
			next.Repetitions,
			record.IntervalDays,
			record.EaseFactor,
			rating,
			params,
		)
	}

	next.EaseFactor = calculateNewEaseFactor(record.EaseFactor, rating, params)

	next.LastReviewedAt = now
	// Calendar days, not elapsed hours: a review late in the day with a
	// 1-day interval is due the next day.
	next.NextReviewAt = now.AddDate(0, 0, next.IntervalDays)

	next.IsMastered = next.Repetitions >= params.MasteryRepetitions &&
		next.EaseFactor >= params.MasteryEaseFactor

	next.UpdatedAt = now

	return next
}
