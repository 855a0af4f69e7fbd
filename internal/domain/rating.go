package domain

import "errors"

// Rating represents how well a learner recalled a word during review.
type Rating string

// The four accepted rating labels. The scale is intentionally closed:
// there is no rating between Hard and Good or between Good and Easy.
const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// ErrInvalidRating indicates a rating outside the four accepted labels.
// Callers must treat this as a programmer or client error, never retry it.
var ErrInvalidRating = errors.New("invalid rating")

// qualityByRating maps each rating to its SM-2 quality score. Quality
// values 2 and 4 do not exist in this system.
var qualityByRating = map[Rating]int{
	RatingAgain: 0,
	RatingHard:  1,
	RatingGood:  3,
	RatingEasy:  5,
}

// Valid reports whether the rating is one of the four accepted labels.
func (r Rating) Valid() bool {
	_, ok := qualityByRating[r]
	return ok
}

// Quality returns the SM-2 quality score for the rating (0, 1, 3 or 5).
// Returns ErrInvalidRating for anything outside the accepted labels.
func (r Rating) Quality() (int, error) {
	q, ok := qualityByRating[r]
	if !ok {
		return 0, ErrInvalidRating
	}
	return q, nil
}

// IsLapse reports whether the rating counts as a failed recall.
// Ratings with quality below 3 (Again, Hard) are lapses.
func (r Rating) IsLapse() bool {
	return r == RatingAgain || r == RatingHard
}

// AllRatings lists every accepted rating, in ascending quality order.
func AllRatings() []Rating {
	return []Rating{RatingAgain, RatingHard, RatingGood, RatingEasy}
}
