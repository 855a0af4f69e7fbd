// Package streak implements the normal-quiz progress rule. Unlike the
// SRS engine it has no scheduling component: a single counter moves up
// and down with each answer and mastery is a fixed threshold.
package streak

import (
	"time"

	"github.com/lexikon-app/lexikon-api/internal/domain"
)

// MasteryStreak is the consecutive-correct count at which a word is
// considered mastered in normal mode. Shared with the SRS repetition
// threshold on purpose: both modes demand seven wins.
const MasteryStreak = domain.MasteryRepetitions

// Apply returns the new streak and mastery flag after one answer.
// Correct answers add one; incorrect answers subtract one, floored at
// zero. The streak is capped at the mastery threshold so a long run of
// correct answers cannot bank credit against future mistakes.
func Apply(currentStreak int, correct bool) (int, bool) {
	next := currentStreak
	if correct {
		next++
		if next > MasteryStreak {
			next = MasteryStreak
		}
	} else {
		next--
		if next < 0 {
			next = 0
		}
	}

	return next, next >= MasteryStreak
}

// ApplyToProgress returns a new NormalProgress with the answer applied,
// leaving the input untouched.
func ApplyToProgress(
	progress *domain.NormalProgress,
	correct bool,
	now time.Time,
) *domain.NormalProgress {
	next := *progress
	next.CorrectStreak, next.IsMastered = Apply(progress.CorrectStreak, correct)
	next.UpdatedAt = now
	return &next
}
