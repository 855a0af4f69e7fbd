package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon-api/internal/domain"
	"github.com/lexikon-app/lexikon-api/internal/domain/srs"
	"github.com/lexikon-app/lexikon-api/internal/platform/logger"
	"github.com/lexikon-app/lexikon-api/internal/store"
)

// Session is the immutable output of the builder: an ordered word queue
// for one learner.
type Session struct {
	ID        uuid.UUID      `json:"id"`
	LearnerID uuid.UUID      `json:"learner_id"`
	ListIDs   []uuid.UUID    `json:"list_ids"`
	Words     []*domain.Word `json:"words"`
	AsOf      time.Time      `json:"as_of"`
	CreatedAt time.Time      `json:"created_at"`
}

// State is the runner's position in its lifecycle.
type State string

// Runner states. Rated and Advancing are transient: SubmitRating passes
// through them and always leaves the runner in Ready or Complete.
const (
	StateReady     State = "ready"
	StateRated     State = "rated"
	StateAdvancing State = "advancing"
	StateComplete  State = "complete"
)

// Summary aggregates a completed session.
type Summary struct {
	Counts        map[domain.Rating]int `json:"counts"`
	TotalReviewed int                   `json:"total_reviewed"`
	Words         []*domain.Word        `json:"words"`
}

// Runner drives the interactive loop over a built session: present a
// word, accept a rating, persist the scheduling result, advance.
//
// A runner belongs to a single interactive client; the internal mutex
// only defends against a misbehaving client submitting concurrently,
// in which case the loser of the race gets ErrInvalidTransition.
type Runner struct {
	mu      sync.Mutex
	session *Session
	cursor  int
	state   State
	counts  map[domain.Rating]int

	progressStore store.ProgressStore
	srsService    srs.Service
	logger        *slog.Logger
}

// NewRunner creates a runner positioned at the first word of the
// session. A session with no words starts out Complete: there is
// nothing to review and the caller should present the caught-up state.
func NewRunner(
	session *Session,
	progressStore store.ProgressStore,
	srsService srs.Service,
	logger *slog.Logger,
) *Runner {
	if session == nil {
		panic("session cannot be nil")
	}
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	state := StateReady
	if len(session.Words) == 0 {
		state = StateComplete
	}

	return &Runner{
		session:       session,
		state:         state,
		counts:        make(map[domain.Rating]int),
		progressStore: progressStore,
		srsService:    srsService,
		logger:        logger.With(slog.String("component", "session_runner")),
	}
}

// Session returns the session this runner drives.
func (r *Runner) Session() *Session {
	return r.session
}

// State returns the runner's current state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// CurrentWord returns the word awaiting a rating, or nil when the
// session is complete.
func (r *Runner) CurrentWord() *domain.Word {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateReady {
		return nil
	}
	return r.session.Words[r.cursor]
}

// SubmitRating records the learner's rating for the current word,
// applies the scheduling algorithm, and persists the result.
//
// The write must land before the cursor advances: the due-pool
// computation for future sessions depends on it. On a persistence
// failure the tally and cursor are untouched and the same submission
// may be retried.
func (r *Runner) SubmitRating(
	ctx context.Context,
	wordID uuid.UUID,
	rating domain.Rating,
) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	if !rating.Valid() {
		return nil, domain.ErrInvalidRating
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateComplete {
		return nil, ErrSessionComplete
	}
	if r.state != StateReady || r.session.Words[r.cursor].ID != wordID {
		return nil, ErrInvalidTransition
	}

	// Load the prior state, defaulting for a first-ever rating.
	record, err := r.progressStore.Get(ctx, r.session.LearnerID, wordID)
	firstRating := false
	if err != nil {
		if !errors.Is(err, store.ErrProgressNotFound) {
			return nil, &PersistenceError{Operation: "get", Err: err}
		}
		firstRating = true
		record, err = domain.NewProgressRecord(r.session.LearnerID, wordID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize progress record: %w", err)
		}
	}

	now := time.Now().UTC()
	newRecord, err := r.srsService.CalculateNextReview(record, rating, now)
	if err != nil {
		return nil, err
	}

	r.state = StateRated

	if firstRating {
		err = r.progressStore.Create(ctx, newRecord)
	} else {
		err = r.progressStore.Update(ctx, newRecord)
	}
	if err != nil {
		// The rating did not land; stay on this word so the client can
		// retry the identical submission.
		r.state = StateReady
		op := "update"
		if firstRating {
			op = "create"
		}
		return nil, &PersistenceError{Operation: op, Err: err}
	}

	r.counts[rating]++

	r.state = StateAdvancing
	r.cursor++
	if r.cursor >= len(r.session.Words) {
		r.state = StateComplete
	} else {
		r.state = StateReady
	}

	log.Debug("rating recorded",
		slog.String("learner_id", r.session.LearnerID.String()),
		slog.String("word_id", wordID.String()),
		slog.String("rating", string(rating)),
		slog.Int("interval_days", newRecord.IntervalDays),
		slog.Float64("ease_factor", newRecord.EaseFactor),
		slog.Bool("mastered", newRecord.IsMastered))

	return newRecord, nil
}

// Summary returns the aggregated results of a completed session.
// Returns ErrSessionNotComplete while any word still awaits a rating.
func (r *Runner) Summary() (*Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateComplete {
		return nil, ErrSessionNotComplete
	}

	counts := make(map[domain.Rating]int, len(r.counts))
	total := 0
	for rating, n := range r.counts {
		counts[rating] = n
		total += n
	}

	words := make([]*domain.Word, len(r.session.Words))
	copy(words, r.session.Words)

	return &Summary{
		Counts:        counts,
		TotalReviewed: total,
		Words:         words,
	}, nil
}
