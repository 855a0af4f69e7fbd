package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon-api/internal/domain"
)

// LearnerDueCount is one row of the due digest: how many unmastered
// words are waiting for a learner on a given date.
type LearnerDueCount struct {
	LearnerID uuid.UUID
	DueWords  int
}

// ProgressStore defines the interface for spaced-repetition progress
// persistence. One record exists per (learner, word) pair, created
// lazily on the first rating.
type ProgressStore interface {
	// Get retrieves the progress record for a learner and word.
	// Returns ErrProgressNotFound if the word has never been rated.
	Get(ctx context.Context, learnerID, wordID uuid.UUID) (*domain.ProgressRecord, error)

	// Create saves a new progress record.
	// Returns ErrDuplicate if a record for the pair already exists.
	// Returns validation errors from the domain ProgressRecord if data is invalid.
	Create(ctx context.Context, record *domain.ProgressRecord) error

	// Update modifies an existing progress record, identified by the
	// learner and word IDs on the record. Last write wins; the engine
	// guarantees a single writer per pair within a session.
	// Returns ErrProgressNotFound if the record does not exist.
	Update(ctx context.Context, record *domain.ProgressRecord) error

	// QueryDue returns the IDs of words in the given lists whose
	// unmastered progress records are scheduled on or before asOf.
	// Words that have never been rated are NOT due; they are new.
	QueryDue(ctx context.Context, learnerID uuid.UUID, listIDs []uuid.UUID, asOf time.Time) ([]uuid.UUID, error)

	// QueryNew returns the IDs of words in the given lists that either
	// have no progress record at all, or have an unmastered record with
	// a future review date. Mastered words are excluded.
	QueryNew(ctx context.Context, learnerID uuid.UUID, listIDs []uuid.UUID, asOf time.Time) ([]uuid.UUID, error)

	// DueCounts returns, per learner, the number of unmastered words due
	// on or before asOf. Learners with nothing due are omitted.
	DueCounts(ctx context.Context, asOf time.Time) ([]LearnerDueCount, error)

	// WithTx returns a new ProgressStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ProgressStore
}
