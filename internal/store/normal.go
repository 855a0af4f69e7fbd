package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon-api/internal/domain"
)

// NormalProgressStore defines the interface for normal-quiz progress
// persistence. It mirrors the shape of ProgressStore minus the date
// queries, which do not exist in normal mode.
type NormalProgressStore interface {
	// Get retrieves the normal-mode progress for a learner and word.
	// Returns ErrNormalProgressNotFound if the word has never been answered.
	Get(ctx context.Context, learnerID, wordID uuid.UUID) (*domain.NormalProgress, error)

	// Create saves a new normal-mode progress entry.
	// Returns ErrDuplicate if an entry for the pair already exists.
	Create(ctx context.Context, progress *domain.NormalProgress) error

	// Update modifies an existing entry, identified by the learner and
	// word IDs on the progress value.
	// Returns ErrNormalProgressNotFound if the entry does not exist.
	Update(ctx context.Context, progress *domain.NormalProgress) error

	// WithTx returns a new NormalProgressStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) NormalProgressStore
}
