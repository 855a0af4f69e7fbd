package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon-api/internal/domain"
)

// WordCatalog defines read-only access to the vocabulary catalog. The
// catalog is owned by an external component; the engine only reads it
// to materialize the words a session will present.
type WordCatalog interface {
	// WordsInLists returns every word belonging to any of the given
	// lists. A word in several of the lists appears once.
	WordsInLists(ctx context.Context, listIDs []uuid.UUID) ([]*domain.Word, error)

	// GetByID retrieves a single word.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)
}
