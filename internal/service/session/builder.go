package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon-api/internal/domain"
	"github.com/lexikon-app/lexikon-api/internal/platform/logger"
	"github.com/lexikon-app/lexikon-api/internal/store"
)

// Builder assembles study sessions for a learner. It is strictly
// read-only over progress state: building a session never changes when
// any word is scheduled.
type Builder struct {
	progressStore store.ProgressStore
	catalog       store.WordCatalog
	shuffle       func(words []*domain.Word)
	logger        *slog.Logger
}

// NewBuilder creates a session builder.
// If logger is nil, a default logger will be used.
func NewBuilder(
	progressStore store.ProgressStore,
	catalog store.WordCatalog,
	logger *slog.Logger,
) *Builder {
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if catalog == nil {
		panic("catalog cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Builder{
		progressStore: progressStore,
		catalog:       catalog,
		shuffle:       shuffleWords,
		logger:        logger.With(slog.String("component", "session_builder")),
	}
}

// NewBuilderWithShuffle creates a session builder with a custom shuffle
// function. Tests use this to make presentation order deterministic.
func NewBuilderWithShuffle(
	progressStore store.ProgressStore,
	catalog store.WordCatalog,
	shuffle func(words []*domain.Word),
	logger *slog.Logger,
) *Builder {
	b := NewBuilder(progressStore, catalog, logger)
	if shuffle != nil {
		b.shuffle = shuffle
	}
	return b
}

// BuildSession produces the word queue for one study session.
//
// Sourcing precedence is due-before-new: the due pool is drawn on in
// full (up to targetSize) before any new word is considered. The final
// presentation order is then randomized once across the combined
// selection; only the sourcing priority is meaningful, not the order
// words appear in.
//
// An empty result is a valid terminal state meaning the learner is
// fully caught up on the selected lists; callers must present it as
// such, not as an error.
func (b *Builder) BuildSession(
	ctx context.Context,
	learnerID uuid.UUID,
	listIDs []uuid.UUID,
	targetSize int,
	asOf time.Time,
) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, b.logger)

	if len(listIDs) == 0 {
		return nil, ErrNoListsSelected
	}
	if targetSize < 1 {
		return nil, ErrInvalidTargetSize
	}

	dueIDs, err := b.progressStore.QueryDue(ctx, learnerID, listIDs, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query due words: %w", err)
	}

	selected := make([]uuid.UUID, 0, targetSize)
	seen := make(map[uuid.UUID]bool, targetSize)
	for _, id := range dueIDs {
		if len(selected) == targetSize {
			break
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		selected = append(selected, id)
	}
	dueCount := len(selected)

	// Fill any remaining capacity from the new pool, skipping words the
	// due pool already contributed.
	if remaining := targetSize - len(selected); remaining > 0 {
		newIDs, err := b.progressStore.QueryNew(ctx, learnerID, listIDs, asOf)
		if err != nil {
			return nil, fmt.Errorf("failed to query new words: %w", err)
		}

		for _, id := range newIDs {
			if len(selected) == targetSize {
				break
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			selected = append(selected, id)
		}
	}

	words, err := b.materialize(ctx, listIDs, selected)
	if err != nil {
		return nil, err
	}

	b.shuffle(words)

	log.Debug("session built",
		slog.String("learner_id", learnerID.String()),
		slog.Int("due_words", dueCount),
		slog.Int("new_words", len(selected)-dueCount),
		slog.Int("target_size", targetSize))

	return &Session{
		ID:        uuid.New(),
		LearnerID: learnerID,
		ListIDs:   listIDs,
		Words:     words,
		AsOf:      asOf,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// materialize turns the selected word IDs into full Word objects,
// preserving selection order.
func (b *Builder) materialize(
	ctx context.Context,
	listIDs []uuid.UUID,
	selected []uuid.UUID,
) ([]*domain.Word, error) {
	if len(selected) == 0 {
		return []*domain.Word{}, nil
	}

	catalogWords, err := b.catalog.WordsInLists(ctx, listIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load words from catalog: %w", err)
	}

	byID := make(map[uuid.UUID]*domain.Word, len(catalogWords))
	for _, word := range catalogWords {
		byID[word.ID] = word
	}

	words := make([]*domain.Word, 0, len(selected))
	for _, id := range selected {
		word, ok := byID[id]
		if !ok {
			// The progress table referenced a word the catalog no longer
			// has; skip it rather than presenting a hole.
			b.logger.Warn("selected word missing from catalog", slog.String("word_id", id.String()))
			continue
		}
		words = append(words, word)
	}

	return words, nil
}

// shuffleWords randomizes presentation order in place. The top-level
// math/rand functions are safe for concurrent builders.
func shuffleWords(words []*domain.Word) {
	rand.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}
