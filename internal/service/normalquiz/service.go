// Package normalquiz implements the non-scheduled quiz mode: a learner
// answers a word correctly or incorrectly and a streak counter tracks
// progress toward mastery. There are no intervals and no due dates.
package normalquiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon-api/internal/domain"
	"github.com/lexikon-app/lexikon-api/internal/domain/streak"
	"github.com/lexikon-app/lexikon-api/internal/platform/logger"
	"github.com/lexikon-app/lexikon-api/internal/store"
)

// Service records normal-quiz answers.
type Service struct {
	normalStore store.NormalProgressStore
	catalog     store.WordCatalog
	logger      *slog.Logger
}

// NewService creates a normal-quiz service.
// If logger is nil, a default logger will be used.
func NewService(
	normalStore store.NormalProgressStore,
	catalog store.WordCatalog,
	logger *slog.Logger,
) *Service {
	if normalStore == nil {
		panic("normalStore cannot be nil")
	}
	if catalog == nil {
		panic("catalog cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		normalStore: normalStore,
		catalog:     catalog,
		logger:      logger.With(slog.String("component", "normalquiz_service")),
	}
}

// SubmitAnswer applies one correct/incorrect answer to the learner's
// streak for a word and persists the result. The entry is created
// lazily on the first answer, like SRS progress records.
func (s *Service) SubmitAnswer(
	ctx context.Context,
	learnerID, wordID uuid.UUID,
	correct bool,
) (*domain.NormalProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.catalog.GetByID(ctx, wordID); err != nil {
		if errors.Is(err, store.ErrWordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to look up word: %w", err)
	}

	progress, err := s.normalStore.Get(ctx, learnerID, wordID)
	firstAnswer := false
	if err != nil {
		if !errors.Is(err, store.ErrNormalProgressNotFound) {
			return nil, fmt.Errorf("failed to get normal progress: %w", err)
		}
		firstAnswer = true
		progress, err = domain.NewNormalProgress(learnerID, wordID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize normal progress: %w", err)
		}
	}

	updated := streak.ApplyToProgress(progress, correct, time.Now().UTC())

	if firstAnswer {
		err = s.normalStore.Create(ctx, updated)
	} else {
		err = s.normalStore.Update(ctx, updated)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save normal progress: %w", err)
	}

	log.Debug("normal answer recorded",
		slog.String("learner_id", learnerID.String()),
		slog.String("word_id", wordID.String()),
		slog.Bool("correct", correct),
		slog.Int("streak", updated.CorrectStreak),
		slog.Bool("mastered", updated.IsMastered))

	return updated, nil
}

// GetProgress returns the learner's normal-mode state for a word. A word
// that was never answered yields the zero-streak default rather than an
// error, so clients can render a progress bar without special cases.
func (s *Service) GetProgress(
	ctx context.Context,
	learnerID, wordID uuid.UUID,
) (*domain.NormalProgress, error) {
	progress, err := s.normalStore.Get(ctx, learnerID, wordID)
	if err != nil {
		if errors.Is(err, store.ErrNormalProgressNotFound) {
			return domain.NewNormalProgress(learnerID, wordID)
		}
		return nil, fmt.Errorf("failed to get normal progress: %w", err)
	}
	return progress, nil
}
