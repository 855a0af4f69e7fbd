// Package progress exposes read and adjustment operations on a
// learner's scheduling state outside the session loop: inspecting a
// record, counting due words, and postponing a review.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon-api/internal/domain"
	"github.com/lexikon-app/lexikon-api/internal/domain/srs"
	"github.com/lexikon-app/lexikon-api/internal/platform/logger"
	"github.com/lexikon-app/lexikon-api/internal/store"
)

// ErrNeverReviewed indicates a postpone request for a word the learner
// has not rated yet; there is no scheduled review to push back.
var ErrNeverReviewed = errors.New("word has never been reviewed")

// Service provides progress queries and adjustments.
type Service struct {
	progressStore store.ProgressStore
	srsService    srs.Service
	logger        *slog.Logger
}

// NewService creates a progress service.
// If logger is nil, a default logger will be used.
func NewService(
	progressStore store.ProgressStore,
	srsService srs.Service,
	logger *slog.Logger,
) *Service {
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		progressStore: progressStore,
		srsService:    srsService,
		logger:        logger.With(slog.String("component", "progress_service")),
	}
}

// GetRecord returns the learner's scheduling state for a word.
// Returns store.ErrProgressNotFound if the word was never rated.
func (s *Service) GetRecord(
	ctx context.Context,
	learnerID, wordID uuid.UUID,
) (*domain.ProgressRecord, error) {
	record, err := s.progressStore.Get(ctx, learnerID, wordID)
	if err != nil {
		if errors.Is(err, store.ErrProgressNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get progress record: %w", err)
	}
	return record, nil
}

// CountDue returns how many words in the given lists are due for the
// learner on or before asOf.
func (s *Service) CountDue(
	ctx context.Context,
	learnerID uuid.UUID,
	listIDs []uuid.UUID,
	asOf time.Time,
) (int, error) {
	due, err := s.progressStore.QueryDue(ctx, learnerID, listIDs, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to query due words: %w", err)
	}
	return len(due), nil
}

// Postpone pushes the next review of a word forward by the given number
// of days. Repetitions, ease factor and mastery are untouched; only the
// schedule moves.
func (s *Service) Postpone(
	ctx context.Context,
	learnerID, wordID uuid.UUID,
	days int,
) (*domain.ProgressRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	record, err := s.progressStore.Get(ctx, learnerID, wordID)
	if err != nil {
		if errors.Is(err, store.ErrProgressNotFound) {
			return nil, ErrNeverReviewed
		}
		return nil, fmt.Errorf("failed to get progress record: %w", err)
	}

	if !record.Reviewed() {
		return nil, ErrNeverReviewed
	}

	updated, err := s.srsService.PostponeReview(record, days, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.progressStore.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save postponed record: %w", err)
	}

	log.Debug("review postponed",
		slog.String("learner_id", learnerID.String()),
		slog.String("word_id", wordID.String()),
		slog.Int("days", days),
		slog.Time("next_review_at", updated.NextReviewAt))

	return updated, nil
}
