package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon-api/internal/domain"
	"github.com/lexikon-app/lexikon-api/internal/store"
)

// PostgresNormalProgressStore implements the store.NormalProgressStore
// interface using a PostgreSQL database as the storage backend.
type PostgresNormalProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNormalProgressStore creates a new PostgreSQL implementation
// of the NormalProgressStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresNormalProgressStore(db store.DBTX, logger *slog.Logger) *PostgresNormalProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNormalProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "normal_progress_store")),
	}
}

// Ensure PostgresNormalProgressStore implements store.NormalProgressStore interface
var _ store.NormalProgressStore = (*PostgresNormalProgressStore)(nil)

// Get implements store.NormalProgressStore.Get
func (s *PostgresNormalProgressStore) Get(
	ctx context.Context,
	learnerID, wordID uuid.UUID,
) (*domain.NormalProgress, error) {
	query := `
		SELECT learner_id, word_id, correct_streak, is_mastered, created_at, updated_at
		FROM normal_progress
		WHERE learner_id = $1 AND word_id = $2
	`

	var progress domain.NormalProgress
	err := s.db.QueryRowContext(ctx, query, learnerID, wordID).Scan(
		&progress.LearnerID,
		&progress.WordID,
		&progress.CorrectStreak,
		&progress.IsMastered,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNormalProgressNotFound
		}
		return nil, fmt.Errorf("%w: failed to get normal progress: %v", store.ErrPersistence, err)
	}

	return &progress, nil
}

// Create implements store.NormalProgressStore.Create
func (s *PostgresNormalProgressStore) Create(
	ctx context.Context,
	progress *domain.NormalProgress,
) error {
	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO normal_progress (
			learner_id, word_id, correct_streak, is_mastered, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		progress.LearnerID,
		progress.WordID,
		progress.CorrectStreak,
		progress.IsMastered,
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("%w: failed to create normal progress: %v", store.ErrPersistence, err)
	}

	return nil
}

// Update implements store.NormalProgressStore.Update
func (s *PostgresNormalProgressStore) Update(
	ctx context.Context,
	progress *domain.NormalProgress,
) error {
	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE normal_progress SET
			correct_streak = $3,
			is_mastered = $4,
			updated_at = $5
		WHERE learner_id = $1 AND word_id = $2
	`

	result, err := s.db.ExecContext(ctx, query,
		progress.LearnerID,
		progress.WordID,
		progress.CorrectStreak,
		progress.IsMastered,
		progress.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update normal progress: %v", store.ErrPersistence, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to read update result: %v", store.ErrPersistence, err)
	}
	if rows == 0 {
		return store.ErrNormalProgressNotFound
	}

	return nil
}

// WithTx implements store.NormalProgressStore.WithTx
func (s *PostgresNormalProgressStore) WithTx(tx *sql.Tx) store.NormalProgressStore {
	return &PostgresNormalProgressStore{
		db:     tx,
		logger: s.logger,
	}
}
