package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon-api/internal/domain"
	"github.com/lexikon-app/lexikon-api/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// Get implements store.ProgressStore.Get
func (s *PostgresProgressStore) Get(
	ctx context.Context,
	learnerID, wordID uuid.UUID,
) (*domain.ProgressRecord, error) {
	query := `
		SELECT learner_id, word_id, repetitions, ease_factor, interval_days,
		       next_review_at, is_mastered, last_reviewed_at, created_at, updated_at
		FROM word_progress
		WHERE learner_id = $1 AND word_id = $2
	`

	record, err := scanProgressRecord(s.db.QueryRowContext(ctx, query, learnerID, wordID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		return nil, fmt.Errorf("%w: failed to get progress record: %v", store.ErrPersistence, err)
	}

	return record, nil
}

// Create implements store.ProgressStore.Create
func (s *PostgresProgressStore) Create(ctx context.Context, record *domain.ProgressRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO word_progress (
			learner_id, word_id, repetitions, ease_factor, interval_days,
			next_review_at, is_mastered, last_reviewed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.ExecContext(ctx, query,
		record.LearnerID,
		record.WordID,
		record.Repetitions,
		record.EaseFactor,
		record.IntervalDays,
		nullableTime(record.NextReviewAt),
		record.IsMastered,
		nullableTime(record.LastReviewedAt),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("%w: failed to create progress record: %v", store.ErrPersistence, err)
	}

	return nil
}

// Update implements store.ProgressStore.Update
func (s *PostgresProgressStore) Update(ctx context.Context, record *domain.ProgressRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE word_progress SET
			repetitions = $3,
			ease_factor = $4,
			interval_days = $5,
			next_review_at = $6,
			is_mastered = $7,
			last_reviewed_at = $8,
			updated_at = $9
		WHERE learner_id = $1 AND word_id = $2
	`

	result, err := s.db.ExecContext(ctx, query,
		record.LearnerID,
		record.WordID,
		record.Repetitions,
		record.EaseFactor,
		record.IntervalDays,
		nullableTime(record.NextReviewAt),
		record.IsMastered,
		nullableTime(record.LastReviewedAt),
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update progress record: %v", store.ErrPersistence, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to read update result: %v", store.ErrPersistence, err)
	}
	if rows == 0 {
		return store.ErrProgressNotFound
	}

	return nil
}

// QueryDue implements store.ProgressStore.QueryDue
// Words whose unmastered records are scheduled on or before asOf, most
// overdue first. Never-reviewed words have no schedule and are not due.
func (s *PostgresProgressStore) QueryDue(
	ctx context.Context,
	learnerID uuid.UUID,
	listIDs []uuid.UUID,
	asOf time.Time,
) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT wp.word_id, wp.next_review_at
		FROM word_progress wp
		JOIN word_lists wl ON wl.word_id = wp.word_id
		WHERE wp.learner_id = $1
		  AND wl.list_id = ANY($2::uuid[])
		  AND wp.is_mastered = FALSE
		  AND wp.next_review_at IS NOT NULL
		  AND wp.next_review_at <= $3
		ORDER BY wp.next_review_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID, uuidStrings(listIDs), asOf)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query due words: %v", store.ErrPersistence, err)
	}
	defer closeRows(rows, s.logger)

	var wordIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		var nextReviewAt time.Time
		if err := rows.Scan(&id, &nextReviewAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan due word: %v", store.ErrPersistence, err)
		}
		wordIDs = append(wordIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate due words: %v", store.ErrPersistence, err)
	}

	return wordIDs, nil
}

// QueryNew implements store.ProgressStore.QueryNew
// Words in scope that were never rated, plus unmastered words whose
// review date has not arrived yet.
func (s *PostgresProgressStore) QueryNew(
	ctx context.Context,
	learnerID uuid.UUID,
	listIDs []uuid.UUID,
	asOf time.Time,
) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT w.id
		FROM words w
		JOIN word_lists wl ON wl.word_id = w.id
		LEFT JOIN word_progress wp ON wp.word_id = w.id AND wp.learner_id = $1
		WHERE wl.list_id = ANY($2::uuid[])
		  AND (
			wp.word_id IS NULL
			OR (wp.is_mastered = FALSE AND (wp.next_review_at IS NULL OR wp.next_review_at > $3))
		  )
	`

	rows, err := s.db.QueryContext(ctx, query, learnerID, uuidStrings(listIDs), asOf)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query new words: %v", store.ErrPersistence, err)
	}
	defer closeRows(rows, s.logger)

	var wordIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: failed to scan new word: %v", store.ErrPersistence, err)
		}
		wordIDs = append(wordIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate new words: %v", store.ErrPersistence, err)
	}

	return wordIDs, nil
}

// DueCounts implements store.ProgressStore.DueCounts
func (s *PostgresProgressStore) DueCounts(
	ctx context.Context,
	asOf time.Time,
) ([]store.LearnerDueCount, error) {
	query := `
		SELECT learner_id, COUNT(*)
		FROM word_progress
		WHERE is_mastered = FALSE
		  AND next_review_at IS NOT NULL
		  AND next_review_at <= $1
		GROUP BY learner_id
		ORDER BY learner_id
	`

	rows, err := s.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query due counts: %v", store.ErrPersistence, err)
	}
	defer closeRows(rows, s.logger)

	var counts []store.LearnerDueCount
	for rows.Next() {
		var count store.LearnerDueCount
		if err := rows.Scan(&count.LearnerID, &count.DueWords); err != nil {
			return nil, fmt.Errorf("%w: failed to scan due count: %v", store.ErrPersistence, err)
		}
		counts = append(counts, count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate due counts: %v", store.ErrPersistence, err)
	}

	return counts, nil
}

// WithTx implements store.ProgressStore.WithTx
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanProgressRecord maps one word_progress row onto the domain type,
// translating NULL timestamps to the zero time.
func scanProgressRecord(row rowScanner) (*domain.ProgressRecord, error) {
	var record domain.ProgressRecord
	var nextReviewAt, lastReviewedAt sql.NullTime

	err := row.Scan(
		&record.LearnerID,
		&record.WordID,
		&record.Repetitions,
		&record.EaseFactor,
		&record.IntervalDays,
		&nextReviewAt,
		&record.IsMastered,
		&lastReviewedAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if nextReviewAt.Valid {
		record.NextReviewAt = nextReviewAt.Time.UTC()
	}
	if lastReviewedAt.Valid {
		record.LastReviewedAt = lastReviewedAt.Time.UTC()
	}

	return &record, nil
}

// nullableTime maps the zero time to NULL so "never reviewed" is
// represented honestly in the database.
func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// closeRows closes rows and logs a close failure, which would otherwise
// be silently dropped in a defer.
func closeRows(rows *sql.Rows, logger *slog.Logger) {
	if err := rows.Close(); err != nil {
		logger.Warn("failed to close rows", slog.String("error", err.Error()))
	}
}
