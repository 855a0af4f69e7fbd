package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon-api/internal/domain"
	"github.com/lexikon-app/lexikon-api/internal/store"
)

// PostgresWordCatalog implements the store.WordCatalog interface using
// a PostgreSQL database. It is strictly read-only: the catalog tables
// are owned by the vocabulary management component.
type PostgresWordCatalog struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordCatalog creates a new PostgreSQL implementation of the
// WordCatalog interface.
// If logger is nil, a default logger will be used.
func NewPostgresWordCatalog(db store.DBTX, logger *slog.Logger) *PostgresWordCatalog {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWordCatalog{
		db:     db,
		logger: logger.With(slog.String("component", "word_catalog")),
	}
}

// Ensure PostgresWordCatalog implements store.WordCatalog interface
var _ store.WordCatalog = (*PostgresWordCatalog)(nil)

// WordsInLists implements store.WordCatalog.WordsInLists
func (s *PostgresWordCatalog) WordsInLists(
	ctx context.Context,
	listIDs []uuid.UUID,
) ([]*domain.Word, error) {
	// One row per (word, list) membership; list IDs are folded into the
	// word in scan order so each word appears once in the result.
	query := `
		SELECT w.id, w.text, w.meaning, wl.list_id
		FROM words w
		JOIN word_lists wl ON wl.word_id = w.id
		WHERE wl.list_id = ANY($1::uuid[])
		ORDER BY w.id
	`

	rows, err := s.db.QueryContext(ctx, query, uuidStrings(listIDs))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query words in lists: %v", store.ErrPersistence, err)
	}
	defer closeRows(rows, s.logger)

	var words []*domain.Word
	byID := make(map[uuid.UUID]*domain.Word)
	for rows.Next() {
		var (
			id      uuid.UUID
			text    string
			meaning string
			listID  uuid.UUID
		)
		if err := rows.Scan(&id, &text, &meaning, &listID); err != nil {
			return nil, fmt.Errorf("%w: failed to scan word: %v", store.ErrPersistence, err)
		}

		word, ok := byID[id]
		if !ok {
			word = &domain.Word{ID: id, Text: text, Meaning: meaning}
			byID[id] = word
			words = append(words, word)
		}
		word.ListIDs = append(word.ListIDs, listID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate words: %v", store.ErrPersistence, err)
	}

	return words, nil
}

// GetByID implements store.WordCatalog.GetByID
func (s *PostgresWordCatalog) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	query := `
		SELECT w.id, w.text, w.meaning, wl.list_id
		FROM words w
		JOIN word_lists wl ON wl.word_id = w.id
		WHERE w.id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query word: %v", store.ErrPersistence, err)
	}
	defer closeRows(rows, s.logger)

	var word *domain.Word
	for rows.Next() {
		var (
			text    string
			meaning string
			listID  uuid.UUID
		)
		var wordID uuid.UUID
		if err := rows.Scan(&wordID, &text, &meaning, &listID); err != nil {
			return nil, fmt.Errorf("%w: failed to scan word: %v", store.ErrPersistence, err)
		}
		if word == nil {
			word = &domain.Word{ID: wordID, Text: text, Meaning: meaning}
		}
		word.ListIDs = append(word.ListIDs, listID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate word rows: %v", store.ErrPersistence, err)
	}

	if word == nil {
		return nil, store.ErrWordNotFound
	}

	return word, nil
}
