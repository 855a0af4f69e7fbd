package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Common validation errors for Word
var (
	ErrEmptyWordID   = errors.New("word ID cannot be empty")
	ErrEmptyWordText = errors.New("word text cannot be empty")
	ErrWordNoLists   = errors.New("word must belong to at least one list")
)

// Word is a vocabulary entry owned by the catalog. The engine treats
// words as read-only: it selects and presents them but never edits them.
type Word struct {
	ID      uuid.UUID   `json:"id"`
	Text    string      `json:"text"`
	Meaning string      `json:"meaning"`
	ListIDs []uuid.UUID `json:"list_ids"` // Lists this word belongs to (one or more)
}

// Validate checks if the Word has valid data.
func (w *Word) Validate() error {
	if w.ID == uuid.Nil {
		return ErrEmptyWordID
	}

	if w.Text == "" {
		return ErrEmptyWordText
	}

	if len(w.ListIDs) == 0 {
		return ErrWordNoLists
	}

	return nil
}
