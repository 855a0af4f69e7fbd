package session

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon-api/internal/domain"
	"github.com/lexikon-app/lexikon-api/internal/store"
)

// progressKey identifies one (learner, word) pair.
type progressKey struct {
	learnerID uuid.UUID
	wordID    uuid.UUID
}

// memProgressStore is an in-memory ProgressStore backed by a map. It
// also supports scripted failures so tests can exercise the recovery
// path of the runner.
type memProgressStore struct {
	records map[progressKey]*domain.ProgressRecord
	words   map[uuid.UUID]*domain.Word // catalog view for pool queries

	failCreate error
	failUpdate error
	createN    int
	updateN    int
}

func newMemProgressStore(words ...*domain.Word) *memProgressStore {
	byID := make(map[uuid.UUID]*domain.Word, len(words))
	for _, w := range words {
		byID[w.ID] = w
	}
	return &memProgressStore{
		records: make(map[progressKey]*domain.ProgressRecord),
		words:   byID,
	}
}

func (m *memProgressStore) put(record *domain.ProgressRecord) {
	copied := *record
	m.records[progressKey{record.LearnerID, record.WordID}] = &copied
}

func (m *memProgressStore) Get(_ context.Context, learnerID, wordID uuid.UUID) (*domain.ProgressRecord, error) {
	record, ok := m.records[progressKey{learnerID, wordID}]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	copied := *record
	return &copied, nil
}

func (m *memProgressStore) Create(_ context.Context, record *domain.ProgressRecord) error {
	m.createN++
	if m.failCreate != nil {
		err := m.failCreate
		m.failCreate = nil
		return err
	}
	key := progressKey{record.LearnerID, record.WordID}
	if _, ok := m.records[key]; ok {
		return store.ErrDuplicate
	}
	copied := *record
	m.records[key] = &copied
	return nil
}

func (m *memProgressStore) Update(_ context.Context, record *domain.ProgressRecord) error {
	m.updateN++
	if m.failUpdate != nil {
		err := m.failUpdate
		m.failUpdate = nil
		return err
	}
	key := progressKey{record.LearnerID, record.WordID}
	if _, ok := m.records[key]; !ok {
		return store.ErrProgressNotFound
	}
	copied := *record
	m.records[key] = &copied
	return nil
}

func (m *memProgressStore) inLists(word *domain.Word, listIDs []uuid.UUID) bool {
	for _, want := range listIDs {
		for _, have := range word.ListIDs {
			if want == have {
				return true
			}
		}
	}
	return false
}

func (m *memProgressStore) QueryDue(_ context.Context, learnerID uuid.UUID, listIDs []uuid.UUID, asOf time.Time) ([]uuid.UUID, error) {
	var due []uuid.UUID
	for key, record := range m.records {
		if key.learnerID != learnerID || !record.DueOn(asOf) {
			continue
		}
		word, ok := m.words[key.wordID]
		if !ok || !m.inLists(word, listIDs) {
			continue
		}
		due = append(due, key.wordID)
	}
	sortByReview := func(i, j int) bool {
		a := m.records[progressKey{learnerID, due[i]}]
		b := m.records[progressKey{learnerID, due[j]}]
		if a.NextReviewAt.Equal(b.NextReviewAt) {
			return due[i].String() < due[j].String()
		}
		return a.NextReviewAt.Before(b.NextReviewAt)
	}
	sort.Slice(due, sortByReview)
	return due, nil
}

func (m *memProgressStore) QueryNew(_ context.Context, learnerID uuid.UUID, listIDs []uuid.UUID, asOf time.Time) ([]uuid.UUID, error) {
	var fresh []uuid.UUID
	for id, word := range m.words {
		if !m.inLists(word, listIDs) {
			continue
		}
		record, ok := m.records[progressKey{learnerID, id}]
		if !ok {
			fresh = append(fresh, id)
			continue
		}
		if record.IsMastered || record.DueOn(asOf) {
			continue
		}
		if !record.Reviewed() || record.NextReviewAt.After(asOf) {
			fresh = append(fresh, id)
		}
	}
	sort.Slice(fresh, func(i, j int) bool { return fresh[i].String() < fresh[j].String() })
	return fresh, nil
}

func (m *memProgressStore) DueCounts(_ context.Context, asOf time.Time) ([]store.LearnerDueCount, error) {
	byLearner := make(map[uuid.UUID]int)
	for key, record := range m.records {
		if record.DueOn(asOf) {
			byLearner[key.learnerID]++
		}
	}
	counts := make([]store.LearnerDueCount, 0, len(byLearner))
	for learnerID, n := range byLearner {
		counts = append(counts, store.LearnerDueCount{LearnerID: learnerID, DueWords: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].LearnerID.String() < counts[j].LearnerID.String()
	})
	return counts, nil
}

func (m *memProgressStore) WithTx(_ *sql.Tx) store.ProgressStore {
	return m
}

// memWordCatalog is an in-memory WordCatalog.
type memWordCatalog struct {
	words map[uuid.UUID]*domain.Word
}

func newMemWordCatalog(words ...*domain.Word) *memWordCatalog {
	byID := make(map[uuid.UUID]*domain.Word, len(words))
	for _, w := range words {
		byID[w.ID] = w
	}
	return &memWordCatalog{words: byID}
}

func (m *memWordCatalog) WordsInLists(_ context.Context, listIDs []uuid.UUID) ([]*domain.Word, error) {
	var matched []*domain.Word
	for _, word := range m.words {
		for _, want := range listIDs {
			if containsID(word.ListIDs, want) {
				matched = append(matched, word)
				break
			}
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID.String() < matched[j].ID.String()
	})
	return matched, nil
}

func (m *memWordCatalog) GetByID(_ context.Context, id uuid.UUID) (*domain.Word, error) {
	word, ok := m.words[id]
	if !ok {
		return nil, store.ErrWordNotFound
	}
	return word, nil
}

func containsID(ids []uuid.UUID, want uuid.UUID) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}

// noShuffle keeps the selection order so tests can assert on it.
func noShuffle(_ []*domain.Word) {}
