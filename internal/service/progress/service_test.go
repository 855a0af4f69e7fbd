package progress

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexikon-app/lexikon-api/internal/domain"
	"github.com/lexikon-app/lexikon-api/internal/domain/srs"
	"github.com/lexikon-app/lexikon-api/internal/store"
)

type recordKey struct {
	learnerID uuid.UUID
	wordID    uuid.UUID
}

type memProgressStore struct {
	records map[recordKey]*domain.ProgressRecord
	dueIDs  []uuid.UUID
}

func newMemProgressStore() *memProgressStore {
	return &memProgressStore{records: make(map[recordKey]*domain.ProgressRecord)}
}

func (m *memProgressStore) put(record *domain.ProgressRecord) {
	copied := *record
	m.records[recordKey{record.LearnerID, record.WordID}] = &copied
}

func (m *memProgressStore) Get(_ context.Context, learnerID, wordID uuid.UUID) (*domain.ProgressRecord, error) {
	record, ok := m.records[recordKey{learnerID, wordID}]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	copied := *record
	return &copied, nil
}

func (m *memProgressStore) Create(_ context.Context, record *domain.ProgressRecord) error {
	m.put(record)
	return nil
}

func (m *memProgressStore) Update(_ context.Context, record *domain.ProgressRecord) error {
	key := recordKey{record.LearnerID, record.WordID}
	if _, ok := m.records[key]; !ok {
		return store.ErrProgressNotFound
	}
	m.put(record)
	return nil
}

func (m *memProgressStore) QueryDue(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _ time.Time) ([]uuid.UUID, error) {
	return m.dueIDs, nil
}

func (m *memProgressStore) QueryNew(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _ time.Time) ([]uuid.UUID, error) {
	return nil, nil
}

func (m *memProgressStore) DueCounts(_ context.Context, _ time.Time) ([]store.LearnerDueCount, error) {
	return nil, nil
}

func (m *memProgressStore) WithTx(_ *sql.Tx) store.ProgressStore {
	return m
}

func reviewedRecord(learnerID, wordID uuid.UUID, nextReviewAt time.Time) *domain.ProgressRecord {
	reviewed := nextReviewAt.AddDate(0, 0, -3)
	return &domain.ProgressRecord{
		LearnerID:      learnerID,
		WordID:         wordID,
		Repetitions:    2,
		EaseFactor:     domain.DefaultEaseFactor,
		IntervalDays:   3,
		NextReviewAt:   nextReviewAt,
		LastReviewedAt: reviewed,
		CreatedAt:      reviewed,
		UpdatedAt:      reviewed,
	}
}

func TestPostponeMovesScheduleOnly(t *testing.T) {
	learnerID := uuid.New()
	wordID := uuid.New()
	nextReview := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	progressStore := newMemProgressStore()
	progressStore.put(reviewedRecord(learnerID, wordID, nextReview))

	svc := NewService(progressStore, srs.NewDefaultService(), nil)

	updated, err := svc.Postpone(context.Background(), learnerID, wordID, 5)
	require.NoError(t, err)

	assert.Equal(t, nextReview.AddDate(0, 0, 5), updated.NextReviewAt)
	assert.Equal(t, 2, updated.Repetitions)
	assert.Equal(t, domain.DefaultEaseFactor, updated.EaseFactor)
	assert.False(t, updated.IsMastered)

	// The new schedule must have been persisted.
	stored, err := progressStore.Get(context.Background(), learnerID, wordID)
	require.NoError(t, err)
	assert.Equal(t, updated.NextReviewAt, stored.NextReviewAt)
}

func TestPostponeNeverReviewed(t *testing.T) {
	svc := NewService(newMemProgressStore(), srs.NewDefaultService(), nil)

	_, err := svc.Postpone(context.Background(), uuid.New(), uuid.New(), 5)
	assert.ErrorIs(t, err, ErrNeverReviewed)
}

func TestPostponeInvalidDays(t *testing.T) {
	learnerID := uuid.New()
	wordID := uuid.New()

	progressStore := newMemProgressStore()
	progressStore.put(reviewedRecord(learnerID, wordID, time.Now().UTC()))

	svc := NewService(progressStore, srs.NewDefaultService(), nil)

	_, err := svc.Postpone(context.Background(), learnerID, wordID, 0)
	assert.ErrorIs(t, err, srs.ErrInvalidDays)
}

func TestCountDue(t *testing.T) {
	progressStore := newMemProgressStore()
	progressStore.dueIDs = []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	svc := NewService(progressStore, srs.NewDefaultService(), nil)

	count, err := svc.CountDue(context.Background(), uuid.New(), []uuid.UUID{uuid.New()}, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestGetRecordNotFound(t *testing.T) {
	svc := NewService(newMemProgressStore(), srs.NewDefaultService(), nil)

	_, err := svc.GetRecord(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrProgressNotFound)
}
