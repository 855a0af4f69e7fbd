package reminder

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexikon-app/lexikon-api/internal/domain"
	"github.com/lexikon-app/lexikon-api/internal/store"
)

type stubProgressStore struct {
	counts []store.LearnerDueCount
	err    error
}

func (s *stubProgressStore) Get(_ context.Context, _, _ uuid.UUID) (*domain.ProgressRecord, error) {
	return nil, store.ErrProgressNotFound
}

func (s *stubProgressStore) Create(_ context.Context, _ *domain.ProgressRecord) error { return nil }
func (s *stubProgressStore) Update(_ context.Context, _ *domain.ProgressRecord) error { return nil }

func (s *stubProgressStore) QueryDue(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _ time.Time) ([]uuid.UUID, error) {
	return nil, nil
}

func (s *stubProgressStore) QueryNew(_ context.Context, _ uuid.UUID, _ []uuid.UUID, _ time.Time) ([]uuid.UUID, error) {
	return nil, nil
}

func (s *stubProgressStore) DueCounts(_ context.Context, _ time.Time) ([]store.LearnerDueCount, error) {
	return s.counts, s.err
}

func (s *stubProgressStore) WithTx(_ *sql.Tx) store.ProgressStore { return s }

type recordingNotifier struct {
	notified map[uuid.UUID]int
	failFor  uuid.UUID
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{notified: make(map[uuid.UUID]int)}
}

func (n *recordingNotifier) NotifyDueWords(_ context.Context, learnerID uuid.UUID, dueWords int) error {
	if learnerID == n.failFor {
		return errors.New("delivery failed")
	}
	n.notified[learnerID] = dueWords
	return nil
}

func TestSweepNotifiesLearnersWithDueWords(t *testing.T) {
	learnerA := uuid.New()
	learnerB := uuid.New()

	progressStore := &stubProgressStore{counts: []store.LearnerDueCount{
		{LearnerID: learnerA, DueWords: 4},
		{LearnerID: learnerB, DueWords: 1},
	}}
	notifier := newRecordingNotifier()

	sweeper := NewSweeper(progressStore, notifier, nil)
	require.NoError(t, sweeper.Sweep(context.Background(), time.Now().UTC()))

	assert.Equal(t, 4, notifier.notified[learnerA])
	assert.Equal(t, 1, notifier.notified[learnerB])
}

func TestSweepSkipsZeroCounts(t *testing.T) {
	learner := uuid.New()

	progressStore := &stubProgressStore{counts: []store.LearnerDueCount{
		{LearnerID: learner, DueWords: 0},
	}}
	notifier := newRecordingNotifier()

	sweeper := NewSweeper(progressStore, notifier, nil)
	require.NoError(t, sweeper.Sweep(context.Background(), time.Now().UTC()))

	assert.Empty(t, notifier.notified)
}

func TestSweepContinuesPastNotifierFailure(t *testing.T) {
	failing := uuid.New()
	healthy := uuid.New()

	progressStore := &stubProgressStore{counts: []store.LearnerDueCount{
		{LearnerID: failing, DueWords: 2},
		{LearnerID: healthy, DueWords: 3},
	}}
	notifier := newRecordingNotifier()
	notifier.failFor = failing

	sweeper := NewSweeper(progressStore, notifier, nil)
	require.NoError(t, sweeper.Sweep(context.Background(), time.Now().UTC()))

	assert.Equal(t, 3, notifier.notified[healthy])
	assert.NotContains(t, notifier.notified, failing)
}

func TestSweepPropagatesStoreError(t *testing.T) {
	progressStore := &stubProgressStore{err: errors.New("connection refused")}

	sweeper := NewSweeper(progressStore, newRecordingNotifier(), nil)
	err := sweeper.Sweep(context.Background(), time.Now().UTC())
	assert.Error(t, err)
}
