package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexikon-app/lexikon-api/internal/api/shared"
	"github.com/lexikon-app/lexikon-api/internal/config"
	"github.com/lexikon-app/lexikon-api/internal/domain"
	"github.com/lexikon-app/lexikon-api/internal/domain/srs"
	"github.com/lexikon-app/lexikon-api/internal/service/session"
	"github.com/lexikon-app/lexikon-api/internal/store"
)

// fakeProgressStore is a map-backed ProgressStore for handler tests.
type fakeProgressStore struct {
	records map[string]*domain.ProgressRecord
	words   map[uuid.UUID]*domain.Word
}

func newFakeProgressStore(words ...*domain.Word) *fakeProgressStore {
	byID := make(map[uuid.UUID]*domain.Word, len(words))
	for _, w := range words {
		byID[w.ID] = w
	}
	return &fakeProgressStore{
		records: make(map[string]*domain.ProgressRecord),
		words:   byID,
	}
}

func recordKey(learnerID, wordID uuid.UUID) string {
	return learnerID.String() + "/" + wordID.String()
}

func (f *fakeProgressStore) Get(_ context.Context, learnerID, wordID uuid.UUID) (*domain.ProgressRecord, error) {
	record, ok := f.records[recordKey(learnerID, wordID)]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	copied := *record
	return &copied, nil
}

func (f *fakeProgressStore) Create(_ context.Context, record *domain.ProgressRecord) error {
	copied := *record
	f.records[recordKey(record.LearnerID, record.WordID)] = &copied
	return nil
}

func (f *fakeProgressStore) Update(_ context.Context, record *domain.ProgressRecord) error {
	key := recordKey(record.LearnerID, record.WordID)
	if _, ok := f.records[key]; !ok {
		return store.ErrProgressNotFound
	}
	copied := *record
	f.records[key] = &copied
	return nil
}

func (f *fakeProgressStore) QueryDue(_ context.Context, learnerID uuid.UUID, _ []uuid.UUID, asOf time.Time) ([]uuid.UUID, error) {
	var due []uuid.UUID
	for id := range f.words {
		record, ok := f.records[recordKey(learnerID, id)]
		if ok && record.DueOn(asOf) {
			due = append(due, id)
		}
	}
	return due, nil
}

func (f *fakeProgressStore) QueryNew(_ context.Context, learnerID uuid.UUID, _ []uuid.UUID, asOf time.Time) ([]uuid.UUID, error) {
	var fresh []uuid.UUID
	for id := range f.words {
		record, ok := f.records[recordKey(learnerID, id)]
		if !ok || (!record.IsMastered && !record.DueOn(asOf)) {
			fresh = append(fresh, id)
		}
	}
	return fresh, nil
}

func (f *fakeProgressStore) DueCounts(_ context.Context, _ time.Time) ([]store.LearnerDueCount, error) {
	return nil, nil
}

func (f *fakeProgressStore) WithTx(_ *sql.Tx) store.ProgressStore { return f }

type fakeCatalog struct {
	words map[uuid.UUID]*domain.Word
}

func newFakeCatalog(words ...*domain.Word) *fakeCatalog {
	byID := make(map[uuid.UUID]*domain.Word, len(words))
	for _, w := range words {
		byID[w.ID] = w
	}
	return &fakeCatalog{words: byID}
}

func (f *fakeCatalog) WordsInLists(_ context.Context, _ []uuid.UUID) ([]*domain.Word, error) {
	all := make([]*domain.Word, 0, len(f.words))
	for _, w := range f.words {
		all = append(all, w)
	}
	return all, nil
}

func (f *fakeCatalog) GetByID(_ context.Context, id uuid.UUID) (*domain.Word, error) {
	word, ok := f.words[id]
	if !ok {
		return nil, store.ErrWordNotFound
	}
	return word, nil
}

// testEnv wires a handler with fakes behind a chi router that injects
// the given learner ID, standing in for the auth middleware.
type testEnv struct {
	router    *chi.Mux
	registry  *session.Registry
	learnerID uuid.UUID
	listID    uuid.UUID
	words     []*domain.Word
}

func newTestEnv(t *testing.T, wordCount int) *testEnv {
	t.Helper()

	learnerID := uuid.New()
	listID := uuid.New()

	words := make([]*domain.Word, 0, wordCount)
	for i := 0; i < wordCount; i++ {
		words = append(words, &domain.Word{
			ID:      uuid.New(),
			Text:    fmt.Sprintf("wort-%d", i),
			Meaning: fmt.Sprintf("meaning-%d", i),
			ListIDs: []uuid.UUID{listID},
		})
	}

	progressStore := newFakeProgressStore(words...)
	catalog := newFakeCatalog(words...)

	builder := session.NewBuilderWithShuffle(progressStore, catalog, func(_ []*domain.Word) {}, nil)
	registry := session.NewRegistry()
	srsService := srs.NewDefaultService()

	handler := NewSessionHandler(builder, registry, progressStore, srsService,
		config.SessionConfig{DefaultSize: 20, MaxSize: 100}, testLogger())

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), shared.LearnerIDContextKey, learnerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	router.Post("/sessions", handler.CreateSession)
	router.Get("/sessions/{id}", handler.GetSession)
	router.Post("/sessions/{id}/ratings", handler.SubmitRating)
	router.Get("/sessions/{id}/summary", handler.GetSummary)
	router.Delete("/sessions/{id}", handler.DeleteSession)

	return &testEnv{
		router:    router,
		registry:  registry,
		learnerID: learnerID,
		listID:    listID,
		words:     words,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createSession(t *testing.T) SessionResponse {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/sessions", CreateSessionRequest{
		ListIDs: []string{e.listID.String()},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateSession(t *testing.T) {
	env := newTestEnv(t, 3)

	resp := env.createSession(t)
	assert.Equal(t, "ready", resp.State)
	assert.Equal(t, 3, resp.WordCount)
	require.NotNil(t, resp.CurrentWord)
}

func TestCreateSessionEmptyIsComplete(t *testing.T) {
	env := newTestEnv(t, 0)

	resp := env.createSession(t)
	assert.Equal(t, "complete", resp.State)
	assert.Equal(t, 0, resp.WordCount)
	assert.Nil(t, resp.CurrentWord)
}

func TestCreateSessionValidation(t *testing.T) {
	env := newTestEnv(t, 1)

	rec := env.do(t, http.MethodPost, "/sessions", CreateSessionRequest{ListIDs: nil})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/sessions", CreateSessionRequest{
		ListIDs:    []string{env.listID.String()},
		TargetSize: 1000,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitRatingFlow(t *testing.T) {
	env := newTestEnv(t, 2)
	created := env.createSession(t)

	// Rate both words in presentation order.
	for i := 0; i < 2; i++ {
		get := env.do(t, http.MethodGet, "/sessions/"+created.ID, nil)
		require.Equal(t, http.StatusOK, get.Code)

		var state SessionResponse
		require.NoError(t, json.Unmarshal(get.Body.Bytes(), &state))
		require.NotNil(t, state.CurrentWord)

		rec := env.do(t, http.MethodPost, "/sessions/"+created.ID+"/ratings", SubmitRatingRequest{
			WordID: state.CurrentWord.ID,
			Rating: "good",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var result RatingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, 1, result.Progress.Repetitions)
		assert.Equal(t, 1, result.Progress.IntervalDays)
	}

	// Session is now complete and the summary is available.
	rec := env.do(t, http.MethodGet, "/sessions/"+created.ID+"/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.TotalReviewed)
	assert.Equal(t, 2, summary.Counts["good"])
}

func TestSubmitRatingWrongWordConflicts(t *testing.T) {
	env := newTestEnv(t, 2)
	created := env.createSession(t)

	// Find a word that is not the current one.
	var wrongID string
	for _, w := range env.words {
		if w.ID.String() != created.CurrentWord.ID {
			wrongID = w.ID.String()
			break
		}
	}
	require.NotEmpty(t, wrongID)

	rec := env.do(t, http.MethodPost, "/sessions/"+created.ID+"/ratings", SubmitRatingRequest{
		WordID: wrongID,
		Rating: "good",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSubmitRatingInvalidRating(t *testing.T) {
	env := newTestEnv(t, 1)
	created := env.createSession(t)

	rec := env.do(t, http.MethodPost, "/sessions/"+created.ID+"/ratings", SubmitRatingRequest{
		WordID: created.CurrentWord.ID,
		Rating: "perfect",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryBeforeCompletionConflicts(t *testing.T) {
	env := newTestEnv(t, 2)
	created := env.createSession(t)

	rec := env.do(t, http.MethodGet, "/sessions/"+created.ID+"/summary", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUnknownSessionNotFound(t *testing.T) {
	env := newTestEnv(t, 1)

	rec := env.do(t, http.MethodGet, "/sessions/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSessionRemovesRunner(t *testing.T) {
	env := newTestEnv(t, 1)
	created := env.createSession(t)

	rec := env.do(t, http.MethodDelete, "/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, env.registry.Len())
}

func TestSessionOfOtherLearnerNotFound(t *testing.T) {
	env := newTestEnv(t, 1)
	created := env.createSession(t)

	// Same router but a different learner in context.
	otherID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/sessions/"+created.ID, nil)

	runner, err := env.registry.Get(uuid.MustParse(created.ID))
	require.NoError(t, err)
	require.NotEqual(t, otherID, runner.Session().LearnerID)

	builderlessRouter := chi.NewRouter()
	builderlessRouter.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), shared.LearnerIDContextKey, otherID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	handler := NewSessionHandler(
		session.NewBuilderWithShuffle(newFakeProgressStore(), newFakeCatalog(), func(_ []*domain.Word) {}, nil),
		env.registry,
		newFakeProgressStore(),
		srs.NewDefaultService(),
		config.SessionConfig{DefaultSize: 20, MaxSize: 100},
		testLogger(),
	)
	builderlessRouter.Get("/sessions/{id}", handler.GetSession)

	rec := httptest.NewRecorder()
	builderlessRouter.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMissingLearnerContextUnauthorized(t *testing.T) {
	env := newTestEnv(t, 1)

	// Bypass the context-injecting middleware entirely.
	handler := NewSessionHandler(
		session.NewBuilderWithShuffle(newFakeProgressStore(), newFakeCatalog(), func(_ []*domain.Word) {}, nil),
		env.registry,
		newFakeProgressStore(),
		srs.NewDefaultService(),
		config.SessionConfig{DefaultSize: 20, MaxSize: 100},
		testLogger(),
	)

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()
	handler.CreateSession(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
