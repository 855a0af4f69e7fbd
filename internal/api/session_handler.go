// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon-api/internal/api/shared"
	"github.com/lexikon-app/lexikon-api/internal/config"
	"github.com/lexikon-app/lexikon-api/internal/domain"
	"github.com/lexikon-app/lexikon-api/internal/domain/srs"
	"github.com/lexikon-app/lexikon-api/internal/platform/logger"
	"github.com/lexikon-app/lexikon-api/internal/service/session"
	"github.com/lexikon-app/lexikon-api/internal/store"
)

// CreateSessionRequest represents the request body for starting a session
type CreateSessionRequest struct {
	ListIDs    []string `json:"list_ids"    validate:"required,min=1,dive,uuid"`
	TargetSize int      `json:"target_size" validate:"omitempty,gte=1"`
}

// SubmitRatingRequest represents the request body for rating the current word
type SubmitRatingRequest struct {
	WordID string `json:"word_id" validate:"required,uuid"`
	Rating string `json:"rating"  validate:"required,oneof=again hard good easy"`
}

// SessionHandler handles session-related HTTP requests
type SessionHandler struct {
	builder       *session.Builder
	registry      *session.Registry
	progressStore store.ProgressStore
	srsService    srs.Service
	sessionCfg    config.SessionConfig
	logger        *slog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(
	builder *session.Builder,
	registry *session.Registry,
	progressStore store.ProgressStore,
	srsService srs.Service,
	sessionCfg config.SessionConfig,
	logger *slog.Logger,
) *SessionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		builder:       builder,
		registry:      registry,
		progressStore: progressStore,
		srsService:    srsService,
		sessionCfg:    sessionCfg,
		logger:        logger.With(slog.String("component", "session_handler")),
	}
}

// learnerFromContext extracts the authenticated learner ID, responding
// with 401 on failure.
func learnerFromContext(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	learnerID, ok := r.Context().Value(shared.LearnerIDContextKey).(uuid.UUID)
	if !ok || learnerID == uuid.Nil {
		log.Warn("learner ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Learner ID not found or invalid")
		return uuid.Nil, false
	}
	return learnerID, true
}

// CreateSession handles POST /sessions requests.
// It builds a session from the selected lists and registers a runner for it.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := learnerFromContext(w, r, log)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	targetSize := req.TargetSize
	if targetSize == 0 {
		targetSize = h.sessionCfg.DefaultSize
	}
	if targetSize > h.sessionCfg.MaxSize {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest,
			GetSafeErrorMessage(session.ErrTargetSizeTooLarge), session.ErrTargetSizeTooLarge)
		return
	}

	listIDs := make([]uuid.UUID, 0, len(req.ListIDs))
	for _, raw := range req.ListIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid list ID format")
			return
		}
		listIDs = append(listIDs, id)
	}

	built, err := h.builder.BuildSession(r.Context(), learnerID, listIDs, targetSize, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	runner := session.NewRunner(built, h.progressStore, h.srsService, h.logger)
	h.registry.Add(runner)

	log.Debug("session created",
		slog.String("learner_id", learnerID.String()),
		slog.String("session_id", built.ID.String()),
		slog.Int("word_count", len(built.Words)))

	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(runner))
}

// GetSession handles GET /sessions/{id} requests.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := learnerFromContext(w, r, log)
	if !ok {
		return
	}

	runner, ok := h.runnerForRequest(w, r, learnerID)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(runner))
}

// SubmitRating handles POST /sessions/{id}/ratings requests.
// It records the learner's rating for the current word and advances the session.
func (h *SessionHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := learnerFromContext(w, r, log)
	if !ok {
		return
	}

	runner, ok := h.runnerForRequest(w, r, learnerID)
	if !ok {
		return
	}

	var req SubmitRatingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	wordID, err := uuid.Parse(req.WordID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid word ID format")
		return
	}

	record, err := runner.SubmitRating(r.Context(), wordID, domain.Rating(req.Rating))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, &RatingResponse{
		Progress: progressToResponse(record),
		State:    string(runner.State()),
		NextWord: wordToResponse(runner.CurrentWord()),
	})
}

// GetSummary handles GET /sessions/{id}/summary requests.
// The summary is only available once every word has been rated.
func (h *SessionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := learnerFromContext(w, r, log)
	if !ok {
		return
	}

	runner, ok := h.runnerForRequest(w, r, learnerID)
	if !ok {
		return
	}

	summary, err := runner.Summary()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summaryToResponse(summary))
}

// DeleteSession handles DELETE /sessions/{id} requests.
// Abandoning a session discards the runner; ratings already submitted
// stay persisted.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := learnerFromContext(w, r, log)
	if !ok {
		return
	}

	runner, ok := h.runnerForRequest(w, r, learnerID)
	if !ok {
		return
	}

	h.registry.Remove(runner.Session().ID)
	log.Debug("session abandoned",
		slog.String("learner_id", learnerID.String()),
		slog.String("session_id", runner.Session().ID.String()))

	w.WriteHeader(http.StatusNoContent)
}

// runnerForRequest resolves the {id} path parameter to a live runner
// owned by the learner. Sessions belonging to other learners are
// reported as not found rather than forbidden, to avoid leaking their
// existence.
func (h *SessionHandler) runnerForRequest(
	w http.ResponseWriter,
	r *http.Request,
	learnerID uuid.UUID,
) (*session.Runner, bool) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID format")
		return nil, false
	}

	runner, err := h.registry.Get(sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return nil, false
	}

	if runner.Session().LearnerID != learnerID {
		shared.RespondWithError(w, r, http.StatusNotFound, GetSafeErrorMessage(session.ErrSessionNotFound))
		return nil, false
	}

	return runner, true
}
