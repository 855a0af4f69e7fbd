package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon-api/internal/api/shared"
	"github.com/lexikon-app/lexikon-api/internal/platform/logger"
	"github.com/lexikon-app/lexikon-api/internal/service/progress"
)

// PostponeRequest represents the request body for postponing a review
type PostponeRequest struct {
	Days int `json:"days" validate:"required,gte=1"`
}

// ProgressHandler handles progress-related HTTP requests
type ProgressHandler struct {
	progressService *progress.Service
	logger          *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler
func NewProgressHandler(progressService *progress.Service, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}

	return &ProgressHandler{
		progressService: progressService,
		logger:          logger.With(slog.String("component", "progress_handler")),
	}
}

// GetProgress handles GET /progress/{wordId} requests.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := learnerFromContext(w, r, log)
	if !ok {
		return
	}

	wordID, err := uuid.Parse(chi.URLParam(r, "wordId"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid word ID format")
		return
	}

	record, err := h.progressService.GetRecord(r.Context(), learnerID, wordID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(record))
}

// GetDueCount handles GET /progress/due-count requests.
// List IDs are passed as a repeated list_id query parameter.
func (h *ProgressHandler) GetDueCount(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := learnerFromContext(w, r, log)
	if !ok {
		return
	}

	rawIDs := r.URL.Query()["list_id"]
	if len(rawIDs) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "At least one list_id query parameter is required")
		return
	}

	listIDs := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid list ID format")
			return
		}
		listIDs = append(listIDs, id)
	}

	asOf := time.Now().UTC()
	count, err := h.progressService.CountDue(r.Context(), learnerID, listIDs, asOf)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, &DueCountResponse{
		DueWords: count,
		AsOf:     asOf,
	})
}

// PostponeReview handles POST /progress/{wordId}/postpone requests.
func (h *ProgressHandler) PostponeReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := learnerFromContext(w, r, log)
	if !ok {
		return
	}

	wordID, err := uuid.Parse(chi.URLParam(r, "wordId"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid word ID format")
		return
	}

	var req PostponeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	record, err := h.progressService.Postpone(r.Context(), learnerID, wordID, req.Days)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review postponed",
		slog.String("learner_id", learnerID.String()),
		slog.String("word_id", wordID.String()),
		slog.Int("days", req.Days))

	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(record))
}
