package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon-api/internal/api/shared"
	"github.com/lexikon-app/lexikon-api/internal/platform/logger"
	"github.com/lexikon-app/lexikon-api/internal/service/normalquiz"
)

// SubmitAnswerRequest represents the request body for a normal-quiz answer
type SubmitAnswerRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// NormalHandler handles normal-quiz HTTP requests
type NormalHandler struct {
	quizService *normalquiz.Service
	logger      *slog.Logger
}

// NewNormalHandler creates a new NormalHandler
func NewNormalHandler(quizService *normalquiz.Service, logger *slog.Logger) *NormalHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for NormalHandler")
	}

	return &NormalHandler{
		quizService: quizService,
		logger:      logger.With(slog.String("component", "normal_handler")),
	}
}

// SubmitAnswer handles POST /normal/{wordId}/answers requests.
// It applies one correct/incorrect answer to the learner's streak.
func (h *NormalHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
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

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.quizService.SubmitAnswer(r.Context(), learnerID, wordID, *req.Correct)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, normalProgressToResponse(result))
}

// GetProgress handles GET /normal/{wordId} requests.
// A word that was never answered yields the zero-streak default.
func (h *NormalHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.quizService.GetProgress(r.Context(), learnerID, wordID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, normalProgressToResponse(result))
}
