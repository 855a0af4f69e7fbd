package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lexikon-app/lexikon-api/internal/api"
	apiMiddleware "github.com/lexikon-app/lexikon-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	sessionHandler := api.NewSessionHandler(
		app.sessionBuilder,
		app.sessionRegistry,
		app.progressStore,
		app.srsService,
		app.config.Session,
		app.logger,
	)
	progressHandler := api.NewProgressHandler(app.progressService, app.logger)
	normalHandler := api.NewNormalHandler(app.quizService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Study session endpoints
			r.Post("/sessions", sessionHandler.CreateSession)
			r.Get("/sessions/{id}", sessionHandler.GetSession)
			r.Post("/sessions/{id}/ratings", sessionHandler.SubmitRating)
			r.Get("/sessions/{id}/summary", sessionHandler.GetSummary)
			r.Delete("/sessions/{id}", sessionHandler.DeleteSession)

			// Progress endpoints
			r.Get("/progress/due-count", progressHandler.GetDueCount)
			r.Get("/progress/{wordId}", progressHandler.GetProgress)
			r.Post("/progress/{wordId}/postpone", progressHandler.PostponeReview)

			// Normal quiz endpoints
			r.Post("/normal/{wordId}/answers", normalHandler.SubmitAnswer)
			r.Get("/normal/{wordId}", normalHandler.GetProgress)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
