package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lexikon-app/lexikon-api/internal/config"
	"github.com/lexikon-app/lexikon-api/internal/domain/srs"
	"github.com/lexikon-app/lexikon-api/internal/platform/postgres"
	"github.com/lexikon-app/lexikon-api/internal/reminder"
	"github.com/lexikon-app/lexikon-api/internal/service/auth"
	"github.com/lexikon-app/lexikon-api/internal/service/normalquiz"
	"github.com/lexikon-app/lexikon-api/internal/service/progress"
	"github.com/lexikon-app/lexikon-api/internal/service/session"
	"github.com/lexikon-app/lexikon-api/internal/store"
)

// application bundles the wired dependencies of a running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	progressStore store.ProgressStore
	wordCatalog   store.WordCatalog
	normalStore   store.NormalProgressStore

	srsService      srs.Service
	sessionBuilder  *session.Builder
	sessionRegistry *session.Registry
	progressService *progress.Service
	quizService     *normalquiz.Service
	jwtService      auth.JWTService
	sweeper         *reminder.Sweeper
}

// newApplication wires stores and services on top of an open database
// connection. It does not start any background work; Start does that.
func newApplication(cfg *config.Config, db *sql.DB, logger *slog.Logger) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	progressStore := postgres.NewPostgresProgressStore(db, logger)
	wordCatalog := postgres.NewPostgresWordCatalog(db, logger)
	normalStore := postgres.NewPostgresNormalProgressStore(db, logger)

	srsService := srs.NewDefaultService()

	app := &application{
		config:          cfg,
		logger:          logger,
		db:              db,
		progressStore:   progressStore,
		wordCatalog:     wordCatalog,
		normalStore:     normalStore,
		srsService:      srsService,
		sessionBuilder:  session.NewBuilder(progressStore, wordCatalog, logger),
		sessionRegistry: session.NewRegistry(),
		progressService: progress.NewService(progressStore, srsService, logger),
		quizService:     normalquiz.NewService(normalStore, wordCatalog, logger),
		jwtService:      jwtService,
	}

	if cfg.Reminder.Enabled {
		app.sweeper = reminder.NewSweeper(
			progressStore,
			reminder.NewLogNotifier(logger),
			logger,
		)
	}

	return app, nil
}

// start launches background components.
func (app *application) start() error {
	if app.sweeper != nil {
		if err := app.sweeper.Start(app.config.Reminder); err != nil {
			return fmt.Errorf("failed to start reminder sweeper: %w", err)
		}
	}
	return nil
}

// cleanup releases resources on shutdown.
func (app *application) cleanup() {
	if app.sweeper != nil {
		app.sweeper.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
