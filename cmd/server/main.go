// Package main implements the entry point for the Lexikon API server,
// which schedules and drives spaced-repetition vocabulary study
// sessions for learners.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/lexikon-app/lexikon-api/internal/config"
	"github.com/lexikon-app/lexikon-api/internal/platform/logger"
	"github.com/lexikon-app/lexikon-api/internal/platform/postgres"
	"github.com/lexikon-app/lexikon-api/internal/redact"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := app.start(); err != nil {
		app.logger.Error("failed to start background components", "error", redact.Error(err))
		app.cleanup()
		log.Fatalf("failed to start application: %v", err)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging, connects to the
// database, applies migrations, and wires the application dependencies.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"session_default_size", cfg.Session.DefaultSize,
		"session_max_size", cfg.Session.MaxSize,
		"reminder_enabled", cfg.Reminder.Enabled)

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := postgres.MigrateUp(migrateCtx, db); err != nil {
		return nil, err
	}
	appLogger.Info("database migrations applied")

	return newApplication(cfg, db, appLogger)
}
