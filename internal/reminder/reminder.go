// Package reminder runs the daily due-words sweep: once a day it asks
// the progress store which learners have words waiting and hands each
// learner's count to a Notifier. Delivery (email, push) is owned by an
// external component behind the Notifier interface.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/lexikon-app/lexikon-api/internal/config"
	"github.com/lexikon-app/lexikon-api/internal/store"
)

// Notifier delivers a due-words reminder to one learner.
type Notifier interface {
	NotifyDueWords(ctx context.Context, learnerID uuid.UUID, dueWords int) error
}

// LogNotifier is the default Notifier: it only logs the digest. Useful
// in development and as a stand-in until a delivery channel is wired up.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// NotifyDueWords implements Notifier.
func (n *LogNotifier) NotifyDueWords(_ context.Context, learnerID uuid.UUID, dueWords int) error {
	n.logger.Info("due words reminder",
		slog.String("learner_id", learnerID.String()),
		slog.Int("due_words", dueWords))
	return nil
}

// Sweeper schedules and runs the daily reminder sweep.
type Sweeper struct {
	progressStore store.ProgressStore
	notifier      Notifier
	scheduler     *gocron.Scheduler
	logger        *slog.Logger
}

// NewSweeper creates a reminder sweeper. The scheduler is not started
// until Start is called.
func NewSweeper(
	progressStore store.ProgressStore,
	notifier Notifier,
	logger *slog.Logger,
) *Sweeper {
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if notifier == nil {
		panic("notifier cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{
		progressStore: progressStore,
		notifier:      notifier,
		scheduler:     gocron.NewScheduler(time.UTC),
		logger:        logger.With(slog.String("component", "reminder_sweeper")),
	}
}

// Start schedules the daily sweep at the configured hour (UTC) and runs
// the scheduler in the background.
func (s *Sweeper) Start(cfg config.ReminderConfig) error {
	at := fmt.Sprintf("%02d:00", cfg.Hour)

	_, err := s.scheduler.Every(1).Day().At(at).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := s.Sweep(ctx, time.Now().UTC()); err != nil {
			s.logger.Error("reminder sweep failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminder sweep: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("reminder sweep scheduled", slog.String("at", at))
	return nil
}

// Stop stops the background scheduler.
func (s *Sweeper) Stop() {
	s.scheduler.Stop()
}

// Sweep runs one pass: fetch the per-learner due counts and notify each
// learner that has words waiting. A notifier failure for one learner
// does not stop the sweep for the rest.
func (s *Sweeper) Sweep(ctx context.Context, asOf time.Time) error {
	counts, err := s.progressStore.DueCounts(ctx, asOf)
	if err != nil {
		return fmt.Errorf("failed to query due counts: %w", err)
	}

	notified := 0
	for _, count := range counts {
		if count.DueWords == 0 {
			continue
		}
		if err := s.notifier.NotifyDueWords(ctx, count.LearnerID, count.DueWords); err != nil {
			s.logger.Error("failed to notify learner",
				slog.String("learner_id", count.LearnerID.String()),
				slog.Any("error", err))
			continue
		}
		notified++
	}

	s.logger.Info("reminder sweep finished",
		slog.Int("learners_due", len(counts)),
		slog.Int("notified", notified))

	return nil
}
