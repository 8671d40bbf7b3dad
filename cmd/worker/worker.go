package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/skillbridge/backend/internal/notification"
	"go.uber.org/zap"
)

// jobTimeout bounds a single run of a periodic job
const jobTimeout = 10 * time.Minute

// EmailSender delivers an email synchronously
type EmailSender interface {
	// SendEmail sends a single email
	//
	// If the SMTP server rejects the message, the error will be returned
	// and asynq will retry the task.
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Maintenance defines the periodic housekeeping jobs
type Maintenance interface {
	// CleanupExpired removes expired refresh tokens and one-time secrets
	CleanupExpired(ctx context.Context) error
	// ReconcileRatings recomputes every course average and returns the number of failed courses
	ReconcileRatings(ctx context.Context) (int, error)
}

// Worker handles queued tasks and periodic jobs
type Worker struct {
	logger      *zap.Logger
	sender      EmailSender
	maintenance Maintenance
}

// NewWorker creates a new worker instance
func NewWorker(logger *zap.Logger, sender EmailSender, maintenance Maintenance) *Worker {
	return &Worker{
		logger:      logger,
		sender:      sender,
		maintenance: maintenance,
	}
}

// HandleSendEmail delivers an email enqueued by the API
func (w *Worker) HandleSendEmail(ctx context.Context, t *asynq.Task) error {
	email, err := notification.ParseSendEmailTask(t)
	if err != nil {
		// A malformed payload never succeeds, so skip retries
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if err := w.sender.SendEmail(ctx, email.To, email.Subject, email.Body); err != nil {
		w.logger.Warn("Failed to send email", zap.String("subject", email.Subject), zap.Error(err))
		return err
	}

	w.logger.Info("Email sent", zap.String("subject", email.Subject))
	return nil
}

// CleanupExpired runs the credential cleanup job
func (w *Worker) CleanupExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := w.maintenance.CleanupExpired(ctx); err != nil {
		w.logger.Error("Cleanup job failed", zap.Error(err))
	}
}

// ReconcileRatings runs the rating reconciliation job
func (w *Worker) ReconcileRatings() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	failed, err := w.maintenance.ReconcileRatings(ctx)
	if err != nil {
		w.logger.Error("Rating reconciliation job failed", zap.Error(err))
		return
	}
	if failed > 0 {
		w.logger.Warn("Rating reconciliation finished with failures", zap.Int("failed", failed))
	}
}

// Register binds task handlers to the mux and periodic jobs to the scheduler
func (w *Worker) Register(mux *asynq.ServeMux, scheduler *cron.Cron, cleanupSchedule, reconcileSchedule string) error {
	mux.HandleFunc(notification.TypeSendEmail, w.HandleSendEmail)

	if _, err := scheduler.AddFunc(cleanupSchedule, w.CleanupExpired); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", cleanupSchedule, err)
	}
	if _, err := scheduler.AddFunc(reconcileSchedule, w.ReconcileRatings); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", reconcileSchedule, err)
	}

	return nil
}
