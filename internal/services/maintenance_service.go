package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpiredTokenRepository purges refresh tokens past their expiry
type ExpiredTokenRepository interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ExpiredSecretRepository wipes OTPs and password reset tokens past their expiry
type ExpiredSecretRepository interface {
	ClearExpiredSecrets(ctx context.Context, now time.Time) (int64, error)
}

// CourseIDLister lists every course ID
type CourseIDLister interface {
	GetAllIDs(ctx context.Context) ([]int, error)
}

// AverageRecomputer recomputes and stores the average rating of a course
type AverageRecomputer interface {
	RecomputeAverage(ctx context.Context, courseID int) (float64, error)
}

// maintenanceService implements periodic housekeeping run by the worker
type maintenanceService struct {
	tokenRepo  ExpiredTokenRepository
	userRepo   ExpiredSecretRepository
	courseRepo CourseIDLister
	ratings    AverageRecomputer
	now        func() time.Time
	logger     *zap.Logger
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	tokenRepo ExpiredTokenRepository,
	userRepo ExpiredSecretRepository,
	courseRepo CourseIDLister,
	ratings AverageRecomputer,
	logger *zap.Logger,
) *maintenanceService {
	return &maintenanceService{
		tokenRepo:  tokenRepo,
		userRepo:   userRepo,
		courseRepo: courseRepo,
		ratings:    ratings,
		now:        time.Now,
		logger:     logger,
	}
}

// CleanupExpired removes expired refresh tokens and one-time secrets
func (s *maintenanceService) CleanupExpired(ctx context.Context) error {
	now := s.now()

	tokens, err := s.tokenRepo.DeleteExpired(ctx, now)
	if err != nil {
		return err
	}

	secrets, err := s.userRepo.ClearExpiredSecrets(ctx, now)
	if err != nil {
		return err
	}

	s.logger.Info("expired credentials cleaned up",
		zap.Int64("refresh_tokens", tokens),
		zap.Int64("users_with_expired_secrets", secrets),
	)
	return nil
}

// ReconcileRatings recomputes every course average, repairing any lost concurrent update.
// A failing course is logged and skipped; the number of failures is returned.
func (s *maintenanceService) ReconcileRatings(ctx context.Context) (int, error) {
	ids, err := s.courseRepo.GetAllIDs(ctx)
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return failed, err
		}
		if _, err := s.ratings.RecomputeAverage(ctx, id); err != nil {
			failed++
			s.logger.Warn("failed to reconcile course rating", zap.Int("course_id", id), zap.Error(err))
		}
	}

	s.logger.Info("course ratings reconciled", zap.Int("courses", len(ids)), zap.Int("failed", failed))
	return failed, nil
}
