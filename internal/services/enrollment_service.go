package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/notification"
	"github.com/skillbridge/backend/libs/apperrors"
	"go.uber.org/zap"
)

// EnrollmentRepository is the interface that wraps methods for enrollments table data access
type EnrollmentRepository interface {
	Exists(ctx context.Context, userID, courseID int) (bool, error)
	// Method Create enrolls a user. It returns false when the pair was already enrolled.
	Create(ctx context.Context, userID, courseID int) (bool, error)
	GetCourseIDsByUser(ctx context.Context, userID int) ([]int, error)
	CountByCourse(ctx context.Context, courseID int) (int, error)
	// Method GetEnrolledCourses lists enrolled courses joined with the user's progress.
	GetEnrolledCourses(ctx context.Context, userID int) ([]models.EnrolledCourse, error)
}

// PaymentGateway is the interface that wraps the payment provider
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params models.CheckoutParams) (*models.CheckoutSession, error)
	// Method VerifyEvent authenticates a webhook payload. A bad signature results in apperrors.ErrInvalidSignature.
	VerifyEvent(payload []byte, signature string) (*models.PaymentEvent, error)
}

// EventDeduplicator claims webhook event IDs so redelivered events are processed once
type EventDeduplicator interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

// CheckoutSettings holds checkout parameters that do not depend on the course
type CheckoutSettings struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

// enrollmentService implements paid checkout and enrollment on confirmed payment
type enrollmentService struct {
	courseRepo     CourseRepository
	enrollmentRepo EnrollmentRepository
	cartRepo       CartRepository
	userRepo       UserRepository
	gateway        PaymentGateway
	dedup          EventDeduplicator
	notifier       Mailer
	settings       CheckoutSettings
	logger         *zap.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	courseRepo CourseRepository,
	enrollmentRepo EnrollmentRepository,
	cartRepo CartRepository,
	userRepo UserRepository,
	gateway PaymentGateway,
	dedup EventDeduplicator,
	notifier Mailer,
	settings CheckoutSettings,
	logger *zap.Logger,
) *enrollmentService {
	return &enrollmentService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		cartRepo:       cartRepo,
		userRepo:       userRepo,
		gateway:        gateway,
		dedup:          dedup,
		notifier:       notifier,
		settings:       settings,
		logger:         logger,
	}
}

// Checkout starts a hosted payment for a public course. The amount comes from the
// stored course price, never from the client.
func (s *enrollmentService) Checkout(ctx context.Context, userID, courseID int) (*models.CheckoutSession, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.CourseType != models.CourseTypePublic {
		return nil, apperrors.NotFound("course not found")
	}

	enrolled, err := s.enrollmentRepo.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, apperrors.Conflict("already enrolled in this course")
	}

	amount := course.Price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if amount <= 0 {
		return nil, apperrors.Validation("course has no price to pay")
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, models.CheckoutParams{
		AmountMinorUnits: amount,
		Currency:         s.settings.Currency,
		ProductName:      course.Title,
		SuccessURL:       s.settings.SuccessURL,
		CancelURL:        s.settings.CancelURL,
		Metadata: map[string]string{
			models.MetadataUserID:   strconv.Itoa(userID),
			models.MetadataCourseID: strconv.Itoa(courseID),
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.Int("user_id", userID),
		zap.Int("course_id", courseID),
		zap.Int64("amount", amount),
	)
	return session, nil
}

// HandleWebhook enrolls the buyer of a completed checkout. The signature is checked
// before anything else; redelivered events and repeated enrollments are no-ops.
func (s *enrollmentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*models.EnrollmentResult, error) {
	event, err := s.gateway.VerifyEvent(payload, signature)
	if err != nil {
		s.logger.Warn("rejected payment webhook", zap.Error(err))
		return nil, err
	}

	if event.Type != models.EventCheckoutSessionCompleted {
		s.logger.Debug("ignoring payment event", zap.String("event_id", event.ID), zap.String("type", event.Type))
		return &models.EnrollmentResult{Ignored: true}, nil
	}

	userID, courseID, err := parseEnrollmentMetadata(event.Metadata)
	if err != nil {
		return nil, err
	}
	result := &models.EnrollmentResult{UserID: userID, CourseID: courseID}

	claimed, err := s.dedup.Claim(ctx, event.ID)
	if err != nil {
		// enrollment is idempotent in the database; dedup only saves work
		s.logger.Warn("event dedup unavailable", zap.String("event_id", event.ID), zap.Error(err))
		claimed = true
	}
	if !claimed {
		s.logger.Info("payment event already processed", zap.String("event_id", event.ID))
		result.AlreadyEnrolled = true
		return result, nil
	}

	created, err := s.enrollmentRepo.Create(ctx, userID, courseID)
	if err != nil {
		if releaseErr := s.dedup.Release(ctx, event.ID); releaseErr != nil {
			s.logger.Warn("failed to release payment event", zap.String("event_id", event.ID), zap.Error(releaseErr))
		}
		return nil, err
	}

	if !created {
		s.logger.Info("user already enrolled", zap.Int("user_id", userID), zap.Int("course_id", courseID))
		result.AlreadyEnrolled = true
		return result, nil
	}

	s.logger.Info("user enrolled",
		zap.String("event_id", event.ID),
		zap.Int("user_id", userID),
		zap.Int("course_id", courseID),
	)

	if err := s.cartRepo.Delete(ctx, userID, courseID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Warn("failed to remove purchased course from cart",
			zap.Int("user_id", userID), zap.Int("course_id", courseID), zap.Error(err))
	}

	s.notifyEnrollment(ctx, userID, courseID)
	return result, nil
}

// notifyEnrollment queues the confirmation email. Failures never affect the enrollment.
func (s *enrollmentService) notifyEnrollment(ctx context.Context, userID, courseID int) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("enrollment email skipped", zap.Int("user_id", userID), zap.Error(err))
		return
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		s.logger.Warn("enrollment email skipped", zap.Int("course_id", courseID), zap.Error(err))
		return
	}

	email, err := notification.EnrollmentEmail(user.Email, user.FirstName, course.Title)
	if err != nil {
		s.logger.Error("failed to render enrollment email", zap.Error(err))
		return
	}

	if err := s.notifier.SendEmail(ctx, email.To, email.Subject, email.Body); err != nil {
		s.logger.Error("failed to queue enrollment email",
			zap.Int("user_id", userID), zap.Int("course_id", courseID), zap.Error(err))
	}
}

func parseEnrollmentMetadata(metadata map[string]string) (int, int, error) {
	userID, err := strconv.Atoi(metadata[models.MetadataUserID])
	if err != nil || userID <= 0 {
		return 0, 0, apperrors.Validation(fmt.Sprintf("invalid %s in payment metadata", models.MetadataUserID))
	}

	courseID, err := strconv.Atoi(metadata[models.MetadataCourseID])
	if err != nil || courseID <= 0 {
		return 0, 0, apperrors.Validation(fmt.Sprintf("invalid %s in payment metadata", models.MetadataCourseID))
	}

	return userID, courseID, nil
}
