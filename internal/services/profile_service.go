package services

import (
	"context"
	"fmt"
	"time"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// profileService implements reading and updating the current user's profile
type profileService struct {
	userRepo       UserRepository
	courseRepo     CourseRepository
	enrollmentRepo EnrollmentRepository
	logger         *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo UserRepository, courseRepo CourseRepository, enrollmentRepo EnrollmentRepository, logger *zap.Logger) *profileService {
	return &profileService{
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		logger:         logger,
	}
}

// GetProfile returns the user together with the IDs of created and enrolled courses
func (s *profileService) GetProfile(ctx context.Context, userID int) (*models.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	created, err := s.courseRepo.GetIDsByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.enrollmentRepo.GetCourseIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.ProfileResponse{User: user, CreatedCourses: created, EnrolledCourses: enrolled}, nil
}

// UpdateProfile applies a partial update and returns the refreshed profile
func (s *profileService) UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) (*models.ProfileResponse, error) {
	if req.MobileNumber != nil {
		taken, err := s.userRepo.ExistsByMobileNumber(ctx, *req.MobileNumber, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflict("mobile number already in use")
		}
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != nil {
		dob, err := time.Parse(time.DateOnly, *req.DateOfBirth)
		if err != nil {
			return nil, apperrors.Validation("dateOfBirth must be in YYYY-MM-DD format")
		}
		if dob.After(time.Now()) {
			return nil, apperrors.Validation("dateOfBirth cannot be in the future")
		}
		dateOfBirth = &dob
	}

	var passwordHash string
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = string(hash)
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, req, passwordHash, dateOfBirth); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}
