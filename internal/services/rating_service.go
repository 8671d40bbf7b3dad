package services

import (
	"context"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"go.uber.org/zap"
)

// RatingRepository is the interface that wraps methods for ratings table data access
type RatingRepository interface {
	Exists(ctx context.Context, userID, courseID int) (bool, error)
	// Method Create stores a rating. A duplicate (user, course) pair results in apperrors.ErrConflict.
	Create(ctx context.Context, rating *models.Rating) error
	// Method GetValuesByCourse returns every rating value of a course.
	GetValuesByCourse(ctx context.Context, courseID int) ([]float64, error)
	GetAll(ctx context.Context) ([]models.Rating, error)
	GetByCourse(ctx context.Context, courseID int) ([]models.Rating, error)
}

// ratingService implements course ratings and the derived average
type ratingService struct {
	ratingRepo RatingRepository
	courseRepo CourseRepository
	logger     *zap.Logger
}

// NewRatingService creates a new rating service
func NewRatingService(ratingRepo RatingRepository, courseRepo CourseRepository, logger *zap.Logger) *ratingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// AddRating stores the user's only rating of a course and recomputes the course average
func (s *ratingService) AddRating(ctx context.Context, userID int, req *models.AddRatingRequest) (*models.AddRatingResponse, error) {
	if req.Rating < 1 || req.Rating > 5 || math.Abs(math.Round(req.Rating*10)-req.Rating*10) > 1e-9 {
		return nil, apperrors.Validation("rating must be between 1 and 5 with at most one decimal")
	}

	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		return nil, err
	}

	exists, err := s.ratingRepo.Exists(ctx, userID, req.CourseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("course already rated by this user")
	}

	rating := &models.Rating{
		UserID:   userID,
		CourseID: req.CourseID,
		Rating:   req.Rating,
		Review:   strings.TrimSpace(req.Review),
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}

	average, err := s.RecomputeAverage(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	return &models.AddRatingResponse{Rating: rating, AverageRating: average}, nil
}

// RecomputeAverage recomputes a course's average from all of its ratings and stores it.
// Concurrent recomputations resolve as last write wins.
func (s *ratingService) RecomputeAverage(ctx context.Context, courseID int) (float64, error) {
	values, err := s.ratingRepo.GetValuesByCourse(ctx, courseID)
	if err != nil {
		return 0, err
	}

	average := Average(values)
	if err := s.courseRepo.UpdateAverageRating(ctx, courseID, average); err != nil {
		return 0, err
	}

	return average, nil
}

// GetAll returns every rating
func (s *ratingService) GetAll(ctx context.Context) ([]models.Rating, error) {
	return s.ratingRepo.GetAll(ctx)
}

// GetByCourse returns the ratings of a course
func (s *ratingService) GetByCourse(ctx context.Context, courseID int) ([]models.Rating, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.ratingRepo.GetByCourse(ctx, courseID)
}

// Average returns the arithmetic mean rounded to two decimals, or 0 for no values
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}

	return sum.Div(decimal.NewFromInt(int64(len(values)))).Round(2).InexactFloat64()
}
