package services

import (
	"context"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
)

// CartRepository is the interface that wraps methods for cart_items table data access
type CartRepository interface {
	Exists(ctx context.Context, userID, courseID int) (bool, error)
	// Method Create adds a course to a cart. A duplicate (user, course) pair results in apperrors.ErrConflict.
	Create(ctx context.Context, item *models.CartItem) error
	GetByUserID(ctx context.Context, userID int) ([]models.CartItem, error)
	// Method Delete removes a course from a cart. A missing entry results in apperrors.ErrNotFound.
	Delete(ctx context.Context, userID, courseID int) error
}

// cartService implements the shopping cart
type cartService struct {
	cartRepo       CartRepository
	courseRepo     CourseRepository
	enrollmentRepo EnrollmentRepository
}

// NewCartService creates a new cart service
func NewCartService(cartRepo CartRepository, courseRepo CourseRepository, enrollmentRepo EnrollmentRepository) *cartService {
	return &cartService{
		cartRepo:       cartRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// AddToCart puts a public course into the user's cart.
// The pre-check gives a clear message; the unique key still rejects concurrent duplicates.
func (s *cartService) AddToCart(ctx context.Context, userID, courseID int) (*models.CartItem, error) {
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

	exists, err := s.cartRepo.Exists(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict("course already in cart")
	}

	item := &models.CartItem{UserID: userID, CourseID: courseID}
	if err := s.cartRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// GetCart returns the user's cart
func (s *cartService) GetCart(ctx context.Context, userID int) ([]models.CartItem, error) {
	return s.cartRepo.GetByUserID(ctx, userID)
}

// RemoveFromCart deletes a course from the user's cart
func (s *cartService) RemoveFromCart(ctx context.Context, userID, courseID int) error {
	return s.cartRepo.Delete(ctx, userID, courseID)
}
