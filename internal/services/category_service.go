package services

import (
	"context"
	"strings"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
)

// CategoryRepository is the interface that wraps methods for categories table data access
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, id int, req *models.UpdateCategoryRequest) error
	Delete(ctx context.Context, id int) error
}

// categoryService implements category management
type categoryService struct {
	repo CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(repo CategoryRepository) *categoryService {
	return &categoryService{repo: repo}
}

// Create adds a category. Names are unique.
func (s *categoryService) Create(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if category.Name == "" {
		return nil, apperrors.Validation("name cannot be empty")
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, category.ID)
}

// GetAll returns every category ordered by name
func (s *categoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetAll(ctx)
}

// GetByID returns one category
func (s *categoryService) GetByID(ctx context.Context, id int) (*models.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update
func (s *categoryService) Update(ctx context.Context, id int, req *models.UpdateCategoryRequest) (*models.Category, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation("name cannot be empty")
		}
		req.Name = &name
	}

	if err := s.repo.Update(ctx, id, req); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// Delete removes a category without courses
func (s *categoryService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
