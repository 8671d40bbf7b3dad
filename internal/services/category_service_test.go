package services

import (
	"context"
	"testing"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := NewCategoryService(&mockCategoryRepository{})

		category, err := svc.Create(context.Background(), &models.CreateCategoryRequest{Name: " Design ", Description: "UI"})

		require.NoError(t, err)
		assert.Equal(t, "Design", category.Name)
	})

	t.Run("blank name", func(t *testing.T) {
		repo := &mockCategoryRepository{}
		svc := NewCategoryService(repo)

		_, err := svc.Create(context.Background(), &models.CreateCategoryRequest{Name: "   "})

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Empty(t, repo.categories)
	})

	t.Run("duplicate name", func(t *testing.T) {
		svc := NewCategoryService(&mockCategoryRepository{createErr: apperrors.Conflict("category already exists")})

		_, err := svc.Create(context.Background(), &models.CreateCategoryRequest{Name: "Design"})

		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestCategoryService_Update(t *testing.T) {
	t.Run("renames", func(t *testing.T) {
		svc := NewCategoryService(&mockCategoryRepository{categories: testCategories()})

		category, err := svc.Update(context.Background(), 1, &models.UpdateCategoryRequest{Name: ptr(" Coding ")})

		require.NoError(t, err)
		assert.Equal(t, "Coding", category.Name)
	})

	t.Run("missing category", func(t *testing.T) {
		repo := &mockCategoryRepository{categories: testCategories()}
		svc := NewCategoryService(repo)

		_, err := svc.Update(context.Background(), 9, &models.UpdateCategoryRequest{Name: ptr("Coding")})

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Nil(t, repo.updated)
	})

	t.Run("blank name", func(t *testing.T) {
		repo := &mockCategoryRepository{categories: testCategories()}
		svc := NewCategoryService(repo)

		_, err := svc.Update(context.Background(), 1, &models.UpdateCategoryRequest{Name: ptr(" ")})

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Nil(t, repo.updated)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	svc := NewCategoryService(&mockCategoryRepository{deleteErr: apperrors.Conflict("category has courses")})

	err := svc.Delete(context.Background(), 1)

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

// mockContactRepository is a mock implementation of ContactRepository
type mockContactRepository struct {
	created *models.ContactMessage
	limit   int
	offset  int
	err     error
}

func (m *mockContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	if m.err != nil {
		return m.err
	}
	msg.ID = 1
	m.created = msg
	return nil
}

func (m *mockContactRepository) GetAll(ctx context.Context, limit, offset int) ([]models.ContactMessage, error) {
	m.limit = limit
	m.offset = offset
	return []models.ContactMessage{}, m.err
}

func TestContactService_Create(t *testing.T) {
	repo := &mockContactRepository{}
	svc := NewContactService(repo)

	msg, err := svc.Create(context.Background(), &models.CreateContactRequest{
		FirstName: " Ada ",
		LastName:  "Lovelace",
		Email:     "ADA@example.com",
		Message:   " Hello ",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, msg.ID)
	assert.Equal(t, "Ada", repo.created.FirstName)
	assert.Equal(t, "ada@example.com", repo.created.Email)
	assert.Equal(t, "Hello", repo.created.Message)
}

func TestContactService_GetAll(t *testing.T) {
	tests := []struct {
		name           string
		page           int
		count          int
		expectedLimit  int
		expectedOffset int
	}{
		{"first page", 1, 20, 20, 0},
		{"third page", 3, 20, 20, 40},
		{"defaults", 0, 0, 50, 0},
		{"count above maximum", 2, 1000, 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockContactRepository{}
			svc := NewContactService(repo)

			_, err := svc.GetAll(context.Background(), tt.page, tt.count)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedLimit, repo.limit)
			assert.Equal(t, tt.expectedOffset, repo.offset)
		})
	}
}
