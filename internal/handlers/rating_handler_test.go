package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockRatingService is a mock implementation of RatingService
type mockRatingService struct {
	ratings  []models.Rating
	err      error
	request  *models.AddRatingRequest
	courseID int
}

func (m *mockRatingService) AddRating(ctx context.Context, userID int, req *models.AddRatingRequest) (*models.AddRatingResponse, error) {
	m.request = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.AddRatingResponse{Rating: &models.Rating{ID: 1, UserID: userID, CourseID: req.CourseID, Rating: req.Rating}}, nil
}

func (m *mockRatingService) GetAll(ctx context.Context) ([]models.Rating, error) {
	return m.ratings, m.err
}

func (m *mockRatingService) GetByCourse(ctx context.Context, courseID int) ([]models.Rating, error) {
	m.courseID = courseID
	return m.ratings, m.err
}

func TestRatingHandler_AddRating(t *testing.T) {
	tests := []struct {
		name           string
		rating         float64
		serviceErr     error
		expectedStatus int
	}{
		{name: "success", rating: 4.5, expectedStatus: http.StatusCreated},
		{name: "below range", rating: 0.5, expectedStatus: http.StatusBadRequest},
		{name: "above range", rating: 5.5, expectedStatus: http.StatusBadRequest},
		{name: "already rated", rating: 4, serviceErr: apperrors.Conflict("course already rated"), expectedStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratings := &mockRatingService{err: tt.serviceErr}
			router := newTestRouter(NewRatingHandler(ratings, zap.NewNop()))

			w := doRequest(t, router, http.MethodPost, "/api/add-rating", "student", map[string]any{
				"courseId": 5,
				"rating":   tt.rating,
				"review":   "Clear and practical",
			})

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusBadRequest {
				assert.Nil(t, ratings.request)
			}
		})
	}
}

func TestRatingHandler_Lists(t *testing.T) {
	ratings := &mockRatingService{ratings: []models.Rating{{ID: 1, CourseID: 5, Rating: 4}}}
	router := newTestRouter(NewRatingHandler(ratings, zap.NewNop()))

	w := doRequest(t, router, http.MethodGet, "/api/ratings", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/courses/5/ratings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, ratings.courseID)
}
