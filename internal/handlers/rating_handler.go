package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/handlers"
	"go.uber.org/zap"
)

// RatingService is the interface that wraps methods for rating business logic
type RatingService interface {
	// AddRating stores one rating per user and course and refreshes the course average.
	//
	// A second rating of the same course results in apperrors.ErrConflict.
	AddRating(ctx context.Context, userID int, req *models.AddRatingRequest) (*models.AddRatingResponse, error)
	GetAll(ctx context.Context) ([]models.Rating, error)
	GetByCourse(ctx context.Context, courseID int) ([]models.Rating, error)
}

// RatingHandler handles rating HTTP requests
type RatingHandler struct {
	handlers.BaseHandler
	ratingService RatingService
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(ratingService RatingService, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{
		BaseHandler:   handlers.BaseHandler{Logger: logger},
		ratingService: ratingService,
	}
}

// RegisterRoutes registers all rating handler routes
func (h *RatingHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.With(guards.Student).Post("/add-rating", h.AddRating)
	r.Get("/ratings", h.GetRatings)
	r.Get("/courses/{courseId}/ratings", h.GetCourseRatings)
}

// AddRating handles POST /add-rating
// @Summary Rate a course
// @Tags ratings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.AddRatingRequest true "Rating"
// @Success 201 {object} handlers.Response{data=models.AddRatingResponse} "Rating stored with the new course average"
// @Failure 400 {object} handlers.Response "Rating outside 1..5"
// @Failure 404 {object} handlers.Response "Course not found"
// @Failure 409 {object} handlers.Response "Course already rated"
// @Router /add-rating [post]
func (h *RatingHandler) AddRating(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.AddRatingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	resp, err := h.ratingService.AddRating(r.Context(), caller.UserID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusCreated, "rating added", resp)
}

// GetRatings handles GET /ratings
// @Summary List all ratings
// @Tags ratings
// @Produce json
// @Success 200 {object} handlers.Response{data=[]models.Rating} "Ratings with author and course title"
// @Router /ratings [get]
func (h *RatingHandler) GetRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.ratingService.GetAll(r.Context())
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "ratings fetched", ratings)
}

// GetCourseRatings handles GET /courses/{courseId}/ratings
// @Summary List ratings of a course
// @Tags ratings
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} handlers.Response{data=[]models.Rating} "Ratings"
// @Router /courses/{courseId}/ratings [get]
func (h *RatingHandler) GetCourseRatings(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseId")
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	ratings, err := h.ratingService.GetByCourse(r.Context(), courseID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "ratings fetched", ratings)
}
