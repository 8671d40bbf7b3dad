package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/handlers"
	"go.uber.org/zap"
)

// maxWebhookPayload bounds the raw webhook body read into memory
const maxWebhookPayload = 65536

// signatureHeader carries the payment provider's webhook signature
const signatureHeader = "Stripe-Signature"

// EnrollmentService is the interface that wraps methods for payment and enrollment business logic
type EnrollmentService interface {
	// Method Checkout opens a hosted payment session for a public course.
	//
	// The amount is taken from the stored course price, never from the client.
	// An already enrolled user results in apperrors.ErrConflict.
	Checkout(ctx context.Context, userID, courseID int) (*models.CheckoutSession, error)
	// Method HandleWebhook verifies a payment event and enrolls the buyer.
	//
	// "payload" must be the raw request body; "signature" is the provider signature header.
	// A bad signature results in apperrors.ErrInvalidSignature and mutates nothing.
	// Replayed events report AlreadyEnrolled instead of failing.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*models.EnrollmentResult, error)
}

// ProgressService is the interface that wraps methods for enrolled course and progress business logic
type ProgressService interface {
	// MarkSubTopicComplete records a finished subtopic and recomputes the course progress.
	// Completing the same subtopic again changes nothing.
	MarkSubTopicComplete(ctx context.Context, userID int, req *models.UpdateProgressRequest) (*models.CourseProgress, error)
	GetEnrolledCourses(ctx context.Context, userID int) ([]models.EnrolledCourse, error)
	// GetEnrolledCourse returns full course content with completed subtopics.
	// A user who is not enrolled gets apperrors.ErrForbidden.
	GetEnrolledCourse(ctx context.Context, userID, courseID int) (*models.EnrolledCourseDetail, error)
}

// EnrollmentHandler handles payment, webhook and learning progress HTTP requests
type EnrollmentHandler struct {
	handlers.BaseHandler
	enrollmentService EnrollmentService
	progressService   ProgressService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollmentService EnrollmentService, progressService ProgressService, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       handlers.BaseHandler{Logger: logger},
		enrollmentService: enrollmentService,
		progressService:   progressService,
	}
}

// RegisterRoutes registers all enrollment handler routes
func (h *EnrollmentHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Post("/webhook", h.Webhook)

	r.Group(func(r chi.Router) {
		r.Use(guards.Student)
		r.Post("/create-checkout-session", h.CreateCheckoutSession)
		r.Get("/my-enrolled-courses", h.GetEnrolledCourses)
		r.Get("/my-enrolled-course/{courseId}", h.GetEnrolledCourse)
		r.Post("/update-course-progress", h.UpdateCourseProgress)
	})
}

// CreateCheckoutSession handles POST /create-checkout-session
// @Summary Start payment for a course
// @Tags payments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CheckoutRequest true "Course to buy"
// @Success 200 {object} handlers.Response{data=models.CheckoutSession} "Hosted checkout session"
// @Failure 404 {object} handlers.Response "Course not found"
// @Failure 409 {object} handlers.Response "Already enrolled"
// @Failure 502 {object} handlers.Response "Payment provider unavailable"
// @Router /create-checkout-session [post]
func (h *EnrollmentHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	session, err := h.enrollmentService.Checkout(r.Context(), caller.UserID, req.CourseID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "checkout session created", session)
}

// Webhook handles POST /webhook
// @Summary Payment provider webhook
// @Description Receives signed payment events. Completed checkouts enroll the buyer; other events are acknowledged.
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Webhook signature"
// @Success 200 {object} handlers.Response{data=models.EnrollmentResult} "Event processed"
// @Failure 400 {object} handlers.Response "Invalid signature or payload"
// @Router /webhook [post]
func (h *EnrollmentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookPayload))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		h.Logger.Warn("failed to read webhook body", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	result, err := h.enrollmentService.HandleWebhook(r.Context(), payload, r.Header.Get(signatureHeader))
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	message := "enrollment successful"
	switch {
	case result.Ignored:
		message = "event ignored"
	case result.AlreadyEnrolled:
		message = "already enrolled"
	}
	h.RespondSuccess(w, http.StatusOK, message, result)
}

// GetEnrolledCourses handles GET /my-enrolled-courses
// @Summary List enrolled courses with progress
// @Tags learning
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} handlers.Response{data=[]models.EnrolledCourse} "Enrolled courses"
// @Router /my-enrolled-courses [get]
func (h *EnrollmentHandler) GetEnrolledCourses(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	courses, err := h.progressService.GetEnrolledCourses(r.Context(), caller.UserID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "enrolled courses fetched", courses)
}

// GetEnrolledCourse handles GET /my-enrolled-course/{courseId}
// @Summary Get an enrolled course with content and progress
// @Tags learning
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} handlers.Response{data=models.EnrolledCourseDetail} "Course with progress"
// @Failure 403 {object} handlers.Response "Not enrolled"
// @Router /my-enrolled-course/{courseId} [get]
func (h *EnrollmentHandler) GetEnrolledCourse(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	courseID, err := pathID(r, "courseId")
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	detail, err := h.progressService.GetEnrolledCourse(r.Context(), caller.UserID, courseID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "enrolled course fetched", detail)
}

// UpdateCourseProgress handles POST /update-course-progress
// @Summary Mark a subtopic as completed
// @Tags learning
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.UpdateProgressRequest true "Completed subtopic"
// @Success 200 {object} handlers.Response{data=models.CourseProgress} "Updated progress"
// @Failure 400 {object} handlers.Response "Subtopic does not belong to the course"
// @Failure 403 {object} handlers.Response "Not enrolled"
// @Router /update-course-progress [post]
func (h *EnrollmentHandler) UpdateCourseProgress(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.UpdateProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	progress, err := h.progressService.MarkSubTopicComplete(r.Context(), caller.UserID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "course progress updated", progress)
}
