package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/services"
	"github.com/skillbridge/backend/libs/handlers"
	"go.uber.org/zap"
)

// CourseService is the interface that wraps methods for course business logic
type CourseService interface {
	// Method CreateCourse stores a course owned by the creator.
	//
	// An unknown category results in apperrors.ErrNotFound.
	CreateCourse(ctx context.Context, creatorID int, req *models.CreateCourseRequest) (*models.Course, error)
	// Method GetCourse returns a course with its topics and subtopics.
	//
	// "viewer" is the zero Actor for anonymous requests. Drafts are visible to their owner and to admins only.
	GetCourse(ctx context.Context, viewer services.Actor, id int) (*models.Course, error)
	// Method GetCoursesByCategory lists public courses of a category with creator details.
	GetCoursesByCategory(ctx context.Context, categoryID int) ([]models.Course, error)
	// Method GetMyCourses lists every course the instructor created, drafts included.
	GetMyCourses(ctx context.Context, creatorID int) ([]models.Course, error)
	// Method UpdateCourse applies a partial update. Only the owner may update a course.
	//
	// When the request carries content, the whole content is replaced and durations are recomputed.
	UpdateCourse(ctx context.Context, actor services.Actor, id int, req *models.UpdateCourseRequest) (*models.Course, error)
	// Method DeleteCourse removes a course. The owner and admins may delete.
	DeleteCourse(ctx context.Context, actor services.Actor, id int) error
}

// ContentService is the interface that wraps methods for topics and subtopics business logic
type ContentService interface {
	CreateTopic(ctx context.Context, actor services.Actor, req *models.CreateTopicRequest) (*models.Topic, error)
	// CreateSubTopic stores a subtopic and recomputes topic and course durations.
	CreateSubTopic(ctx context.Context, actor services.Actor, req *models.CreateSubTopicRequest) (*models.SubTopic, error)
	GetTopicsByCourse(ctx context.Context, courseID int) ([]models.Topic, error)
}

// CourseHandler handles course and course content HTTP requests
type CourseHandler struct {
	handlers.BaseHandler
	courseService  CourseService
	contentService ContentService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService CourseService, contentService ContentService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:    handlers.BaseHandler{Logger: logger},
		courseService:  courseService,
		contentService: contentService,
	}
}

// RegisterRoutes registers all course handler routes
func (h *CourseHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Get("/categories/{categoryId}/courses", h.GetCoursesByCategory)
	r.With(guards.Optional).Get("/courses/{courseId}", h.GetCourse)
	r.Get("/courses/{courseId}/topics", h.GetTopics)

	r.With(guards.Instructor).Post("/courses", h.CreateCourse)
	r.With(guards.Instructor).Get("/my-courses", h.GetMyCourses)
	r.With(guards.Instructor).Patch("/courses/{courseId}", h.UpdateCourse)
	r.With(guards.Staff).Delete("/courses/{courseId}", h.DeleteCourse)

	r.With(guards.Instructor).Post("/topics", h.CreateTopic)
	r.With(guards.Instructor).Post("/subtopics", h.CreateSubTopic)
}

// CreateCourse handles POST /courses
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateCourseRequest true "Course"
// @Success 201 {object} handlers.Response{data=models.Course} "Created course"
// @Failure 400 {object} handlers.Response "Invalid request body"
// @Failure 403 {object} handlers.Response "Instructor role required"
// @Failure 404 {object} handlers.Response "Category not found"
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CreateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), caller.UserID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusCreated, "course created", course)
}

// GetCourse handles GET /courses/{courseId}
// @Summary Get course with content
// @Description Returns the course with ordered topics and subtopics. Drafts are only visible to their owner.
// @Tags courses
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} handlers.Response{data=models.Course} "Course"
// @Failure 404 {object} handlers.Response "Course not found"
// @Router /courses/{courseId} [get]
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "courseId")
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	viewer, _ := actor(r)
	course, err := h.courseService.GetCourse(r.Context(), viewer, id)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "course fetched", course)
}

// GetCoursesByCategory handles GET /categories/{categoryId}/courses
// @Summary List public courses of a category
// @Tags courses
// @Produce json
// @Param categoryId path int true "Category ID"
// @Success 200 {object} handlers.Response{data=[]models.Course} "Courses"
// @Failure 404 {object} handlers.Response "Category not found"
// @Router /categories/{categoryId}/courses [get]
func (h *CourseHandler) GetCoursesByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r, "categoryId")
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	courses, err := h.courseService.GetCoursesByCategory(r.Context(), categoryID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "courses fetched", courses)
}

// GetMyCourses handles GET /my-courses
// @Summary List courses created by the current instructor
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} handlers.Response{data=[]models.Course} "Courses"
// @Failure 403 {object} handlers.Response "Instructor role required"
// @Router /my-courses [get]
func (h *CourseHandler) GetMyCourses(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	courses, err := h.courseService.GetMyCourses(r.Context(), caller.UserID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "courses fetched", courses)
}

// UpdateCourse handles PATCH /courses/{courseId}
// @Summary Update course
// @Description Partial update. A content field replaces all topics and subtopics and recomputes durations.
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "Course ID"
// @Param request body models.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} handlers.Response{data=models.Course} "Updated course"
// @Failure 400 {object} handlers.Response "Invalid request body"
// @Failure 403 {object} handlers.Response "Not the owner of the course"
// @Failure 404 {object} handlers.Response "Course not found"
// @Router /courses/{courseId} [patch]
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := pathID(r, "courseId")
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	var req models.UpdateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	course, err := h.courseService.UpdateCourse(r.Context(), caller, id, &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "course updated", course)
}

// DeleteCourse handles DELETE /courses/{courseId}
// @Summary Delete course
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} handlers.Response "Course deleted"
// @Failure 403 {object} handlers.Response "Not the owner of the course"
// @Failure 404 {object} handlers.Response "Course not found"
// @Failure 409 {object} handlers.Response "Course has enrolled students"
// @Router /courses/{courseId} [delete]
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := pathID(r, "courseId")
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	if err := h.courseService.DeleteCourse(r.Context(), caller, id); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "course deleted", nil)
}

// CreateTopic handles POST /topics
// @Summary Add a topic to a course
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateTopicRequest true "Topic"
// @Success 201 {object} handlers.Response{data=models.Topic} "Created topic"
// @Failure 403 {object} handlers.Response "Not the owner of the course"
// @Failure 404 {object} handlers.Response "Course not found"
// @Router /topics [post]
func (h *CourseHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CreateTopicRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	topic, err := h.contentService.CreateTopic(r.Context(), caller, &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusCreated, "topic created", topic)
}

// CreateSubTopic handles POST /subtopics
// @Summary Add a subtopic to a topic
// @Description The playback time must be HH:MM:SS. Topic and course durations are recomputed.
// @Tags content
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.CreateSubTopicRequest true "SubTopic"
// @Success 201 {object} handlers.Response{data=models.SubTopic} "Created subtopic"
// @Failure 400 {object} handlers.Response "Invalid playback time"
// @Failure 403 {object} handlers.Response "Not the owner of the course"
// @Failure 404 {object} handlers.Response "Topic not found"
// @Router /subtopics [post]
func (h *CourseHandler) CreateSubTopic(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CreateSubTopicRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	subTopic, err := h.contentService.CreateSubTopic(r.Context(), caller, &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusCreated, "subtopic created", subTopic)
}

// GetTopics handles GET /courses/{courseId}/topics
// @Summary List topics of a course
// @Tags content
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} handlers.Response{data=[]models.Topic} "Topics with subtopics"
// @Failure 404 {object} handlers.Response "Course not found"
// @Router /courses/{courseId}/topics [get]
func (h *CourseHandler) GetTopics(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "courseId")
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	topics, err := h.contentService.GetTopicsByCourse(r.Context(), courseID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "topics fetched", topics)
}
