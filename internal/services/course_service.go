package services

import (
	"context"
	"strings"

	"github.com/skillbridge/backend/internal/duration"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"go.uber.org/zap"
)

// CourseRepository is the interface that wraps methods for courses table data access
type CourseRepository interface {
	// Method Create inserts a new course. An unknown category results in apperrors.ErrNotFound.
	Create(ctx context.Context, course *models.Course) error
	// Method GetByID retrieves a course with its creator, without content.
	GetByID(ctx context.Context, id int) (*models.Course, error)
	// Method GetPublicByCategory lists public courses of a category, newest first.
	GetPublicByCategory(ctx context.Context, categoryID int) ([]models.Course, error)
	// Method GetByCreator lists every course of an instructor, drafts included.
	GetByCreator(ctx context.Context, userID int) ([]models.Course, error)
	// Method GetIDsByCreator lists IDs of the courses an instructor created.
	GetIDsByCreator(ctx context.Context, userID int) ([]int, error)
	// Method Update applies a partial update; nil fields are left untouched.
	Update(ctx context.Context, id int, req *models.UpdateCourseRequest) error
	// Method UpdateAverageRating stores a recomputed average rating.
	UpdateAverageRating(ctx context.Context, id int, average float64) error
	// Method Delete removes a course and, by cascade, its content.
	Delete(ctx context.Context, id int) error
}

// CourseContentRepository is the interface that wraps methods for topics and subtopics tables data access
type CourseContentRepository interface {
	CreateTopic(ctx context.Context, topic *models.Topic) error
	GetTopicByID(ctx context.Context, id int) (*models.Topic, error)
	CreateSubTopic(ctx context.Context, subTopic *models.SubTopic) error
	// Method GetByCourseID returns the ordered topics of a course with their ordered subtopics.
	GetByCourseID(ctx context.Context, courseID int) ([]models.Topic, error)
	CountSubTopics(ctx context.Context, courseID int) (int, error)
	SubTopicBelongsToCourse(ctx context.Context, subTopicID, courseID int) (bool, error)
	// Method SaveDurations persists topic durations and the course total in one transaction.
	SaveDurations(ctx context.Context, courseID int, topics []models.Topic, totalDuration string) error
	// Method ReplaceContent applies the course fields of req and swaps the whole content in one transaction.
	ReplaceContent(ctx context.Context, courseID int, req *models.UpdateCourseRequest, topics []models.Topic, totalDuration string) error
}

// Actor is the authenticated user performing an operation
type Actor struct {
	UserID int
	Role   models.Role
}

// IsAdmin reports whether the actor is an administrator
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// courseService implements the course catalog
type courseService struct {
	courseRepo     CourseRepository
	categoryRepo   CategoryRepository
	contentRepo    CourseContentRepository
	enrollmentRepo EnrollmentRepository
	logger         *zap.Logger
}

// NewCourseService creates a new course service
func NewCourseService(
	courseRepo CourseRepository,
	categoryRepo CategoryRepository,
	contentRepo CourseContentRepository,
	enrollmentRepo EnrollmentRepository,
	logger *zap.Logger,
) *courseService {
	return &courseService{
		courseRepo:     courseRepo,
		categoryRepo:   categoryRepo,
		contentRepo:    contentRepo,
		enrollmentRepo: enrollmentRepo,
		logger:         logger,
	}
}

// CreateCourse creates an empty course owned by the instructor
func (s *courseService) CreateCourse(ctx context.Context, creatorID int, req *models.CreateCourseRequest) (*models.Course, error) {
	if req.Price.IsNegative() {
		return nil, apperrors.Validation("price cannot be negative")
	}

	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	courseType := req.CourseType
	if courseType == "" {
		courseType = models.CourseTypeDraft
	}

	course := &models.Course{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		Tags:          models.StringList(req.Tags),
		Image:         req.Image,
		Benefits:      req.Benefits,
		Requirements:  models.StringList(req.Requirements),
		CourseType:    courseType,
		TotalDuration: duration.Zero,
		CreatedBy:     creatorID,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course created", zap.Int("course_id", course.ID), zap.Int("creator_id", creatorID))
	return s.courseRepo.GetByID(ctx, course.ID)
}

// GetCourse returns a course with its topics and subtopics.
// Drafts are visible only to their owner and administrators.
func (s *courseService) GetCourse(ctx context.Context, viewer Actor, id int) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if course.CourseType == models.CourseTypeDraft && course.CreatedBy != viewer.UserID && !viewer.IsAdmin() {
		return nil, apperrors.NotFound("course not found")
	}

	course.Topics, err = s.contentRepo.GetByCourseID(ctx, id)
	if err != nil {
		return nil, err
	}

	return course, nil
}

// GetCoursesByCategory lists the public courses of a category
func (s *courseService) GetCoursesByCategory(ctx context.Context, categoryID int) ([]models.Course, error) {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.courseRepo.GetPublicByCategory(ctx, categoryID)
}

// GetMyCourses lists every course the instructor created
func (s *courseService) GetMyCourses(ctx context.Context, creatorID int) ([]models.Course, error) {
	return s.courseRepo.GetByCreator(ctx, creatorID)
}

// UpdateCourse applies a partial update. When req.Topics is set the whole content is
// replaced and topic and course durations are recomputed before anything is written,
// so a malformed playback time leaves the course untouched.
func (s *courseService) UpdateCourse(ctx context.Context, actor Actor, id int, req *models.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if course.CreatedBy != actor.UserID {
		return nil, apperrors.Forbidden("only the course owner can update it")
	}

	if req.Price != nil && req.Price.IsNegative() {
		return nil, apperrors.Validation("price cannot be negative")
	}

	var (
		topics        []models.Topic
		totalDuration string
	)
	if req.Topics != nil {
		topics = topicsFromInput(req.Topics)
		totalDuration, err = duration.Apply(topics)
		if err != nil {
			return nil, err
		}
	}

	if req.Topics == nil {
		if err := s.courseRepo.Update(ctx, id, req); err != nil {
			return nil, err
		}
		return s.GetCourse(ctx, actor, id)
	}

	// fields and content are written together or not at all
	if err := s.contentRepo.ReplaceContent(ctx, id, req, topics, totalDuration); err != nil {
		return nil, err
	}
	s.logger.Info("course content replaced",
		zap.Int("course_id", id),
		zap.Int("topics", len(topics)),
		zap.String("total_duration", totalDuration),
	)

	return s.GetCourse(ctx, actor, id)
}

// DeleteCourse removes a course. Owners and administrators may delete;
// courses with enrolled students are kept.
func (s *courseService) DeleteCourse(ctx context.Context, actor Actor, id int) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if course.CreatedBy != actor.UserID && !actor.IsAdmin() {
		return apperrors.Forbidden("only the course owner or an admin can delete it")
	}

	enrolled, err := s.enrollmentRepo.CountByCourse(ctx, id)
	if err != nil {
		return err
	}
	if enrolled > 0 {
		return apperrors.Conflict("course has enrolled students")
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("course deleted", zap.Int("course_id", id), zap.Int("actor_id", actor.UserID))
	return nil
}

func topicsFromInput(inputs []models.TopicInput) []models.Topic {
	topics := make([]models.Topic, 0, len(inputs))
	for _, in := range inputs {
		topic := models.Topic{
			Name:      strings.TrimSpace(in.Name),
			SubTopics: make([]models.SubTopic, 0, len(in.SubTopics)),
		}
		for _, sub := range in.SubTopics {
			topic.SubTopics = append(topic.SubTopics, models.SubTopic{
				Title:             strings.TrimSpace(sub.Title),
				Description:       sub.Description,
				VideoURL:          sub.VideoURL,
				VideoPlaybackTime: sub.VideoPlaybackTime,
			})
		}
		topics = append(topics, topic)
	}
	return topics
}
