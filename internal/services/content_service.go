package services

import (
	"context"
	"strings"

	"github.com/skillbridge/backend/internal/duration"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"go.uber.org/zap"
)

// contentService implements topic and subtopic management
type contentService struct {
	courseRepo  CourseRepository
	contentRepo CourseContentRepository
	logger      *zap.Logger
}

// NewContentService creates a new course content service
func NewContentService(courseRepo CourseRepository, contentRepo CourseContentRepository, logger *zap.Logger) *contentService {
	return &contentService{
		courseRepo:  courseRepo,
		contentRepo: contentRepo,
		logger:      logger,
	}
}

// CreateTopic appends an empty topic to a course owned by the actor
func (s *contentService) CreateTopic(ctx context.Context, actor Actor, req *models.CreateTopicRequest) (*models.Topic, error) {
	if _, err := s.ownedCourse(ctx, actor, req.CourseID); err != nil {
		return nil, err
	}

	topic := &models.Topic{
		CourseID:      req.CourseID,
		Name:          strings.TrimSpace(req.Name),
		TopicDuration: duration.Zero,
		SubTopics:     []models.SubTopic{},
	}
	if err := s.contentRepo.CreateTopic(ctx, topic); err != nil {
		return nil, err
	}

	return s.contentRepo.GetTopicByID(ctx, topic.ID)
}

// GetTopicsByCourse returns the ordered content of a course
func (s *contentService) GetTopicsByCourse(ctx context.Context, courseID int) ([]models.Topic, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.contentRepo.GetByCourseID(ctx, courseID)
}

// CreateSubTopic appends a subtopic to a topic, then recomputes and stores the
// topic and course durations
func (s *contentService) CreateSubTopic(ctx context.Context, actor Actor, req *models.CreateSubTopicRequest) (*models.SubTopic, error) {
	if _, err := duration.ParsePlaybackTime(req.VideoPlaybackTime); err != nil {
		return nil, err
	}

	topic, err := s.contentRepo.GetTopicByID(ctx, req.TopicID)
	if err != nil {
		return nil, err
	}

	if _, err := s.ownedCourse(ctx, actor, topic.CourseID); err != nil {
		return nil, err
	}

	subTopic := &models.SubTopic{
		TopicID:           topic.ID,
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		VideoURL:          req.VideoURL,
		VideoPlaybackTime: req.VideoPlaybackTime,
	}
	if err := s.contentRepo.CreateSubTopic(ctx, subTopic); err != nil {
		return nil, err
	}

	if err := s.RecomputeDurations(ctx, topic.CourseID); err != nil {
		return nil, err
	}

	return subTopic, nil
}

// RecomputeDurations rebuilds the cached topic and course durations from the stored subtopics
func (s *contentService) RecomputeDurations(ctx context.Context, courseID int) error {
	topics, err := s.contentRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return err
	}

	total, err := duration.Apply(topics)
	if err != nil {
		return err
	}

	if err := s.contentRepo.SaveDurations(ctx, courseID, topics, total); err != nil {
		return err
	}

	s.logger.Debug("course durations recomputed", zap.Int("course_id", courseID), zap.String("total_duration", total))
	return nil
}

func (s *contentService) ownedCourse(ctx context.Context, actor Actor, courseID int) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.CreatedBy != actor.UserID {
		return nil, apperrors.Forbidden("only the course owner can change its content")
	}
	return course, nil
}
