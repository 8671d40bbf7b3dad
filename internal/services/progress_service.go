package services

import (
	"context"
	"errors"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/progress"
	"github.com/skillbridge/backend/libs/apperrors"
	"go.uber.org/zap"
)

// ProgressRepository is the interface that wraps methods for course_progress table data access
type ProgressRepository interface {
	// Method Get returns the progress record with its completed subtopics. A missing record results in apperrors.ErrNotFound.
	Get(ctx context.Context, userID, courseID int) (*models.CourseProgress, error)
	// Method GetOrCreate returns the record, creating an empty one on first access.
	GetOrCreate(ctx context.Context, userID, courseID int) (*models.CourseProgress, error)
	GetCompletedSubTopicIDs(ctx context.Context, progressID int) ([]int, error)
	// Method AddCompletedSubTopic records a completed subtopic. It returns false when it was already recorded.
	AddCompletedSubTopic(ctx context.Context, progressID, subTopicID int) (bool, error)
	UpdateProgress(ctx context.Context, p *models.CourseProgress) error
}

// progressService implements the learner's view of enrolled courses
type progressService struct {
	progressRepo   ProgressRepository
	enrollmentRepo EnrollmentRepository
	courseRepo     CourseRepository
	contentRepo    CourseContentRepository
	logger         *zap.Logger
}

// NewProgressService creates a new progress service
func NewProgressService(
	progressRepo ProgressRepository,
	enrollmentRepo EnrollmentRepository,
	courseRepo CourseRepository,
	contentRepo CourseContentRepository,
	logger *zap.Logger,
) *progressService {
	return &progressService{
		progressRepo:   progressRepo,
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		contentRepo:    contentRepo,
		logger:         logger,
	}
}

// MarkSubTopicComplete records a completed subtopic and recomputes percentage and status
// against the course's current subtopic count. Repeating a call changes nothing.
func (s *progressService) MarkSubTopicComplete(ctx context.Context, userID int, req *models.UpdateProgressRequest) (*models.CourseProgress, error) {
	if err := s.requireEnrollment(ctx, userID, req.CourseID); err != nil {
		return nil, err
	}

	belongs, err := s.contentRepo.SubTopicBelongsToCourse(ctx, req.SubTopicID, req.CourseID)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, apperrors.Validation("subtopic does not belong to this course")
	}

	total, err := s.contentRepo.CountSubTopics(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, progress.ErrDegenerateCourse
	}

	p, err := s.progressRepo.GetOrCreate(ctx, userID, req.CourseID)
	if err != nil {
		return nil, err
	}

	if p.HasCompleted(req.SubTopicID) {
		return p, nil
	}

	added, err := s.progressRepo.AddCompletedSubTopic(ctx, p.ID, req.SubTopicID)
	if err != nil {
		return nil, err
	}
	if !added {
		// a concurrent request recorded it first and owns the recomputation
		return s.progressRepo.Get(ctx, userID, req.CourseID)
	}

	p.CompletedSubTopics, err = s.progressRepo.GetCompletedSubTopicIDs(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if err := progress.Apply(p, total); err != nil {
		return nil, err
	}

	if err := s.progressRepo.UpdateProgress(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Debug("subtopic completed",
		zap.Int("user_id", userID),
		zap.Int("course_id", req.CourseID),
		zap.Int("subtopic_id", req.SubTopicID),
		zap.Int("percentage", p.ProgressPercentage),
		zap.String("status", string(p.Status)),
	)
	return p, nil
}

// GetEnrolledCourses lists the user's enrolled courses with their progress
func (s *progressService) GetEnrolledCourses(ctx context.Context, userID int) ([]models.EnrolledCourse, error) {
	return s.enrollmentRepo.GetEnrolledCourses(ctx, userID)
}

// GetEnrolledCourse returns the full content of an enrolled course with the user's progress
func (s *progressService) GetEnrolledCourse(ctx context.Context, userID, courseID int) (*models.EnrolledCourseDetail, error) {
	if err := s.requireEnrollment(ctx, userID, courseID); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	course.Topics, err = s.contentRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	p, err := s.progressRepo.Get(ctx, userID, courseID)
	if errors.Is(err, apperrors.ErrNotFound) {
		p = &models.CourseProgress{
			UserID:             userID,
			CourseID:           courseID,
			CompletedSubTopics: []int{},
			Status:             models.ProgressStatusAll,
		}
	} else if err != nil {
		return nil, err
	}

	return &models.EnrolledCourseDetail{Course: course, Progress: p}, nil
}

func (s *progressService) requireEnrollment(ctx context.Context, userID, courseID int) error {
	enrolled, err := s.enrollmentRepo.Exists(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return apperrors.Forbidden("not enrolled in this course")
	}
	return nil
}
