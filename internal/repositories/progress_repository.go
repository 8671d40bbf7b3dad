package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
)

// progressRepository implements ProgressRepository
type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new course progress repository
func NewProgressRepository(db *sql.DB) *progressRepository {
	return &progressRepository{db: db}
}

// Get retrieves the progress of a user in a course together with the completed subtopic set
func (r *progressRepository) Get(ctx context.Context, userID, courseID int) (*models.CourseProgress, error) {
	query := `
		SELECT id, user_id, course_id, progress_percentage, status, created_at, updated_at
		FROM course_progress
		WHERE user_id = ? AND course_id = ?
	`

	p := &models.CourseProgress{}
	err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(
		&p.ID,
		&p.UserID,
		&p.CourseID,
		&p.ProgressPercentage,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("course progress not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course progress: %w", err)
	}

	p.CompletedSubTopics, err = r.GetCompletedSubTopicIDs(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// GetOrCreate returns the progress record of a user in a course, creating an
// empty one on first access. The unique key on (user_id, course_id) keeps it single.
func (r *progressRepository) GetOrCreate(ctx context.Context, userID, courseID int) (*models.CourseProgress, error) {
	query := `
		INSERT INTO course_progress (user_id, course_id, progress_percentage, status)
		VALUES (?, ?, 0, ?)
		ON DUPLICATE KEY UPDATE id = id
	`

	if _, err := r.db.ExecContext(ctx, query, userID, courseID, models.ProgressStatusAll); err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound("user or course not found")
		}
		return nil, fmt.Errorf("failed to create course progress: %w", err)
	}

	return r.Get(ctx, userID, courseID)
}

// GetCompletedSubTopicIDs returns the completed subtopic set of a progress record.
// Completions of subtopics no longer in the course's content are left out, so
// replaced content never counts towards the percentage.
func (r *progressRepository) GetCompletedSubTopicIDs(ctx context.Context, progressID int) ([]int, error) {
	query := `
		SELECT cps.subtopic_id
		FROM course_progress_subtopics cps
		JOIN course_progress cp ON cp.id = cps.progress_id
		JOIN subtopics s ON s.id = cps.subtopic_id
		JOIN topics t ON t.id = s.topic_id AND t.course_id = cp.course_id
		WHERE cps.progress_id = ?
		ORDER BY cps.completed_at, cps.subtopic_id
	`

	return queryIDs(ctx, r.db, query, progressID)
}

// AddCompletedSubTopic adds a subtopic to the completed set. It returns false when
// the subtopic was already present.
func (r *progressRepository) AddCompletedSubTopic(ctx context.Context, progressID, subTopicID int) (bool, error) {
	query := `INSERT INTO course_progress_subtopics (progress_id, subtopic_id) VALUES (?, ?)`

	if _, err := r.db.ExecContext(ctx, query, progressID, subTopicID); err != nil {
		if isDuplicateEntry(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to add completed subtopic: %w", err)
	}

	return true, nil
}

// UpdateProgress stores the derived percentage and status
func (r *progressRepository) UpdateProgress(ctx context.Context, p *models.CourseProgress) error {
	query := `UPDATE course_progress SET progress_percentage = ?, status = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, p.ProgressPercentage, p.Status, p.ID); err != nil {
		return fmt.Errorf("failed to update course progress: %w", err)
	}

	return nil
}
