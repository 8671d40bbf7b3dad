package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
)

// enrollmentRepository stores the set of courses each user has paid for
type enrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *sql.DB) *enrollmentRepository {
	return &enrollmentRepository{db: db}
}

// Exists checks whether the user is enrolled in the course
func (r *enrollmentRepository) Exists(ctx context.Context, userID, courseID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM user_enrolled_courses WHERE user_id = ? AND course_id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check enrollment existence: %w", err)
	}

	return exists, nil
}

// Create enrolls a user in a course. It returns false without error when the
// enrollment already exists, so redelivered payment events stay harmless.
func (r *enrollmentRepository) Create(ctx context.Context, userID, courseID int) (bool, error) {
	query := `INSERT INTO user_enrolled_courses (user_id, course_id) VALUES (?, ?)`

	if _, err := r.db.ExecContext(ctx, query, userID, courseID); err != nil {
		if isDuplicateEntry(err) {
			return false, nil
		}
		if isForeignKeyViolation(err) {
			return false, apperrors.NotFound("user or course not found")
		}
		return false, fmt.Errorf("failed to create enrollment: %w", err)
	}

	return true, nil
}

// GetCourseIDsByUser returns IDs of the courses a user is enrolled in
func (r *enrollmentRepository) GetCourseIDsByUser(ctx context.Context, userID int) ([]int, error) {
	return queryIDs(ctx, r.db, `SELECT course_id FROM user_enrolled_courses WHERE user_id = ? ORDER BY enrolled_at, id`, userID)
}

// CountByCourse returns how many users are enrolled in a course
func (r *enrollmentRepository) CountByCourse(ctx context.Context, courseID int) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_enrolled_courses WHERE course_id = ?`, courseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	return count, nil
}

// GetEnrolledCourses returns the user's courses with progress. Courses without a
// progress record yet report 0% and status All.
func (r *enrollmentRepository) GetEnrolledCourses(ctx context.Context, userID int) ([]models.EnrolledCourse, error) {
	query := `
		SELECT c.id, c.title, c.description, c.image, c.total_duration,
			COALESCE(p.progress_percentage, 0), COALESCE(p.status, 'All'), e.enrolled_at
		FROM user_enrolled_courses e
		INNER JOIN courses c ON c.id = e.course_id
		LEFT JOIN course_progress p ON p.user_id = e.user_id AND p.course_id = e.course_id
		WHERE e.user_id = ?
		ORDER BY e.enrolled_at DESC, e.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrolled courses: %w", err)
	}
	defer rows.Close()

	courses := []models.EnrolledCourse{}
	for rows.Next() {
		var c models.EnrolledCourse
		if err := rows.Scan(
			&c.CourseID,
			&c.Title,
			&c.Description,
			&c.Image,
			&c.TotalDuration,
			&c.ProgressPercentage,
			&c.Status,
			&c.EnrolledAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan enrolled course: %w", err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrolled courses: %w", err)
	}

	return courses, nil
}
