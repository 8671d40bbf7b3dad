package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
)

const courseSelect = `
	SELECT c.id, c.title, c.description, c.price, c.category_id, c.tags, c.image, c.benefits,
		c.requirements, c.course_type, c.average_rating, c.total_duration, c.created_by,
		c.created_at, c.updated_at,
		u.id, u.first_name, u.last_name, u.about, u.profile_image
	FROM courses c
	INNER JOIN users u ON u.id = c.created_by
`

// courseRepository implements CourseRepository
type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{db: db}
}

func scanCourse(row rowScanner) (*models.Course, error) {
	course := &models.Course{Creator: &models.CourseCreator{}}
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Price,
		&course.CategoryID,
		&course.Tags,
		&course.Image,
		&course.Benefits,
		&course.Requirements,
		&course.CourseType,
		&course.AverageRating,
		&course.TotalDuration,
		&course.CreatedBy,
		&course.CreatedAt,
		&course.UpdatedAt,
		&course.Creator.ID,
		&course.Creator.FirstName,
		&course.Creator.LastName,
		&course.Creator.About,
		&course.Creator.ProfileImage,
	)
	return course, err
}

// Create inserts a new course
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (title, description, price, category_id, tags, image, benefits,
			requirements, course_type, total_duration, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		course.Title,
		course.Description,
		course.Price,
		course.CategoryID,
		course.Tags,
		course.Image,
		course.Benefits,
		course.Requirements,
		course.CourseType,
		course.TotalDuration,
		course.CreatedBy,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("category not found")
		}
		return fmt.Errorf("failed to create course: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	course.ID = int(id)
	return nil
}

// GetByID retrieves a course with its creator
func (r *courseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	course, err := scanCourse(r.db.QueryRowContext(ctx, courseSelect+` WHERE c.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return course, nil
}

// GetPublicByCategory returns published courses of a category, newest first
func (r *courseRepository) GetPublicByCategory(ctx context.Context, categoryID int) ([]models.Course, error) {
	return r.list(ctx, courseSelect+` WHERE c.category_id = ? AND c.course_type = ? ORDER BY c.created_at DESC, c.id DESC`,
		categoryID, models.CourseTypePublic)
}

// GetByCreator returns every course created by an instructor
func (r *courseRepository) GetByCreator(ctx context.Context, userID int) ([]models.Course, error) {
	return r.list(ctx, courseSelect+` WHERE c.created_by = ? ORDER BY c.created_at DESC, c.id DESC`, userID)
}

func (r *courseRepository) list(ctx context.Context, query string, args ...any) ([]models.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, *course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, nil
}

// GetIDsByCreator returns IDs of courses created by a user
func (r *courseRepository) GetIDsByCreator(ctx context.Context, userID int) ([]int, error) {
	return queryIDs(ctx, r.db, `SELECT id FROM courses WHERE created_by = ? ORDER BY id`, userID)
}

// GetAllIDs returns IDs of every course
func (r *courseRepository) GetAllIDs(ctx context.Context) ([]int, error) {
	return queryIDs(ctx, r.db, `SELECT id FROM courses ORDER BY id`)
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Update applies a partial update to course fields. Content is handled by the content repository.
func (r *courseRepository) Update(ctx context.Context, id int, req *models.UpdateCourseRequest) error {
	return updateCourseFields(ctx, r.db, id, req)
}

// updateCourseFields builds and runs the partial UPDATE for the non-nil fields of req
func updateCourseFields(ctx context.Context, db execer, id int, req *models.UpdateCourseRequest) error {
	if req == nil {
		return nil
	}

	setParts := []string{}
	args := []any{}

	if req.Title != nil {
		setParts = append(setParts, "title = ?")
		args = append(args, *req.Title)
	}
	if req.Description != nil {
		setParts = append(setParts, "description = ?")
		args = append(args, *req.Description)
	}
	if req.Price != nil {
		setParts = append(setParts, "price = ?")
		args = append(args, *req.Price)
	}
	if req.CategoryID != nil {
		setParts = append(setParts, "category_id = ?")
		args = append(args, *req.CategoryID)
	}
	if req.Tags != nil {
		setParts = append(setParts, "tags = ?")
		args = append(args, models.StringList(req.Tags))
	}
	if req.Image != nil {
		setParts = append(setParts, "image = ?")
		args = append(args, *req.Image)
	}
	if req.Benefits != nil {
		setParts = append(setParts, "benefits = ?")
		args = append(args, *req.Benefits)
	}
	if req.Requirements != nil {
		setParts = append(setParts, "requirements = ?")
		args = append(args, models.StringList(req.Requirements))
	}
	if req.CourseType != nil {
		setParts = append(setParts, "course_type = ?")
		args = append(args, *req.CourseType)
	}

	if len(setParts) == 0 {
		return nil
	}

	query := "UPDATE courses SET " + strings.Join(setParts, ", ") + " WHERE id = ?"
	args = append(args, id)

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("category not found")
		}
		return fmt.Errorf("failed to update course: %w", err)
	}

	return nil
}

// UpdateAverageRating stores a recomputed average. Concurrent writers resolve as last write wins.
func (r *courseRepository) UpdateAverageRating(ctx context.Context, id int, average float64) error {
	query := `UPDATE courses SET average_rating = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, average, id); err != nil {
		return fmt.Errorf("failed to update average rating: %w", err)
	}

	return nil
}

// Delete removes a course together with its content, carts, ratings and progress
func (r *courseRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("course not found")
	}

	return nil
}

// queryIDs runs a query returning a single integer column
func queryIDs(ctx context.Context, db *sql.DB, query string, args ...any) ([]int, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ids: %w", err)
	}

	return ids, nil
}
