package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
)

const ratingSelect = `
	SELECT r.id, r.user_id, r.course_id, r.rating, r.review, r.created_at,
		u.first_name, u.last_name, u.profile_image, c.title
	FROM ratings r
	INNER JOIN users u ON u.id = r.user_id
	INNER JOIN courses c ON c.id = r.course_id
`

// ratingRepository implements RatingRepository
type ratingRepository struct {
	db *sql.DB
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *sql.DB) *ratingRepository {
	return &ratingRepository{db: db}
}

// Exists checks whether the user has already rated the course
func (r *ratingRepository) Exists(ctx context.Context, userID, courseID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ratings WHERE user_id = ? AND course_id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check rating existence: %w", err)
	}

	return exists, nil
}

// Create stores a rating. A concurrent duplicate hits the unique key and becomes a conflict.
func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	query := `INSERT INTO ratings (user_id, course_id, rating, review) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, rating.UserID, rating.CourseID, rating.Rating, rating.Review)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperrors.Conflict("course already rated by this user")
		}
		return fmt.Errorf("failed to create rating: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rating.ID = int(id)
	return nil
}

// GetValuesByCourse returns every rating value of a course
func (r *ratingRepository) GetValuesByCourse(ctx context.Context, courseID int) ([]float64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT rating FROM ratings WHERE course_id = ?`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating values: %w", err)
	}
	defer rows.Close()

	values := []float64{}
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan rating value: %w", err)
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating values: %w", err)
	}

	return values, nil
}

// GetAll returns every rating with author and course title, newest first
func (r *ratingRepository) GetAll(ctx context.Context) ([]models.Rating, error) {
	return r.list(ctx, ratingSelect+` ORDER BY r.created_at DESC, r.id DESC`)
}

// GetByCourse returns the ratings of one course, newest first
func (r *ratingRepository) GetByCourse(ctx context.Context, courseID int) ([]models.Rating, error) {
	return r.list(ctx, ratingSelect+` WHERE r.course_id = ? ORDER BY r.created_at DESC, r.id DESC`, courseID)
}

func (r *ratingRepository) list(ctx context.Context, query string, args ...any) ([]models.Rating, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	ratings := []models.Rating{}
	for rows.Next() {
		rating := models.Rating{User: &models.RatingAuthor{}}
		if err := rows.Scan(
			&rating.ID,
			&rating.UserID,
			&rating.CourseID,
			&rating.Rating,
			&rating.Review,
			&rating.CreatedAt,
			&rating.User.FirstName,
			&rating.User.LastName,
			&rating.User.ProfileImage,
			&rating.CourseTitle,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return ratings, nil
}
