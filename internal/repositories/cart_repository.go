package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
)

// cartRepository implements CartRepository
type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB) *cartRepository {
	return &cartRepository{db: db}
}

// Exists checks whether a course is already in the user's cart
func (r *cartRepository) Exists(ctx context.Context, userID, courseID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM cart_items WHERE user_id = ? AND course_id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check cart item existence: %w", err)
	}

	return exists, nil
}

// Create adds a course to the user's cart. The unique key on (user_id, course_id)
// turns a concurrent duplicate into a conflict.
func (r *cartRepository) Create(ctx context.Context, item *models.CartItem) error {
	query := `INSERT INTO cart_items (user_id, course_id) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, item.UserID, item.CourseID)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperrors.Conflict("course already in cart")
		}
		return fmt.Errorf("failed to create cart item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	item.ID = int(id)
	return nil
}

// GetByUserID returns the user's cart with course and creator details
func (r *cartRepository) GetByUserID(ctx context.Context, userID int) ([]models.CartItem, error) {
	query := `
		SELECT ci.id, ci.user_id, ci.course_id, ci.created_at,
			c.title, c.description, c.price, c.image,
			u.id, u.first_name, u.last_name
		FROM cart_items ci
		INNER JOIN courses c ON c.id = ci.course_id
		INNER JOIN users u ON u.id = c.created_by
		WHERE ci.user_id = ?
		ORDER BY ci.created_at DESC, ci.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		item := models.CartItem{Course: &models.CourseSummary{Creator: &models.CourseCreator{}}}
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.CourseID,
			&item.CreatedAt,
			&item.Course.Title,
			&item.Course.Description,
			&item.Course.Price,
			&item.Course.Image,
			&item.Course.Creator.ID,
			&item.Course.Creator.FirstName,
			&item.Course.Creator.LastName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		item.Course.ID = item.CourseID
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// Delete removes a course from the user's cart
func (r *cartRepository) Delete(ctx context.Context, userID, courseID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ? AND course_id = ?`, userID, courseID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound("course not found in cart")
	}

	return nil
}
