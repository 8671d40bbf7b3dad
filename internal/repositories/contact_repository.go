package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/skillbridge/backend/internal/models"
)

// contactRepository implements ContactRepository
type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new contact message repository
func NewContactRepository(db *sql.DB) *contactRepository {
	return &contactRepository{db: db}
}

// Create stores a contact message
func (r *contactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (first_name, last_name, email, phone_number, message)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, msg.FirstName, msg.LastName, msg.Email, msg.PhoneNumber, msg.Message)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	msg.ID = int(id)
	return nil
}

// GetAll returns contact messages, newest first
func (r *contactRepository) GetAll(ctx context.Context, limit, offset int) ([]models.ContactMessage, error) {
	query := `
		SELECT id, first_name, last_name, email, phone_number, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact messages: %w", err)
	}
	defer rows.Close()

	messages := []models.ContactMessage{}
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.PhoneNumber, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact messages: %w", err)
	}

	return messages, nil
}
