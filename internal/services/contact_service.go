package services

import (
	"context"
	"strings"

	"github.com/skillbridge/backend/internal/models"
)

// ContactRepository is the interface that wraps methods for contact_messages table data access
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	GetAll(ctx context.Context, limit, offset int) ([]models.ContactMessage, error)
}

const defaultContactPageSize = 50

// contactService stores messages sent through the public contact form
type contactService struct {
	repo ContactRepository
}

// NewContactService creates a new contact service
func NewContactService(repo ContactRepository) *contactService {
	return &contactService{repo: repo}
}

// Create stores a contact message
func (s *contactService) Create(ctx context.Context, req *models.CreateContactRequest) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       normalizeEmail(req.Email),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Message:     strings.TrimSpace(req.Message),
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// GetAll returns a page of contact messages, newest first
func (s *contactService) GetAll(ctx context.Context, page, count int) ([]models.ContactMessage, error) {
	if page < 1 {
		page = 1
	}
	if count < 1 || count > 200 {
		count = defaultContactPageSize
	}

	return s.repo.GetAll(ctx, count, (page-1)*count)
}
