package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
)

// mediaRepository stores metadata of uploaded files
type mediaRepository struct {
	db *sql.DB
}

// NewMediaRepository creates a new media metadata repository
func NewMediaRepository(db *sql.DB) *mediaRepository {
	return &mediaRepository{
		db: db,
	}
}

// Create inserts a new media record
func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	query := `
		INSERT INTO media (id, kind, original_name, file_name, content_type, size, uploaded_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		media.ID,
		media.Kind,
		media.OriginalName,
		media.FileName,
		media.ContentType,
		media.Size,
		media.UploadedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create media: %w", err)
	}

	return nil
}

// GetByFileName retrieves a media record by kind and stored file name
func (r *mediaRepository) GetByFileName(ctx context.Context, kind models.MediaKind, fileName string) (*models.Media, error) {
	query := `
		SELECT id, kind, original_name, file_name, content_type, size, uploaded_by, created_at
		FROM media
		WHERE kind = ? AND file_name = ?
		LIMIT 1
	`

	media := &models.Media{}
	err := r.db.QueryRowContext(ctx, query, kind, fileName).Scan(
		&media.ID,
		&media.Kind,
		&media.OriginalName,
		&media.FileName,
		&media.ContentType,
		&media.Size,
		&media.UploadedBy,
		&media.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("media not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media by file name: %w", err)
	}

	return media, nil
}
