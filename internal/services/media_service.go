package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/storage"
	"github.com/skillbridge/backend/libs/apperrors"
	"go.uber.org/zap"
)

// MediaRepository is the interface that wraps methods for media table data access
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByFileName(ctx context.Context, kind models.MediaKind, fileName string) (*models.Media, error)
}

// MediaStorage is the interface that wraps file storage of uploaded media
type MediaStorage interface {
	// Method Save writes r and returns the stored size. More than maxSize bytes results in storage.ErrTooLarge.
	Save(kind, fileName string, r io.Reader, maxSize int64) (int64, error)
	OpenFile(kind, fileName string) (*os.File, error)
	Delete(kind, fileName string) error
}

// MediaSettings holds upload limits and the public base URL of stored files
type MediaSettings struct {
	BaseURL      string
	MaxImageSize int64
	MaxVideoSize int64
}

// mediaService implements uploading and serving course images and videos
type mediaService struct {
	repo     MediaRepository
	storage  MediaStorage
	settings MediaSettings
	logger   *zap.Logger
}

// NewMediaService creates a new media service
func NewMediaService(repo MediaRepository, storage MediaStorage, settings MediaSettings, logger *zap.Logger) *mediaService {
	return &mediaService{
		repo:     repo,
		storage:  storage,
		settings: settings,
		logger:   logger,
	}
}

// Upload stores a file under a generated name and records its metadata
func (s *mediaService) Upload(ctx context.Context, userID int, kind models.MediaKind, originalName, contentType string, r io.Reader) (*models.Media, error) {
	allowed, ok := models.AllowedExtensions[kind]
	if !ok {
		return nil, apperrors.Validation(fmt.Sprintf("unknown media kind %q", kind))
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !slices.Contains(allowed, ext) {
		return nil, apperrors.Validation(fmt.Sprintf("file type %q is not allowed for %s", ext, kind))
	}

	maxSize := s.settings.MaxImageSize
	if kind == models.MediaKindVideo {
		maxSize = s.settings.MaxVideoSize
	}

	fileName := storage.GenerateFileName(ext)
	size, err := s.storage.Save(string(kind), fileName, r, maxSize)
	if errors.Is(err, storage.ErrTooLarge) {
		return nil, apperrors.Validation(fmt.Sprintf("file exceeds the %d bytes limit", maxSize))
	}
	if err != nil {
		return nil, err
	}

	media := &models.Media{
		ID:           uuid.NewString(),
		Kind:         kind,
		OriginalName: filepath.Base(originalName),
		FileName:     fileName,
		ContentType:  contentType,
		Size:         size,
		URL:          s.fileURL(kind, fileName),
		UploadedBy:   userID,
	}

	if err := s.repo.Create(ctx, media); err != nil {
		if delErr := s.storage.Delete(string(kind), fileName); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload", zap.String("file", fileName), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("media uploaded",
		zap.String("media_id", media.ID),
		zap.String("kind", string(kind)),
		zap.Int64("size", size),
		zap.Int("user_id", userID),
	)
	return media, nil
}

// Open returns the metadata and an open handle of a stored file. The caller closes the file.
func (s *mediaService) Open(ctx context.Context, kind models.MediaKind, fileName string) (*models.Media, *os.File, error) {
	media, err := s.repo.GetByFileName(ctx, kind, fileName)
	if err != nil {
		return nil, nil, err
	}
	media.URL = s.fileURL(kind, fileName)

	file, err := s.storage.OpenFile(string(kind), fileName)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, apperrors.NotFound("media not found")
	}
	if err != nil {
		return nil, nil, err
	}

	return media, file, nil
}

func (s *mediaService) fileURL(kind models.MediaKind, fileName string) string {
	return strings.TrimRight(s.settings.BaseURL, "/") + "/" + string(kind) + "/" + fileName
}
