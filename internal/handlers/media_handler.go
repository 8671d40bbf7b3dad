package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/handlers"
	"go.uber.org/zap"
)

const uploadFormField = "file"

// MediaService defines the interface for media service operations
type MediaService interface {
	// Method Upload stores a file under a generated name and records its metadata.
	//
	// "kind" selects the extension allow-list and the size limit.
	// "r" is read once and never buffered whole in memory.
	//
	// A disallowed extension or an oversized file results in apperrors.ErrValidation.
	Upload(ctx context.Context, userID int, kind models.MediaKind, originalName, contentType string, r io.Reader) (*models.Media, error)
	// Method Open returns metadata and an open handle of a stored file. The caller closes the file.
	//
	// An unknown file results in apperrors.ErrNotFound.
	Open(ctx context.Context, kind models.MediaKind, fileName string) (*models.Media, *os.File, error)
}

// MediaHandler handles media-related HTTP requests
type MediaHandler struct {
	handlers.BaseHandler
	mediaService MediaService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService MediaService, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		BaseHandler:  handlers.BaseHandler{Logger: logger},
		mediaService: mediaService,
	}
}

// RegisterRoutes registers all media handler routes.
// Upload routes are expected to be mounted outside the global request size limit.
func (h *MediaHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.With(guards.Authenticated).Post("/upload-image", h.UploadImage)
	r.With(guards.Authenticated).Post("/upload-video", h.UploadVideo)
	r.Get("/media/{kind}/{fileName}", h.DownloadFile)
}

// UploadImage handles POST /upload-image
// @Summary Upload an image
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "Image (.jpg .jpeg .png .gif .webp)"
// @Success 201 {object} handlers.Response{data=models.Media} "Stored image"
// @Failure 400 {object} handlers.Response "File type not allowed or too large"
// @Router /upload-image [post]
func (h *MediaHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, models.MediaKindImage)
}

// UploadVideo handles POST /upload-video
// @Summary Upload a video
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "Video (.mp4 .avi .mkv .mov)"
// @Success 201 {object} handlers.Response{data=models.Media} "Stored video"
// @Failure 400 {object} handlers.Response "File type not allowed or too large"
// @Router /upload-video [post]
func (h *MediaHandler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, models.MediaKindVideo)
}

// upload streams the "file" part of a multipart body straight into storage
func (h *MediaHandler) upload(w http.ResponseWriter, r *http.Request, kind models.MediaKind) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "multipart form data expected")
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			h.RespondError(w, http.StatusBadRequest, "file is required")
			return
		}
		if err != nil {
			h.Logger.Warn("failed to read multipart body", zap.Error(err))
			h.RespondError(w, http.StatusBadRequest, "failed to parse request")
			return
		}

		if part.FormName() != uploadFormField || part.FileName() == "" {
			part.Close()
			continue
		}

		contentType := part.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		media, err := h.mediaService.Upload(r.Context(), caller.UserID, kind, part.FileName(), contentType, part)
		part.Close()
		if err != nil {
			h.RespondServiceError(w, r, err)
			return
		}

		h.RespondSuccess(w, http.StatusCreated, string(kind)+" uploaded", media)
		return
	}
}

// DownloadFile handles GET /media/{kind}/{fileName}
// @Summary Download media file
// @Description Streams a stored file with its content type. Range requests are supported.
// @Tags media
// @Produce application/octet-stream
// @Param kind path string true "Media kind (image or video)"
// @Param fileName path string true "File name"
// @Param Range header string false "Range"
// @Success 200 "File content"
// @Success 206 "Partial file content"
// @Failure 404 {object} handlers.Response "File not found"
// @Router /media/{kind}/{fileName} [get]
func (h *MediaHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	kind := models.MediaKind(chi.URLParam(r, "kind"))
	fileName := chi.URLParam(r, "fileName")

	media, file, err := h.mediaService.Open(r.Context(), kind, fileName)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		h.Logger.Error("failed to get file info", zap.String("file", fileName), zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	if media.ContentType != "" {
		w.Header().Set("Content-Type", media.ContentType)
	}
	http.ServeContent(w, r, media.FileName, fileInfo.ModTime(), file)
}
