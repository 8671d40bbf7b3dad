package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockMediaService is a mock implementation of MediaService
type mockMediaService struct {
	err error

	kind         models.MediaKind
	originalName string
	contentType  string
	content      []byte

	filePath string
	media    *models.Media
}

func (m *mockMediaService) Upload(ctx context.Context, userID int, kind models.MediaKind, originalName, contentType string, r io.Reader) (*models.Media, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.kind, m.originalName, m.contentType, m.content = kind, originalName, contentType, content
	if m.err != nil {
		return nil, m.err
	}
	return &models.Media{ID: "m1", Kind: kind, FileName: "generated.png", URL: "https://cdn.test/media/image/generated.png", UploadedBy: userID}, nil
}

func (m *mockMediaService) Open(ctx context.Context, kind models.MediaKind, fileName string) (*models.Media, *os.File, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	file, err := os.Open(m.filePath)
	if err != nil {
		return nil, nil, err
	}
	return m.media, file, nil
}

func multipartBody(t *testing.T, field, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("caption", "ignored"))
	part, err := mw.CreateFormFile(field, fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestMediaHandler_Upload(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		field          string
		token          string
		serviceErr     error
		expectedStatus int
		expectedKind   models.MediaKind
	}{
		{name: "image", path: "/api/upload-image", field: "file", token: "instructor", expectedStatus: http.StatusCreated, expectedKind: models.MediaKindImage},
		{name: "video", path: "/api/upload-video", field: "file", token: "student", expectedStatus: http.StatusCreated, expectedKind: models.MediaKindVideo},
		{name: "wrong field name", path: "/api/upload-image", field: "avatar", token: "instructor", expectedStatus: http.StatusBadRequest},
		{name: "anonymous", path: "/api/upload-image", field: "file", expectedStatus: http.StatusUnauthorized},
		{name: "rejected by service", path: "/api/upload-image", field: "file", token: "instructor", serviceErr: apperrors.Validation("file type not allowed"), expectedStatus: http.StatusBadRequest, expectedKind: models.MediaKindImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media := &mockMediaService{err: tt.serviceErr}
			router := newTestRouter(NewMediaHandler(media, zap.NewNop()))
			body, contentType := multipartBody(t, tt.field, "cover.png", []byte("png-bytes"))

			req := httptest.NewRequest(http.MethodPost, tt.path, body)
			req.Header.Set("Content-Type", contentType)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedKind, media.kind)
			if tt.expectedKind != "" {
				assert.Equal(t, "cover.png", media.originalName)
				assert.Equal(t, "png-bytes", string(media.content))
				assert.Equal(t, "application/octet-stream", media.contentType)
			}
		})
	}
}

func TestMediaHandler_Upload_NotMultipart(t *testing.T) {
	router := newTestRouter(NewMediaHandler(&mockMediaService{}, zap.NewNop()))

	w := doRequest(t, router, http.MethodPost, "/api/upload-image", "instructor", map[string]string{"file": "x"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaHandler_DownloadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated.png")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))
	media := &mockMediaService{
		filePath: path,
		media:    &models.Media{FileName: "generated.png", ContentType: "image/png"},
	}
	router := newTestRouter(NewMediaHandler(media, zap.NewNop()))

	t.Run("full file", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/media/image/generated.png", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, "0123456789", w.Body.String())
	})

	t.Run("range request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/media/image/generated.png", nil)
		req.Header.Set("Range", "bytes=2-5")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusPartialContent, w.Code)
		assert.Equal(t, "2345", w.Body.String())
	})

	t.Run("unknown file", func(t *testing.T) {
		router := newTestRouter(NewMediaHandler(&mockMediaService{err: apperrors.NotFound("media not found")}, zap.NewNop()))

		w := doRequest(t, router, http.MethodGet, "/api/media/image/missing.png", "", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
