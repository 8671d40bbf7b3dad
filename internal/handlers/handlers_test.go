package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/skillbridge/backend/internal/models"
	"github.com/stretchr/testify/require"
)

const (
	studentID    = 30
	instructorID = 10
	adminID      = 1
)

// stubValidator maps fixed tokens to identities
type stubValidator struct{}

func (stubValidator) ValidateAccessToken(token string) (int, int, error) {
	switch token {
	case "student":
		return studentID, int(models.RoleStudent), nil
	case "instructor":
		return instructorID, int(models.RoleInstructor), nil
	case "admin":
		return adminID, int(models.RoleAdmin), nil
	}
	return 0, 0, errors.New("invalid token")
}

// routeRegistrar is implemented by every handler in this package
type routeRegistrar interface {
	RegisterRoutes(r chi.Router, guards Guards)
}

func newTestRouter(h routeRegistrar) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.RegisterRoutes(r, NewGuards(stubValidator{}))
	})
	return r
}

// envelope mirrors the response envelope with raw data for typed decoding
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()

	env := decodeEnvelope(t, w)
	require.True(t, env.Success, "message: %s", env.Message)
	require.NoError(t, json.Unmarshal(env.Data, dst))
}
