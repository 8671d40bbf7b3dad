package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/skillbridge/backend/libs/apperrors"
	"go.uber.org/zap"
)

// Response is the envelope every endpoint replies with
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondSuccess sends a successful envelope with optional data
func (h *BaseHandler) RespondSuccess(w http.ResponseWriter, status int, message string, data any) {
	h.RespondJSON(w, status, Response{Success: true, Message: message, Data: data})
}

// RespondError sends an error envelope
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, Response{Success: false, Message: message, Error: http.StatusText(status)})
}

// RespondServiceError maps a service error to its status code.
// Errors outside the known kinds are logged and reported generically.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.RespondError(w, status, "internal server error")
		return
	}
	if status == http.StatusBadGateway {
		h.Logger.Warn("external service failure", zap.String("path", r.URL.Path), zap.Error(err))
	}
	h.RespondError(w, status, err.Error())
}

// WriteEnvelope writes an error envelope without a handler instance.
// Used by middleware that rejects requests before they reach a handler.
func WriteEnvelope(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: false, Message: message, Error: http.StatusText(status)})
}
