package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/services"
	"github.com/skillbridge/backend/libs/apperrors"
	"github.com/skillbridge/backend/libs/auth/middleware"
	"github.com/skillbridge/backend/libs/validation"
)

// Guards holds the middlewares that protect routes
type Guards struct {
	// Authenticated lets any logged-in user through
	Authenticated func(http.Handler) http.Handler
	// Optional attaches the identity when a valid token is present and never rejects
	Optional   func(http.Handler) http.Handler
	Student    func(http.Handler) http.Handler
	Instructor func(http.Handler) http.Handler
	Admin      func(http.Handler) http.Handler
	// Staff lets instructors and admins through
	Staff func(http.Handler) http.Handler
}

// NewGuards builds route guards on top of the given token validator
func NewGuards(validator middleware.TokenValidator) Guards {
	return Guards{
		Authenticated: middleware.Authenticate(validator),
		Optional:      middleware.OptionalAuthenticate(validator),
		Student:       middleware.RequireRole(validator, int(models.RoleStudent)),
		Instructor:    middleware.RequireRole(validator, int(models.RoleInstructor)),
		Admin:         middleware.RequireRole(validator, int(models.RoleAdmin)),
		Staff:         middleware.RequireRole(validator, int(models.RoleInstructor), int(models.RoleAdmin)),
	}
}

// decodeJSON decodes the request body into dst and validates it.
// The returned error is always an apperrors validation error.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Validation("request body is empty")
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return apperrors.Validation("request body too large")
		}
		return apperrors.Validation("invalid request body")
	}
	return validation.Struct(dst)
}

// pathID parses a positive integer URL parameter
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("invalid " + name)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter, returning 0 when absent
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperrors.Validation("invalid " + name)
	}
	return v, nil
}

// actor returns the authenticated caller. ok is false for anonymous requests.
func actor(r *http.Request) (services.Actor, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		return services.Actor{}, false
	}
	role, _ := middleware.GetRole(r.Context())
	return services.Actor{UserID: userID, Role: models.Role(role)}, true
}
