package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/skillbridge/backend/libs/auth/service"
	"github.com/skillbridge/backend/libs/handlers"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"
)

// TokenValidator validates access tokens
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (int, int, error)
}

var _ TokenValidator = (*service.TokenGenerator)(nil)

// extractToken reads the bearer token from the Authorization header,
// falling back to the access_token cookie
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return ""
}

// authenticate validates the request token and returns a context carrying user ID and role.
// It writes a 401 response and returns false when authentication fails.
func authenticate(w http.ResponseWriter, r *http.Request, validator TokenValidator) (context.Context, int, bool) {
	token := extractToken(r)
	if token == "" {
		handlers.WriteEnvelope(w, http.StatusUnauthorized, "authentication required")
		return nil, 0, false
	}

	userID, role, err := validator.ValidateAccessToken(token)
	if err != nil {
		handlers.WriteEnvelope(w, http.StatusUnauthorized, "invalid or expired token")
		return nil, 0, false
	}

	ctx := context.WithValue(r.Context(), userIDKey, userID)
	ctx = context.WithValue(ctx, roleKey, role)
	return ctx, role, true
}

// Authenticate validates the JWT access token and stores user ID and role in the context
func Authenticate(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, _, ok := authenticate(w, r, validator)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthenticate stores user ID and role in the context when the request
// carries a valid token. Anonymous and invalid requests pass through unchanged.
func OptionalAuthenticate(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token != "" {
				if userID, role, err := validator.ValidateAccessToken(token); err == nil {
					r = r.WithContext(WithIdentity(r.Context(), userID, role))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole authenticates the request and lets it through only when the
// user's role is one of roles. Missing or invalid credentials give 401,
// a role outside the set gives 403.
func RequireRole(validator TokenValidator, roles ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, role, ok := authenticate(w, r, validator)
			if !ok {
				return
			}

			if !slices.Contains(roles, role) {
				handlers.WriteEnvelope(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID retrieves the user ID from context
func GetUserID(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}

// GetRole retrieves the user role from context
func GetRole(ctx context.Context) (int, bool) {
	role, ok := ctx.Value(roleKey).(int)
	return role, ok
}

// WithIdentity returns a context carrying the given user ID and role.
// Handler tests use it to bypass token validation.
func WithIdentity(ctx context.Context, userID, role int) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}
