package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"github.com/skillbridge/backend/libs/handlers"
	"go.uber.org/zap"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register creates an unverified account and emails a one-time password.
	//
	// "req" parameter contains the user details and the requested role.
	//
	// Registering an email that exists but was never verified re-sends a fresh OTP.
	// If the email is verified or the mobile number is taken, apperrors.ErrConflict is returned.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	// Method VerifyOTP marks the account as verified when the OTP matches and has not expired.
	VerifyOTP(ctx context.Context, req *models.VerifyOTPRequest) error
	// Method Login validates credentials and returns access and refresh tokens.
	//
	// Unknown email and wrong password give the same apperrors.ErrUnauthorized error.
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	// Method Refresh rotates the refresh token and returns a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*models.LoginResponse, error)
	// Method Logout revokes the refresh token.
	Logout(ctx context.Context, refreshToken string) error
	// Method ForgotPassword emails a password reset link to the user.
	ForgotPassword(ctx context.Context, email string) error
	// Method ResetPassword sets a new password using a reset token and revokes all sessions.
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error
}

// ProfileService is the interface that wraps methods for profile business logic
type ProfileService interface {
	// GetProfile returns the current user without secrets, with created and enrolled course IDs
	GetProfile(ctx context.Context, userID int) (*models.ProfileResponse, error)
	// UpdateProfile applies a partial profile update; nil fields are left untouched
	UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) (*models.ProfileResponse, error)
}

// AuthHandler handles authentication and profile HTTP requests
type AuthHandler struct {
	handlers.BaseHandler
	authService        AuthService
	profileService     ProfileService
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService AuthService,
	profileService ProfileService,
	accessTokenExpiry time.Duration,
	refreshTokenExpiry time.Duration,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler:        handlers.BaseHandler{Logger: logger},
		authService:        authService,
		profileService:     profileService,
		accessTokenExpiry:  accessTokenExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api
func (h *AuthHandler) RegisterRoutes(r chi.Router, guards Guards) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/verify-otp", h.VerifyOTP)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(guards.Authenticated)
			r.Get("/my-profile", h.GetProfile)
			r.Patch("/update-profile", h.UpdateProfile)
		})
	})
}

// Register handles POST /auth/register
// @Summary Register a new user
// @Description Create a Student or Instructor account. A 6-digit OTP is emailed and must be verified before login.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} handlers.Response{data=models.User} "OTP sent"
// @Failure 400 {object} handlers.Response "Invalid request body"
// @Failure 409 {object} handlers.Response "Email or mobile number already registered"
// @Failure 502 {object} handlers.Response "OTP email could not be sent"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusCreated, "OTP sent to your email", user)
}

// VerifyOTP handles POST /auth/verify-otp
// @Summary Verify registration OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.VerifyOTPRequest true "OTP verification request"
// @Success 200 {object} handlers.Response "Account verified"
// @Failure 400 {object} handlers.Response "Invalid or expired OTP"
// @Failure 404 {object} handlers.Response "User not found"
// @Failure 409 {object} handlers.Response "Account already verified"
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	if err := h.authService.VerifyOTP(r.Context(), &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "account verified", nil)
}

// Login handles POST /auth/login
// @Summary Login user
// @Description Authenticate with email and password. Tokens are returned in the body and as HTTP-only cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} handlers.Response{data=models.LoginResponse} "Login successful"
// @Failure 401 {object} handlers.Response "Invalid credentials"
// @Failure 403 {object} handlers.Response "Account not verified"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.setTokenCookies(w, resp.AccessToken, resp.RefreshToken)
	h.RespondSuccess(w, http.StatusOK, "login successful", resp)
}

// Refresh handles POST /auth/refresh
// @Summary Refresh access token
// @Description Rotate the refresh token. The token can be provided in the request body or as a cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RefreshRequest false "Refresh token request (optional if using cookie)"
// @Success 200 {object} handlers.Response{data=models.LoginResponse} "Tokens refreshed"
// @Failure 400 {object} handlers.Response "Refresh token required"
// @Failure 401 {object} handlers.Response "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := h.refreshTokenFromRequest(r)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	resp, err := h.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.setTokenCookies(w, resp.AccessToken, resp.RefreshToken)
	h.RespondSuccess(w, http.StatusOK, "tokens refreshed successfully", resp)
}

// Logout handles POST /auth/logout
// @Summary Logout user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RefreshRequest false "Refresh token request (optional if using cookie)"
// @Success 200 {object} handlers.Response "Logged out"
// @Failure 400 {object} handlers.Response "Refresh token required"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := h.refreshTokenFromRequest(r)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	if err := h.authService.Logout(r.Context(), refreshToken); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.clearTokenCookies(w)
	h.RespondSuccess(w, http.StatusOK, "logged out", nil)
}

// ForgotPassword handles POST /auth/forgot-password
// @Summary Request a password reset link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ForgotPasswordRequest true "Forgot password request"
// @Success 200 {object} handlers.Response "Reset link sent"
// @Failure 404 {object} handlers.Response "User not found"
// @Failure 502 {object} handlers.Response "Reset email could not be sent"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "password reset link sent to your email", nil)
}

// ResetPassword handles POST /auth/reset-password
// @Summary Reset password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.ResetPasswordRequest true "Reset password request"
// @Success 200 {object} handlers.Response "Password updated"
// @Failure 400 {object} handlers.Response "Invalid or expired token"
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	if err := h.authService.ResetPassword(r.Context(), &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.clearTokenCookies(w)
	h.RespondSuccess(w, http.StatusOK, "password updated", nil)
}

// GetProfile handles GET /auth/my-profile
// @Summary Get current user profile
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} handlers.Response{data=models.ProfileResponse} "User profile"
// @Failure 401 {object} handlers.Response "Authentication required"
// @Router /auth/my-profile [get]
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), caller.UserID)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "profile fetched", profile)
}

// UpdateProfile handles PATCH /auth/update-profile
// @Summary Update current user profile
// @Tags auth
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} handlers.Response{data=models.ProfileResponse} "Updated profile"
// @Failure 400 {object} handlers.Response "Invalid request body"
// @Failure 409 {object} handlers.Response "Mobile number already in use"
// @Router /auth/update-profile [patch]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(r)
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), caller.UserID, &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondSuccess(w, http.StatusOK, "profile updated", profile)
}

// refreshTokenFromRequest reads the refresh token from the JSON body,
// falling back to the refresh_token cookie
func (h *AuthHandler) refreshTokenFromRequest(r *http.Request) (string, error) {
	var req models.RefreshRequest
	if err := decodeJSON(r, &req); err == nil {
		return req.RefreshToken, nil
	}

	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return "", apperrors.Validation("refresh token required")
	}
	return cookie.Value, nil
}

// setTokenCookies sets access and refresh tokens as HTTP-only cookies
func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(h.accessTokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.refreshTokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
