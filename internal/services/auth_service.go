package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/internal/notification"
	"github.com/skillbridge/backend/libs/apperrors"
	"github.com/skillbridge/backend/libs/auth/service"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the interface that wraps methods for users table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user; its ID is set on success.
	//
	// A duplicate email or mobile number results in an apperrors.ErrConflict error.
	Create(ctx context.Context, user *models.User) error
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, apperrors.ErrNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.User, error)
	// Method GetByEmail retrieves a user by email, case-insensitively.
	//
	// If user with such email does not exist, apperrors.ErrNotFound will be returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method GetByPasswordResetToken retrieves a user by the SHA-256 hash of a reset token.
	GetByPasswordResetToken(ctx context.Context, tokenHash string) (*models.User, error)
	// Method ExistsByMobileNumber checks if a user other than excludeUserID uses the mobile number.
	ExistsByMobileNumber(ctx context.Context, mobileNumber string, excludeUserID int) (bool, error)
	// Method UpdateOTP stores a new one-time password and its expiry.
	UpdateOTP(ctx context.Context, userID int, otp string, expiresAt time.Time) error
	// Method MarkVerified marks the email as verified and clears the one-time password.
	MarkVerified(ctx context.Context, userID int) error
	// Method SetPasswordResetToken stores a reset token hash, or clears it when tokenHash is empty.
	SetPasswordResetToken(ctx context.Context, userID int, tokenHash string, expiresAt *time.Time) error
	// Method UpdatePassword stores a new password hash and clears any pending reset token.
	UpdatePassword(ctx context.Context, userID int, passwordHash string) error
	// Method UpdateProfile applies a partial profile update; nil fields are left untouched.
	UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest, passwordHash string, dateOfBirth *time.Time) error
}

// UserTokenRepository is the interface that wraps methods for user_tokens table data access
type UserTokenRepository interface {
	// Method Create stores a refresh token.
	Create(ctx context.Context, userToken *models.UserToken) error
	// Method GetByToken retrieves a stored refresh token.
	//
	// An unknown token results in an apperrors.ErrUnauthorized error.
	GetByToken(ctx context.Context, token string) (*models.UserToken, error)
	// Method Rotate replaces oldToken with newToken for the same user.
	Rotate(ctx context.Context, oldToken string, newToken *models.UserToken) error
	// Method DeleteByToken deletes a refresh token. Deleting an unknown token is not an error.
	DeleteByToken(ctx context.Context, token string) error
	// Method DeleteByUserID revokes every refresh token of a user.
	DeleteByUserID(ctx context.Context, userID int) error
}

// Mailer sends an HTML email
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// AuthSettings holds the identity flow lifetimes and links
type AuthSettings struct {
	OTPExpiry        time.Duration
	ResetTokenExpiry time.Duration
	ResetPasswordURL string
}

// authService implements registration, login and password recovery
type authService struct {
	userRepo       UserRepository
	userTokenRepo  UserTokenRepository
	tokenGenerator *service.TokenGenerator
	mailer         Mailer
	settings       AuthSettings
	logger         *zap.Logger
	now            func() time.Time
}

// NewAuthService creates a new auth service.
// mailer must deliver synchronously: OTP and reset emails are part of the request outcome.
func NewAuthService(
	userRepo UserRepository,
	userTokenRepo UserTokenRepository,
	tokenGenerator *service.TokenGenerator,
	mailer Mailer,
	settings AuthSettings,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo:       userRepo,
		userTokenRepo:  userTokenRepo,
		tokenGenerator: tokenGenerator,
		mailer:         mailer,
		settings:       settings,
		logger:         logger,
		now:            time.Now,
	}
}

// Register creates an unverified account and emails a one-time password.
//
// Registering again with an unverified email issues a fresh OTP instead of failing.
// The OTP email is sent before anything is stored, so a delivery failure leaves no account behind.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)

	role := models.RoleStudent
	if req.Role != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok || parsed == models.RoleAdmin {
			return nil, apperrors.Validation("role must be Student or Instructor")
		}
		role = parsed
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.OTPVerified {
			return nil, apperrors.Conflict("user already exists")
		}
		return existing, s.resendOTP(ctx, existing)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	taken, err := s.userRepo.ExistsByMobileNumber(ctx, req.MobileNumber, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict("mobile number already registered")
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, err
	}

	if err := s.sendOTP(ctx, email, req.FirstName, otp); err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	expiresAt := s.now().Add(s.settings.OTPExpiry)
	user := &models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: string(passwordHash),
		MobileNumber: req.MobileNumber,
		Gender:       req.Gender,
		Role:         role,
		OTP:          otp,
		OTPExpiresAt: &expiresAt,
		ProfileImage: models.DefaultProfileImage,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.Int("user_id", user.ID), zap.Stringer("role", user.Role))
	return user, nil
}

func (s *authService) resendOTP(ctx context.Context, user *models.User) error {
	otp, err := generateOTP()
	if err != nil {
		return err
	}

	if err := s.sendOTP(ctx, user.Email, user.FirstName, otp); err != nil {
		return err
	}

	return s.userRepo.UpdateOTP(ctx, user.ID, otp, s.now().Add(s.settings.OTPExpiry))
}

func (s *authService) sendOTP(ctx context.Context, to, name, otp string) error {
	email, err := notification.OTPEmail(to, name, otp, s.settings.OTPExpiry.String())
	if err != nil {
		return err
	}

	if err := s.mailer.SendEmail(ctx, email.To, email.Subject, email.Body); err != nil {
		s.logger.Error("failed to send otp email", zap.String("email", to), zap.Error(err))
		return apperrors.WrapCause(apperrors.ErrExternalService, "failed to send verification email", err)
	}

	return nil
}

// VerifyOTP confirms the email of a pending registration
func (s *authService) VerifyOTP(ctx context.Context, req *models.VerifyOTPRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return err
	}

	if user.OTPVerified {
		return apperrors.Conflict("email already verified")
	}

	if user.OTP == "" || user.OTPExpiresAt == nil || s.now().After(*user.OTPExpiresAt) {
		return apperrors.Validation("otp expired, register again to get a new one")
	}

	if subtle.ConstantTimeCompare([]byte(user.OTP), []byte(req.OTP)) != 1 {
		return apperrors.Validation("invalid otp")
	}

	return s.userRepo.MarkVerified(ctx, user.ID)
}

// Login authenticates a verified user and issues a token pair
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid credentials")
	}

	if !user.OTPVerified {
		return nil, apperrors.Forbidden("email is not verified")
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

// Refresh rotates a refresh token and issues a new token pair
//
// The stored-token lookup and the signature check do not depend on each other,
// so they run in parallel.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.LoginResponse, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	errorChan := make(chan error, 2)
	userTokenChan := make(chan *models.UserToken, 1)

	go func() {
		userToken, err := s.userTokenRepo.GetByToken(ctx, refreshToken)
		if err != nil {
			userTokenChan <- nil
			errorChan <- err
			return
		}
		userTokenChan <- userToken
		errorChan <- nil
	}()

	go func() {
		if err := s.tokenGenerator.ValidateRefreshToken(refreshToken); err != nil {
			errorChan <- apperrors.WrapCause(apperrors.ErrUnauthorized, "invalid or expired refresh token", err)
			return
		}
		errorChan <- nil
	}()

	var firstErr error
	for range 2 {
		if err := <-errorChan; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	userToken := <-userTokenChan

	if firstErr != nil {
		if userToken != nil {
			// Expired or tampered tokens are never useful again
			if err := s.userTokenRepo.DeleteByToken(ctx, refreshToken); err != nil {
				s.logger.Warn("failed to delete invalid refresh token", zap.Error(err))
			}
		}
		return nil, firstErr
	}

	user, err := s.userRepo.GetByID(ctx, userToken.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, newRefreshToken, err := s.tokenGenerator.GenerateTokens(user.ID, int(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	rotated := &models.UserToken{
		UserID:    user.ID,
		Token:     newRefreshToken,
		ExpiresAt: s.now().Add(s.tokenGenerator.RefreshTokenExpiry()),
	}
	if err := s.userTokenRepo.Rotate(ctx, refreshToken, rotated); err != nil {
		return nil, err
	}

	return &models.LoginResponse{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Logout revokes a refresh token
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.userTokenRepo.DeleteByToken(ctx, strings.TrimSpace(refreshToken))
}

// ForgotPassword emails a single-use password reset link.
// Only the SHA-256 hash of the token is stored.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	token, err := randomHex(32)
	if err != nil {
		return err
	}

	expiresAt := s.now().Add(s.settings.ResetTokenExpiry)
	if err := s.userRepo.SetPasswordResetToken(ctx, user.ID, hashToken(token), &expiresAt); err != nil {
		return err
	}

	link := s.settings.ResetPasswordURL + "?reset-token=" + token
	message, err := notification.PasswordResetEmail(user.Email, user.FirstName, link, s.settings.ResetTokenExpiry.String())
	if err != nil {
		return err
	}

	if err := s.mailer.SendEmail(ctx, message.To, message.Subject, message.Body); err != nil {
		s.logger.Error("failed to send password reset email", zap.Int("user_id", user.ID), zap.Error(err))
		if clearErr := s.userRepo.SetPasswordResetToken(ctx, user.ID, "", nil); clearErr != nil {
			s.logger.Warn("failed to clear unsent reset token", zap.Int("user_id", user.ID), zap.Error(clearErr))
		}
		return apperrors.WrapCause(apperrors.ErrExternalService, "failed to send password reset email", err)
	}

	return nil
}

// ResetPassword sets a new password using a reset token and revokes every session of the user
func (s *authService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	user, err := s.userRepo.GetByPasswordResetToken(ctx, hashToken(strings.ToLower(req.Token)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Validation("invalid or expired reset token")
		}
		return err
	}

	if user.PasswordResetExpiresAt == nil || s.now().After(*user.PasswordResetExpiresAt) {
		return apperrors.Validation("invalid or expired reset token")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(passwordHash)); err != nil {
		return err
	}

	if err := s.userTokenRepo.DeleteByUserID(ctx, user.ID); err != nil {
		s.logger.Warn("failed to revoke refresh tokens after password reset", zap.Int("user_id", user.ID), zap.Error(err))
	}

	return nil
}

// issueTokens generates a token pair and stores the refresh token
func (s *authService) issueTokens(ctx context.Context, user *models.User) (string, string, error) {
	accessToken, refreshToken, err := s.tokenGenerator.GenerateTokens(user.ID, int(user.Role))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	userToken := &models.UserToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: s.now().Add(s.tokenGenerator.RefreshTokenExpiry()),
	}
	if err := s.userTokenRepo.Create(ctx, userToken); err != nil {
		return "", "", fmt.Errorf("failed to save refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateOTP returns a uniformly random 6-digit code
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func randomHex(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
