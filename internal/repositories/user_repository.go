package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"go.uber.org/zap"
)

const userColumns = `id, first_name, last_name, email, password_hash, mobile_number, gender, role,
	otp_verified, otp, otp_expires_at, password_reset_token, password_reset_expires_at,
	profile_image, display_name, profession, about, date_of_birth, created_at, updated_at`

// userRepository implements UserRepository
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.MobileNumber,
		&user.Gender,
		&user.Role,
		&user.OTPVerified,
		&user.OTP,
		&user.OTPExpiresAt,
		&user.PasswordResetToken,
		&user.PasswordResetExpiresAt,
		&user.ProfileImage,
		&user.DisplayName,
		&user.Profession,
		&user.About,
		&user.DateOfBirth,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, mobile_number, gender, role,
			otp_verified, otp, otp_expires_at, profile_image, about)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, '')
	`

	result, err := r.db.ExecContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.MobileNumber,
		user.Gender,
		user.Role,
		user.OTPVerified,
		user.OTP,
		user.OTPExpiresAt,
		user.ProfileImage,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperrors.Conflict("email or mobile number already registered")
		}
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` LIMIT 1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		r.logger.Error("failed to get user", zap.Error(err), zap.String("where", where))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByEmail retrieves a user by email (case-insensitive)
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email = ?", strings.ToLower(email))
}

// GetByPasswordResetToken retrieves a user by the hash of their reset token
func (r *userRepository) GetByPasswordResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	return r.getOne(ctx, "password_reset_token = ?", tokenHash)
}

// ExistsByMobileNumber checks whether another user already uses the mobile number
func (r *userRepository) ExistsByMobileNumber(ctx context.Context, mobileNumber string, excludeUserID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE mobile_number = ? AND id <> ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, mobileNumber, excludeUserID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check mobile number existence: %w", err)
	}

	return exists, nil
}

// UpdateOTP stores a new one-time password for a pending registration
func (r *userRepository) UpdateOTP(ctx context.Context, userID int, otp string, expiresAt time.Time) error {
	query := `UPDATE users SET otp = ?, otp_expires_at = ? WHERE id = ?`

	return r.execOne(ctx, "update otp", query, otp, expiresAt, userID)
}

// MarkVerified marks the user's email as verified and clears the OTP
func (r *userRepository) MarkVerified(ctx context.Context, userID int) error {
	query := `UPDATE users SET otp_verified = TRUE, otp = '', otp_expires_at = NULL WHERE id = ?`

	return r.execOne(ctx, "mark user verified", query, userID)
}

// SetPasswordResetToken stores the hash of a reset token, or clears it when tokenHash is empty
func (r *userRepository) SetPasswordResetToken(ctx context.Context, userID int, tokenHash string, expiresAt *time.Time) error {
	query := `UPDATE users SET password_reset_token = ?, password_reset_expires_at = ? WHERE id = ?`

	return r.execOne(ctx, "set password reset token", query, tokenHash, expiresAt, userID)
}

// UpdatePassword sets a new password hash and clears any pending reset token
func (r *userRepository) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = ?, password_reset_token = '', password_reset_expires_at = NULL
		WHERE id = ?
	`

	return r.execOne(ctx, "update password", query, passwordHash, userID)
}

// UpdateProfile applies a partial profile update. Only non-nil fields are written.
func (r *userRepository) UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest, passwordHash string, dateOfBirth *time.Time) error {
	setParts := []string{}
	args := []any{}

	if req.MobileNumber != nil {
		setParts = append(setParts, "mobile_number = ?")
		args = append(args, *req.MobileNumber)
	}
	if req.DisplayName != nil {
		setParts = append(setParts, "display_name = ?")
		args = append(args, *req.DisplayName)
	}
	if req.Profession != nil {
		setParts = append(setParts, "profession = ?")
		args = append(args, *req.Profession)
	}
	if dateOfBirth != nil {
		setParts = append(setParts, "date_of_birth = ?")
		args = append(args, *dateOfBirth)
	}
	if req.About != nil {
		setParts = append(setParts, "about = ?")
		args = append(args, *req.About)
	}
	if req.Gender != nil {
		setParts = append(setParts, "gender = ?")
		args = append(args, *req.Gender)
	}
	if req.ProfileImage != nil {
		setParts = append(setParts, "profile_image = ?")
		args = append(args, *req.ProfileImage)
	}
	if passwordHash != "" {
		setParts = append(setParts, "password_hash = ?")
		args = append(args, passwordHash)
	}

	if len(setParts) == 0 {
		return nil
	}

	query := "UPDATE users SET " + strings.Join(setParts, ", ") + " WHERE id = ?"
	args = append(args, userID)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateEntry(err) {
			return apperrors.Conflict("mobile number already in use")
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

// ClearExpiredSecrets wipes OTPs and reset tokens whose expiry has passed
func (r *userRepository) ClearExpiredSecrets(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE users
		SET otp = IF(otp_expires_at < ?, '', otp),
			otp_expires_at = IF(otp_expires_at < ?, NULL, otp_expires_at),
			password_reset_token = IF(password_reset_expires_at < ?, '', password_reset_token),
			password_reset_expires_at = IF(password_reset_expires_at < ?, NULL, password_reset_expires_at)
		WHERE otp_expires_at < ? OR password_reset_expires_at < ?
	`

	result, err := r.db.ExecContext(ctx, query, now, now, now, now, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired secrets: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// execOne runs an UPDATE expected to touch exactly one user row
func (r *userRepository) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to "+op, zap.Error(err))
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	// MySQL reports 0 affected rows when the values are unchanged, so only
	// treat it as missing when the user really does not exist
	if rowsAffected == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, args[len(args)-1]).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check user existence: %w", err)
		}
		if !exists {
			return apperrors.NotFound("user not found")
		}
	}

	return nil
}
