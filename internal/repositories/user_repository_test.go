package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUserTestRepository creates a user repository over a mock database
func setupUserTestRepository(t *testing.T) (*userRepository, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewUserRepository(db, nopLogger), mock
}

var userRowColumns = []string{
	"id", "first_name", "last_name", "email", "password_hash", "mobile_number", "gender", "role",
	"otp_verified", "otp", "otp_expires_at", "password_reset_token", "password_reset_expires_at",
	"profile_image", "display_name", "profession", "about", "date_of_birth", "created_at", "updated_at",
}

func userRow(id int, email string, role models.Role) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userRowColumns).AddRow(
		id, "Ada", "Lovelace", email, "hash", "5551234", "Female", int(role),
		true, "", nil, "", nil,
		models.DefaultProfileImage, "", "", "", nil, now, now,
	)
}

func TestUserRepository_Create(t *testing.T) {
	expires := time.Now().Add(5 * time.Minute)

	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedErr   error
		expectedError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("Ada", "Lovelace", "ada@example.com", "hash", "5551234", models.GenderFemale,
						models.RoleInstructor, false, "123456", sqlmock.AnyArg(), models.DefaultProfileImage).
					WillReturnResult(sqlmock.NewResult(42, 1))
			},
		},
		{
			name: "duplicate email",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WillReturnError(duplicateEntryError())
			},
			expectedError: true,
			expectedErr:   apperrors.ErrConflict,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WillReturnError(errors.New("connection refused"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupUserTestRepository(t)
			tt.setupMock(mock)

			user := &models.User{
				FirstName:    "Ada",
				LastName:     "Lovelace",
				Email:        "ada@example.com",
				PasswordHash: "hash",
				MobileNumber: "5551234",
				Gender:       models.GenderFemale,
				Role:         models.RoleInstructor,
				OTP:          "123456",
				OTPExpiresAt: &expires,
				ProfileImage: models.DefaultProfileImage,
			}
			err := repo.Create(context.Background(), user)

			if tt.expectedError {
				require.Error(t, err)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, 42, user.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedErr   error
		expectedError bool
	}{
		{
			name: "lowercases the lookup",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \? LIMIT 1`).
					WithArgs("ada@example.com").
					WillReturnRows(userRow(1, "ada@example.com", models.RoleStudent))
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users WHERE email = \?`).
					WithArgs("ada@example.com").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: true,
			expectedErr:   apperrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupUserTestRepository(t)
			tt.setupMock(mock)

			user, err := repo.GetByEmail(context.Background(), "Ada@Example.com")

			if tt.expectedError {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 1, user.ID)
				assert.Equal(t, models.RoleStudent, user.Role)
				assert.True(t, user.OTPVerified)
				assert.Nil(t, user.OTPExpiresAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_MarkVerified(t *testing.T) {
	t.Run("unchanged row still succeeds when user exists", func(t *testing.T) {
		repo, mock := setupUserTestRepository(t)

		mock.ExpectExec(`UPDATE users SET otp_verified = TRUE`).
			WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE id = \?\)`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		assert.NoError(t, repo.MarkVerified(context.Background(), 1))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		repo, mock := setupUserTestRepository(t)

		mock.ExpectExec(`UPDATE users SET otp_verified = TRUE`).
			WithArgs(9).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(9).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := repo.MarkVerified(context.Background(), 9)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	displayName := "ada"
	about := "mathematician"
	dob := time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC)

	t.Run("writes only provided fields", func(t *testing.T) {
		repo, mock := setupUserTestRepository(t)

		mock.ExpectExec(`UPDATE users SET display_name = \?, date_of_birth = \?, about = \?, password_hash = \? WHERE id = \?`).
			WithArgs(displayName, dob, about, "newhash", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		req := &models.UpdateProfileRequest{DisplayName: &displayName, About: &about}
		require.NoError(t, repo.UpdateProfile(context.Background(), 1, req, "newhash", &dob))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to update", func(t *testing.T) {
		repo, mock := setupUserTestRepository(t)

		require.NoError(t, repo.UpdateProfile(context.Background(), 1, &models.UpdateProfileRequest{}, "", nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mobile number taken", func(t *testing.T) {
		repo, mock := setupUserTestRepository(t)
		mobile := "5550000"

		mock.ExpectExec(`UPDATE users SET mobile_number = \? WHERE id = \?`).
			WithArgs(mobile, 1).
			WillReturnError(duplicateEntryError())

		err := repo.UpdateProfile(context.Background(), 1, &models.UpdateProfileRequest{MobileNumber: &mobile}, "", nil)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserTokenRepository_Rotate(t *testing.T) {
	expires := time.Now().Add(time.Hour)

	t.Run("rotates stored token", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserTokenRepository(db)

		mock.ExpectExec(`UPDATE user_tokens SET token = \?, expires_at = \? WHERE token = \? AND user_id = \?`).
			WithArgs("new", expires, "old", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Rotate(context.Background(), "old", &models.UserToken{UserID: 1, Token: "new", ExpiresAt: expires})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown token is unauthorized", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserTokenRepository(db)

		mock.ExpectExec(`UPDATE user_tokens`).
			WithArgs("new", expires, "old", 1).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Rotate(context.Background(), "old", &models.UserToken{UserID: 1, Token: "new", ExpiresAt: expires})
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserTokenRepository_DeleteExpired(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserTokenRepository(db)
	now := time.Now()

	mock.ExpectExec(`DELETE FROM user_tokens WHERE expires_at <= \?`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
