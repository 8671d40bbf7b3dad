package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedErr   error
		expectedError bool
		expectedID    int
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO cart_items`).
					WithArgs(1, 10).
					WillReturnResult(sqlmock.NewResult(5, 1))
			},
			expectedID: 5,
		},
		{
			name: "duplicate pair is a conflict",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO cart_items`).
					WithArgs(1, 10).
					WillReturnError(duplicateEntryError())
			},
			expectedError: true,
			expectedErr:   apperrors.ErrConflict,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO cart_items`).
					WithArgs(1, 10).
					WillReturnError(errors.New("connection lost"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewCartRepository(db)
			tt.setupMock(mock)

			item := &models.CartItem{UserID: 1, CourseID: 10}
			err := repo.Create(context.Background(), item)

			if tt.expectedError {
				require.Error(t, err)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, item.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCartRepository_Exists(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCartRepository(db)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM cart_items WHERE user_id = \? AND course_id = \?\)`).
		WithArgs(1, 10).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_GetByUserID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCartRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "course_id", "created_at", "title", "description", "price", "image",
		"creator_id", "first_name", "last_name",
	}).
		AddRow(1, 7, 10, now, "Go Basics", "Learn Go", "499.00", "img.png", 3, "Ada", "Lovelace").
		AddRow(2, 7, 11, now, "SQL", "Learn SQL", "99.50", "", 4, "Alan", "Turing")

	mock.ExpectQuery(`SELECT (.+) FROM cart_items ci INNER JOIN courses c`).
		WithArgs(7).
		WillReturnRows(rows)

	items, err := repo.GetByUserID(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 10, items[0].Course.ID)
	assert.True(t, decimal.RequireFromString("499").Equal(items[0].Course.Price))
	assert.Equal(t, "Ada", items[0].Course.Creator.FirstName)
	assert.Equal(t, "Turing", items[1].Course.Creator.LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_Delete(t *testing.T) {
	tests := []struct {
		name        string
		result      driver.Result
		expectedErr error
	}{
		{"removed", sqlmock.NewResult(0, 1), nil},
		{"not in cart", sqlmock.NewResult(0, 0), apperrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewCartRepository(db)

			mock.ExpectExec(`DELETE FROM cart_items WHERE user_id = \? AND course_id = \?`).
				WithArgs(1, 10).
				WillReturnResult(tt.result)

			err := repo.Delete(context.Background(), 1, 10)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
