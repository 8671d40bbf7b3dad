package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingRepository_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewRatingRepository(db)

		mock.ExpectExec(`INSERT INTO ratings`).
			WithArgs(2, 10, 4.5, "great").
			WillReturnResult(sqlmock.NewResult(9, 1))

		rating := &models.Rating{UserID: 2, CourseID: 10, Rating: 4.5, Review: "great"}
		require.NoError(t, repo.Create(context.Background(), rating))
		assert.Equal(t, 9, rating.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate rating is a conflict", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewRatingRepository(db)

		mock.ExpectExec(`INSERT INTO ratings`).
			WithArgs(2, 10, 4.0, "again").
			WillReturnError(duplicateEntryError())

		err := repo.Create(context.Background(), &models.Rating{UserID: 2, CourseID: 10, Rating: 4, Review: "again"})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRatingRepository_GetValuesByCourse(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRatingRepository(db)

	mock.ExpectQuery(`SELECT rating FROM ratings WHERE course_id = \?`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"rating"}).AddRow("4.0").AddRow("5.0").AddRow("3.0"))

	values, err := repo.GetValuesByCourse(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 3}, values)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepository_GetByCourse(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRatingRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM ratings r INNER JOIN users u (.+) WHERE r.course_id = \?`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "course_id", "rating", "review", "created_at",
			"first_name", "last_name", "profile_image", "title",
		}).AddRow(1, 2, 10, 4.5, "nice", now, "Grace", "Hopper", "img", "Go Basics"))

	ratings, err := repo.GetByCourse(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, "Grace", ratings[0].User.FirstName)
	assert.Equal(t, "Go Basics", ratings[0].CourseTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}
