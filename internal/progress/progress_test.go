package progress

import (
	"testing"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		expected  int
	}{
		{"none completed", 0, 3, 0},
		{"one of three", 1, 3, 33},
		{"two of three", 2, 3, 67},
		{"all completed", 3, 3, 100},
		{"half rounds up", 1, 8, 13},
		{"just below half rounds down", 1, 6, 17},
		{"one of two hundred", 1, 200, 1},
		{"one of three hundred", 1, 300, 0},
		{"completed exceeds total", 5, 4, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct, err := Percentage(tt.completed, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pct)
		})
	}
}

func TestPercentage_ZeroTotal(t *testing.T) {
	pct, err := Percentage(1, 0)

	assert.Equal(t, 0, pct)
	assert.ErrorIs(t, err, ErrDegenerateCourse)
	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name       string
		current    models.ProgressStatus
		percentage int
		expected   models.ProgressStatus
	}{
		{"empty defaults to all", "", 0, models.ProgressStatusAll},
		{"all stays all at zero", models.ProgressStatusAll, 0, models.ProgressStatusAll},
		{"all to pending", models.ProgressStatusAll, 33, models.ProgressStatusPending},
		{"all to completed", models.ProgressStatusAll, 100, models.ProgressStatusCompleted},
		{"pending to completed", models.ProgressStatusPending, 100, models.ProgressStatusCompleted},
		{"pending stays pending at zero", models.ProgressStatusPending, 0, models.ProgressStatusPending},
		{"completed never regresses", models.ProgressStatusCompleted, 80, models.ProgressStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextStatus(tt.current, tt.percentage))
		})
	}
}

func TestApply(t *testing.T) {
	t.Run("one of three", func(t *testing.T) {
		p := &models.CourseProgress{CompletedSubTopics: []int{10}, Status: models.ProgressStatusAll}

		require.NoError(t, Apply(p, 3))
		assert.Equal(t, 33, p.ProgressPercentage)
		assert.Equal(t, models.ProgressStatusPending, p.Status)
	})

	t.Run("completed course that later grows keeps status", func(t *testing.T) {
		p := &models.CourseProgress{CompletedSubTopics: []int{1, 2}, Status: models.ProgressStatusAll}
		require.NoError(t, Apply(p, 2))
		assert.Equal(t, models.ProgressStatusCompleted, p.Status)

		require.NoError(t, Apply(p, 3))
		assert.Equal(t, 67, p.ProgressPercentage)
		assert.Equal(t, models.ProgressStatusCompleted, p.Status)
	})

	t.Run("degenerate course leaves progress unchanged", func(t *testing.T) {
		p := &models.CourseProgress{CompletedSubTopics: []int{1}, ProgressPercentage: 50, Status: models.ProgressStatusPending}

		err := Apply(p, 0)
		assert.ErrorIs(t, err, ErrDegenerateCourse)
		assert.Equal(t, 50, p.ProgressPercentage)
		assert.Equal(t, models.ProgressStatusPending, p.Status)
	})
}
