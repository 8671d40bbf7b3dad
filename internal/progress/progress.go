// Package progress derives completion percentage and status of a course enrollment
package progress

import (
	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
)

// ErrDegenerateCourse is returned when a course has no subtopics to complete
var ErrDegenerateCourse = apperrors.Wrap(apperrors.ErrIntegrity, "course has no subtopics")

// Percentage returns round-half-up of 100*completed/total, capped at 100.
// Completed subtopics that were later removed from the course can make completed exceed total.
func Percentage(completed, total int) (int, error) {
	if total <= 0 {
		return 0, ErrDegenerateCourse
	}
	if completed <= 0 {
		return 0, nil
	}

	pct := (200*completed + total) / (2 * total)
	if pct > 100 {
		pct = 100
	}
	return pct, nil
}

// NextStatus derives the status for a percentage. Status never moves backwards,
// so a completed enrollment stays completed even if the course grows.
func NextStatus(current models.ProgressStatus, percentage int) models.ProgressStatus {
	if current == "" {
		current = models.ProgressStatusAll
	}

	switch {
	case current == models.ProgressStatusCompleted:
		return current
	case percentage >= 100:
		return models.ProgressStatusCompleted
	case percentage > 0:
		return models.ProgressStatusPending
	default:
		return current
	}
}

// Apply updates percentage and status of p from its completed set and the course's
// current subtopic count. On ErrDegenerateCourse p is left unchanged.
func Apply(p *models.CourseProgress, totalSubTopics int) error {
	pct, err := Percentage(len(p.CompletedSubTopics), totalSubTopics)
	if err != nil {
		return err
	}

	p.ProgressPercentage = pct
	p.Status = NextStatus(p.Status, pct)
	return nil
}
