package models

import "time"

// ProgressStatus is the completion status of an enrollment
type ProgressStatus string

// Status only moves forward: All -> Pending -> Completed
const (
	ProgressStatusAll       ProgressStatus = "All"
	ProgressStatusPending   ProgressStatus = "Pending"
	ProgressStatusCompleted ProgressStatus = "Completed"
)

// CourseProgress tracks which subtopics of a course a user has completed
type CourseProgress struct {
	ID                 int            `json:"id"`
	UserID             int            `json:"userId"`
	CourseID           int            `json:"courseId"`
	CompletedSubTopics []int          `json:"completedSubTopics"`
	ProgressPercentage int            `json:"progressPercentage"`
	Status             ProgressStatus `json:"status"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// HasCompleted reports whether subTopicID is already marked complete
func (p *CourseProgress) HasCompleted(subTopicID int) bool {
	for _, id := range p.CompletedSubTopics {
		if id == subTopicID {
			return true
		}
	}
	return false
}

// EnrolledCourse is a course the user owns together with their progress
type EnrolledCourse struct {
	CourseID           int            `json:"courseId"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	Image              string         `json:"image"`
	TotalDuration      string         `json:"totalDuration"`
	ProgressPercentage int            `json:"progressPercentage"`
	Status             ProgressStatus `json:"status"`
	EnrolledAt         time.Time      `json:"enrolledAt"`
}

// EnrolledCourseDetail is the full content of an enrolled course with progress
type EnrolledCourseDetail struct {
	Course   *Course         `json:"course"`
	Progress *CourseProgress `json:"progress"`
}

// UpdateProgressRequest marks a subtopic as complete
type UpdateProgressRequest struct {
	CourseID   int `json:"courseId" validate:"required,gt=0"`
	SubTopicID int `json:"subTopicId" validate:"required,gt=0"`
}
