package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CourseType is the lifecycle state of a course
type CourseType string

const (
	CourseTypePublic CourseType = "Public"
	CourseTypeDraft  CourseType = "Draft"
)

// StringList is an ordered list of strings stored as a JSON array column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("failed to encode string list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for string list", src)
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to decode string list: %w", err)
	}
	*l = items
	return nil
}

// Category groups courses
type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CourseCreator is the public view of a course owner
type CourseCreator struct {
	ID           int    `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	About        string `json:"about,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Course represents a course in the catalog.
// TotalDuration is derived from the topics and cached on write.
type Course struct {
	ID            int             `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	CategoryID    int             `json:"categoryId"`
	Tags          StringList      `json:"tags"`
	Image         string          `json:"image"`
	Benefits      string          `json:"benefits"`
	Requirements  StringList      `json:"requirements"`
	CourseType    CourseType      `json:"coursetype"`
	AverageRating float64         `json:"averageRating"`
	TotalDuration string          `json:"totalDuration"`
	CreatedBy     int             `json:"createdBy"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Creator       *CourseCreator  `json:"creator,omitempty"`
	Topics        []Topic         `json:"topics,omitempty"`
}

// Topic is a section of a course
type Topic struct {
	ID            int        `json:"id"`
	CourseID      int        `json:"courseId"`
	Name          string     `json:"name"`
	Position      int        `json:"position"`
	TopicDuration string     `json:"topicDuration"`
	SubTopics     []SubTopic `json:"subTopics"`
}

// SubTopic is a single video lesson inside a topic
type SubTopic struct {
	ID                int    `json:"id"`
	TopicID           int    `json:"topicId"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	VideoURL          string `json:"videoUrl"`
	VideoPlaybackTime string `json:"videoPlaybackTime"`
	Position          int    `json:"position"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Title        string          `json:"title" validate:"required,max=200"`
	Description  string          `json:"description" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   int             `json:"categoryId" validate:"required,gt=0"`
	Tags         []string        `json:"tags" validate:"dive,max=50"`
	Image        string          `json:"image" validate:"omitempty,url"`
	Benefits     string          `json:"benefits"`
	Requirements []string        `json:"requirements"`
	CourseType   CourseType      `json:"coursetype" validate:"omitempty,oneof=Public Draft"`
}

// SubTopicInput describes a subtopic in a content replacement
type SubTopicInput struct {
	Title             string `json:"title" validate:"required,max=200"`
	Description       string `json:"description"`
	VideoURL          string `json:"videoUrl" validate:"required,url"`
	VideoPlaybackTime string `json:"videoPlaybackTime" validate:"required,playbacktime"`
}

// TopicInput describes a topic in a content replacement
type TopicInput struct {
	Name      string          `json:"name" validate:"required,max=200"`
	SubTopics []SubTopicInput `json:"subTopics" validate:"dive"`
}

// UpdateCourseRequest represents a partial course update.
// When Topics is non-nil the whole course content is replaced.
type UpdateCourseRequest struct {
	Title        *string          `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	CategoryID   *int             `json:"categoryId,omitempty" validate:"omitempty,gt=0"`
	Tags         []string         `json:"tags,omitempty" validate:"omitempty,dive,max=50"`
	Image        *string          `json:"image,omitempty" validate:"omitempty,url"`
	Benefits     *string          `json:"benefits,omitempty"`
	Requirements []string         `json:"requirements,omitempty"`
	CourseType   *CourseType      `json:"coursetype,omitempty" validate:"omitempty,oneof=Public Draft"`
	Topics       []TopicInput     `json:"topics,omitempty" validate:"omitempty,dive"`
}

// CreateTopicRequest represents a request to add a topic to a course
type CreateTopicRequest struct {
	CourseID int    `json:"courseId" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,max=200"`
}

// CreateSubTopicRequest represents a request to add a subtopic to a topic
type CreateSubTopicRequest struct {
	TopicID           int    `json:"topicId" validate:"required,gt=0"`
	Title             string `json:"title" validate:"required,max=200"`
	Description       string `json:"description"`
	VideoURL          string `json:"videoUrl" validate:"required,url"`
	VideoPlaybackTime string `json:"videoPlaybackTime" validate:"required,playbacktime"`
}

// ContactMessage is a message sent through the public contact form
type ContactMessage struct {
	ID          int       `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateContactRequest represents a contact form submission
type CreateContactRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=50"`
	LastName    string `json:"lastName" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=20"`
	Message     string `json:"message" validate:"required,max=5000"`
}
