package models

import "time"

// Rating is a user's review of a course
type Rating struct {
	ID          int           `json:"id"`
	UserID      int           `json:"userId"`
	CourseID    int           `json:"courseId"`
	Rating      float64       `json:"rating"`
	Review      string        `json:"review"`
	CreatedAt   time.Time     `json:"createdAt"`
	User        *RatingAuthor `json:"user,omitempty"`
	CourseTitle string        `json:"courseTitle,omitempty"`
}

// RatingAuthor is the public view of the user who wrote a rating
type RatingAuthor struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ProfileImage string `json:"profileImage"`
}

// AddRatingRequest represents a request to rate a course
type AddRatingRequest struct {
	CourseID int     `json:"courseId" validate:"required,gt=0"`
	Rating   float64 `json:"rating" validate:"gte=1,lte=5"`
	Review   string  `json:"review" validate:"required,max=2000"`
}

// AddRatingResponse is returned after a rating is stored
type AddRatingResponse struct {
	Rating        *Rating `json:"rating"`
	AverageRating float64 `json:"averageRating"`
}
