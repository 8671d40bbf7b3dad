package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a course a user intends to buy
type CartItem struct {
	ID        int            `json:"id"`
	UserID    int            `json:"userId"`
	CourseID  int            `json:"courseId"`
	CreatedAt time.Time      `json:"createdAt"`
	Course    *CourseSummary `json:"course,omitempty"`
}

// CourseSummary is the subset of course fields shown in carts and listings
type CourseSummary struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Creator     *CourseCreator  `json:"creator,omitempty"`
}

// CartCourseRequest identifies a course in cart operations
type CartCourseRequest struct {
	CourseID int `json:"courseId" validate:"required,gt=0"`
}
