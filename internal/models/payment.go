package models

// Payment event types handled by the webhook
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
)

// Checkout metadata keys. Values are decimal IDs and must round-trip unchanged.
const (
	MetadataUserID   = "userId"
	MetadataCourseID = "courseId"
)

// CheckoutRequest represents a request to start payment for a course
type CheckoutRequest struct {
	CourseID int `json:"courseId" validate:"required,gt=0"`
}

// CheckoutSession is the hosted checkout returned by the payment provider
type CheckoutSession struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// CheckoutParams describes a checkout session to create
type CheckoutParams struct {
	AmountMinorUnits int64
	Currency         string
	ProductName      string
	SuccessURL       string
	CancelURL        string
	Metadata         map[string]string
}

// PaymentEvent is a verified webhook event
type PaymentEvent struct {
	ID       string
	Type     string
	Metadata map[string]string
}

// EnrollmentResult reports what the webhook did
type EnrollmentResult struct {
	UserID          int  `json:"userId"`
	CourseID        int  `json:"courseId"`
	AlreadyEnrolled bool `json:"alreadyEnrolled"`
	Ignored         bool `json:"ignored,omitempty"`
}
