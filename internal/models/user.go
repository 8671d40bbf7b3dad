package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role is the authorization role of a user
type Role int

// Role constants
const (
	RoleStudent    Role = 1
	RoleInstructor Role = 2
	RoleAdmin      Role = 3
)

var roleNames = map[Role]string{
	RoleStudent:    "Student",
	RoleInstructor: "Instructor",
	RoleAdmin:      "Admin",
}

// String returns the role name
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// MarshalJSON encodes the role by name. Unknown roles are rejected so that
// every encoded role decodes again.
func (r Role) MarshalJSON() ([]byte, error) {
	name, ok := roleNames[r]
	if !ok {
		return nil, fmt.Errorf("unknown role %d", int(r))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes a role name
func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("role must be a string: %w", err)
	}
	role, ok := ParseRole(name)
	if !ok {
		return fmt.Errorf("unknown role %q", name)
	}
	*r = role
	return nil
}

// ParseRole converts a role name to a Role
func ParseRole(name string) (Role, bool) {
	for role, n := range roleNames {
		if n == name {
			return role, true
		}
	}
	return 0, false
}

// Gender of a user
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// DefaultProfileImage is assigned to new users
const DefaultProfileImage = "https://www.gravatar.com/avatar/?d=mp"

// User represents a user in the system
type User struct {
	ID                     int        `json:"id"`
	FirstName              string     `json:"firstName"`
	LastName               string     `json:"lastName"`
	Email                  string     `json:"email"`
	PasswordHash           string     `json:"-"`
	MobileNumber           string     `json:"mobileNumber"`
	Gender                 Gender     `json:"gender,omitempty"`
	Role                   Role       `json:"role"`
	OTPVerified            bool       `json:"otpVerified"`
	OTP                    string     `json:"-"`
	OTPExpiresAt           *time.Time `json:"-"`
	PasswordResetToken     string     `json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`
	ProfileImage           string     `json:"profileImage"`
	DisplayName            string     `json:"displayName,omitempty"`
	Profession             string     `json:"profession,omitempty"`
	About                  string     `json:"about,omitempty"`
	DateOfBirth            *time.Time `json:"dateOfBirth,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// FullName returns "First Last"
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// ProfileResponse is the public view of the current user
type ProfileResponse struct {
	*User
	CreatedCourses  []int `json:"createdCourses"`
	EnrolledCourses []int `json:"enrolledCourses"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	FirstName    string `json:"firstName" validate:"required,max=50"`
	LastName     string `json:"lastName" validate:"required,max=50"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Password     string `json:"password" validate:"required,min=6,max=72"`
	MobileNumber string `json:"mobileNumber" validate:"required,numeric,min=7,max=15"`
	Gender       Gender `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Role         string `json:"role" validate:"omitempty,oneof=Student Instructor"`
}

// VerifyOTPRequest represents an OTP verification request
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued tokens
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user,omitempty"`
}

// RefreshRequest represents a token refresh or logout request
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ForgotPasswordRequest represents a password reset link request
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents a password reset
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required,len=64,hexadecimal"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	MobileNumber *string `json:"mobileNumber,omitempty" validate:"omitempty,numeric,min=7,max=15"`
	DisplayName  *string `json:"displayName,omitempty" validate:"omitempty,max=100"`
	Profession   *string `json:"profession,omitempty" validate:"omitempty,max=100"`
	DateOfBirth  *string `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	About        *string `json:"about,omitempty" validate:"omitempty,max=1000"`
	Gender       *Gender `json:"gender,omitempty" validate:"omitempty,oneof=Male Female Other"`
	ProfileImage *string `json:"profileImage,omitempty" validate:"omitempty,url"`
	Password     *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}

// UserToken represents a stored refresh token
type UserToken struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
