// Package models defines the data structures for the freelance rate engine.
package models

import (
	"time"
)

// UserRole represents a user's role in the system.
type UserRole string

const (
	RoleFreelancer UserRole = "freelancer"
	RoleAdmin      UserRole = "admin"
)

// IsValid checks if the role is valid.
func (r UserRole) IsValid() bool {
	return r == RoleFreelancer || r == RoleAdmin
}

// User represents a user account.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	IsVerified   bool      `json:"is_verified" db:"is_verified"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserProfile holds extended, mostly optional profile information.
type UserProfile struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"user_id" db:"user_id"`

	// Personal
	FirstName *string `json:"first_name,omitempty" db:"first_name"`
	LastName  *string `json:"last_name,omitempty" db:"last_name"`
	Phone     *string `json:"phone,omitempty" db:"phone"`
	Bio       *string `json:"bio,omitempty" db:"bio"`

	// Professional
	Profession      *string `json:"profession,omitempty" db:"profession"`
	ExperienceYears *int    `json:"experience_years,omitempty" db:"experience_years"`
	Skills          *string `json:"skills,omitempty" db:"skills"`
	PortfolioURL    *string `json:"portfolio_url,omitempty" db:"portfolio_url"`
	LinkedinURL     *string `json:"linkedin_url,omitempty" db:"linkedin_url"`

	// Location
	City    *string `json:"city,omitempty" db:"city"`
	Country string  `json:"country" db:"country"`

	// Preferences
	PreferredCurrency    string `json:"preferred_currency" db:"preferred_currency"`
	HourlyRatePreference *int   `json:"hourly_rate_preference,omitempty" db:"hourly_rate_preference"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserCreate is the data needed to register a new account.
type UserCreate struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// ProfileUpdate is a partial patch applied to a user profile.
type ProfileUpdate struct {
	FirstName            *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName             *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Phone                *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Bio                  *string `json:"bio,omitempty"`
	Profession           *string `json:"profession,omitempty" validate:"omitempty,max=100"`
	ExperienceYears      *int    `json:"experience_years,omitempty" validate:"omitempty,gte=0,lte=50"`
	Skills               *string `json:"skills,omitempty"`
	PortfolioURL         *string `json:"portfolio_url,omitempty" validate:"omitempty,url,max=500"`
	LinkedinURL          *string `json:"linkedin_url,omitempty" validate:"omitempty,url,max=500"`
	City                 *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Country              *string `json:"country,omitempty" validate:"omitempty,max=100"`
	HourlyRatePreference *int    `json:"hourly_rate_preference,omitempty" validate:"omitempty,gte=0"`
}
