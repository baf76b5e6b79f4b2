package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegisterPatientRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required,min=2"`
	LastName  string `json:"last_name" validate:"required,min=2"`
	Phone     string `json:"phone" validate:"omitempty,min=7,max=20"`
}

type RegisterTherapistRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
	FirstName        string `json:"first_name" validate:"required,min=2"`
	LastName         string `json:"last_name" validate:"required,min=2"`
	Phone            string `json:"phone" validate:"omitempty,min=7,max=20"`
	Specialization   string `json:"specialization" validate:"required"`
	Qualification    string `json:"qualification" validate:"omitempty"`
	CORURegistration string `json:"coru_registration" validate:"omitempty"`
	YearsExperience  int    `json:"years_experience" validate:"omitempty,min=0"`
	HourlyRate       string `json:"hourly_rate" validate:"required"`
	Bio              string `json:"bio" validate:"omitempty"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID               uuid.UUID          `json:"id"`
	Email            string             `json:"email"`
	FirstName        string             `json:"first_name"`
	LastName         string             `json:"last_name"`
	Phone            string             `json:"phone,omitempty"`
	Role             string             `json:"role"`
	TherapistProfile *TherapistResponse `json:"therapist_profile,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}
