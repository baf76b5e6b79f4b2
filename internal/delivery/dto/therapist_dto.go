package dto

import (
	"time"

	"github.com/google/uuid"
)

// Response DTOs

type TherapistResponse struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Specialization   string    `json:"specialization"`
	Qualification    string    `json:"qualification,omitempty"`
	CORURegistration string    `json:"coru_registration,omitempty"`
	YearsExperience  int       `json:"years_experience"`
	HourlyRate       string    `json:"hourly_rate"`
	Bio              string    `json:"bio,omitempty"`
	IsVerified       bool      `json:"is_verified"`
	IsAvailable      bool      `json:"is_available"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type TherapistListResponse struct {
	Therapists []TherapistResponse `json:"therapists"`
	Total      int                 `json:"total"`
}
