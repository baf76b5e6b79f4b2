package dto

import "time"

// Request DTOs

type CreateTemplateRequest struct {
	DayOfWeek *int   `json:"day_of_week" validate:"required,min=0,max=6"` // 0 = Monday
	StartTime string `json:"start_time" validate:"required,hhmm"`         // Format: HH:MM
	EndTime   string `json:"end_time" validate:"required,hhmm"`           // Format: HH:MM
	ClinicID  int    `json:"clinic_id" validate:"required,min=1"`
}

type CreateOverrideRequest struct {
	Date        string `json:"date" validate:"required"`       // Format: YYYY-MM-DD
	StartTime   string `json:"start_time" validate:"required,hhmm"` // Format: HH:MM
	EndTime     string `json:"end_time" validate:"required,hhmm"`   // Format: HH:MM
	ClinicID    int    `json:"clinic_id" validate:"required,min=1"`
	IsAvailable *bool  `json:"is_available" validate:"required"`
	Reason      string `json:"reason" validate:"omitempty,max=255"`
}

// Response DTOs

type TemplateResponse struct {
	ID        int       `json:"id"`
	DayOfWeek int       `json:"day_of_week"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	ClinicID  int       `json:"clinic_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OverrideResponse struct {
	ID          int       `json:"id"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	ClinicID    int       `json:"clinic_id"`
	IsAvailable bool      `json:"is_available"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AvailabilityResponse struct {
	Templates []TemplateResponse `json:"templates"`
	Overrides []OverrideResponse `json:"overrides"`
}

type SlotListResponse struct {
	PhysiotherapistID string   `json:"physiotherapist_id"`
	Date              string   `json:"date"`
	Slots             []string `json:"slots"` // "HH:MM", ascending
	Total             int      `json:"total"`
}
