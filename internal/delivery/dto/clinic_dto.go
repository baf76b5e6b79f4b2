package dto

import "time"

// Request DTOs

type CreateClinicRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=255"`
	AddressLine1 string `json:"address_line1" validate:"required,max=255"`
	AddressLine2 string `json:"address_line2" validate:"omitempty,max=255"`
	City         string `json:"city" validate:"required,max=100"`
	Eircode      string `json:"eircode" validate:"omitempty,max=10"`
}

// Response DTOs

type ClinicResponse struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	AddressLine1 string    `json:"address_line1"`
	AddressLine2 string    `json:"address_line2,omitempty"`
	City         string    `json:"city"`
	Eircode      string    `json:"eircode,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ClinicListResponse struct {
	Clinics []ClinicResponse `json:"clinics"`
	Total   int              `json:"total"`
}
