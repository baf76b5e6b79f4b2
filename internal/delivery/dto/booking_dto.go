package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateBookingRequest struct {
	PhysiotherapistID uuid.UUID `json:"physiotherapist_id" validate:"required"`
	ClinicID          int       `json:"clinic_id" validate:"required,min=1"`
	AppointmentDate   string    `json:"appointment_date" validate:"required"` // Format: YYYY-MM-DD
	AppointmentTime   string    `json:"appointment_time" validate:"required"` // "HH:MM" or "hh:MM AM/PM"
	DurationMinutes   int       `json:"duration_minutes" validate:"omitempty,min=15,max=240"`
	TreatmentTypeID   *int      `json:"treatment_type_id" validate:"omitempty,min=1"`
	TotalAmount       string    `json:"total_amount" validate:"omitempty"`
	PatientNotes      string    `json:"patient_notes" validate:"omitempty,max=2000"`
}

// Response DTOs

type BookingResponse struct {
	ID               uuid.UUID `json:"id"`
	BookingReference string    `json:"booking_reference"`
	AppointmentDate  string    `json:"appointment_date"`
	AppointmentTime  string    `json:"appointment_time"`
	DurationMinutes  int       `json:"duration_minutes"`
	Status           string    `json:"status"`
	TotalAmount      string    `json:"total_amount"`
	TreatmentType    string    `json:"treatment_type,omitempty"`
	PatientNotes     string    `json:"patient_notes,omitempty"`
	TherapistNotes   string    `json:"therapist_notes,omitempty"`

	// Denormalized display fields for the caller's convenience.
	PatientName   string `json:"patient_name,omitempty"`
	TherapistName string `json:"therapist_name,omitempty"`
	ClinicName    string `json:"clinic_name,omitempty"`
	ClinicAddress string `json:"clinic_address,omitempty"`
	ClinicCity    string `json:"clinic_city,omitempty"`

	PaymentStatus string            `json:"payment_status"`
	Payments      []PaymentResponse `json:"payments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}
