package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking represents a patient appointment with a physiotherapist.
//
// SlotKey encodes (physiotherapist, date, time) and carries a unique index
// while the booking holds the slot. It is set NULL when the booking is
// cancelled or its payment fails, which frees the slot; the database
// constraint is what makes two concurrent bookings for the same slot
// impossible.
type Booking struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BookingReference  string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"booking_reference"`
	PatientID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	PhysiotherapistID uuid.UUID       `gorm:"type:uuid;not null;index" json:"physiotherapist_id"`
	ClinicID          int             `gorm:"not null" json:"clinic_id"`
	AppointmentDate   time.Time       `gorm:"type:date;not null;index" json:"appointment_date"`
	AppointmentTime   string          `gorm:"type:varchar(5);not null" json:"appointment_time"`
	DurationMinutes   int             `gorm:"not null;default:60" json:"duration_minutes"`
	StatusID          int             `gorm:"not null;index" json:"status_id"`
	TreatmentTypeID   *int            `gorm:"index" json:"treatment_type_id,omitempty"`
	TotalAmount       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	PatientNotes      string          `gorm:"type:text" json:"patient_notes,omitempty"`
	TherapistNotes    string          `gorm:"type:text" json:"therapist_notes,omitempty"`
	SlotKey           *string         `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient         User                   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Physiotherapist PhysiotherapistProfile `gorm:"foreignKey:PhysiotherapistID" json:"physiotherapist,omitempty"`
	Clinic          Clinic                 `gorm:"foreignKey:ClinicID" json:"clinic,omitempty"`
	Status          BookingStatus          `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	TreatmentType   *TreatmentType         `gorm:"foreignKey:TreatmentTypeID" json:"treatment_type,omitempty"`
	Payments        []Payment              `gorm:"foreignKey:BookingID" json:"payments,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// BuildSlotKey builds the unique slot identity for an active booking.
func BuildSlotKey(physiotherapistID uuid.UUID, date time.Time, appointmentTime string) string {
	return fmt.Sprintf("%s|%s|%s", physiotherapistID, date.Format("2006-01-02"), appointmentTime)
}

// HoldsSlot reports whether the booking currently consumes its time slot.
func (b *Booking) HoldsSlot() bool {
	return b.Status.Name == BookingStatusPending || b.Status.Name == BookingStatusConfirmed
}

// HasCompletedPayment reports whether any payment attempt on the booking succeeded.
func (b *Booking) HasCompletedPayment() bool {
	for _, p := range b.Payments {
		if p.Status == PaymentStatusCompleted {
			return true
		}
	}
	return false
}

// EffectivePaymentStatus resolves the booking-level payment state:
// paid if any payment completed, else the latest attempt's status,
// else unpaid when no attempts exist.
func (b *Booking) EffectivePaymentStatus() string {
	if len(b.Payments) == 0 {
		return "unpaid"
	}
	if b.HasCompletedPayment() {
		return "paid"
	}
	return b.Payments[len(b.Payments)-1].Status
}
