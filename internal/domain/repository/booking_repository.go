package repository

import (
	"time"

	"physio-marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	// Create inserts the booking row. The caller sets SlotKey; the unique
	// index on it is what rejects a concurrent booking for the same slot.
	Create(db *gorm.DB, booking *entity.Booking) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	ReferenceExists(db *gorm.DB, reference string) (bool, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Booking, error)
	FindByPhysiotherapistID(db *gorm.DB, physiotherapistID uuid.UUID) ([]entity.Booking, error)
	// FindSlotHoldingTimes returns the appointment times (24-hour "HH:MM") of
	// pending/confirmed bookings for the therapist on the given date.
	FindSlotHoldingTimes(db *gorm.DB, physiotherapistID uuid.UUID, date time.Time) ([]string, error)
	// UpdateStatusGuarded transitions the booking only when its current
	// status is one of fromStatusIDs; clearSlotKey additionally NULLs the
	// slot key so the time becomes bookable again. Returns affected rows:
	// 0 means another writer won the race or the booking was ineligible.
	UpdateStatusGuarded(db *gorm.DB, id uuid.UUID, fromStatusIDs []int, toStatusID int, clearSlotKey bool) (int64, error)
	CountActiveByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID, activeStatusIDs []int) (int64, error)
	DeleteTerminalByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID, terminalStatusIDs []int) error
}
