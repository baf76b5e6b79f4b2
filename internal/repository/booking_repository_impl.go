package repository

import (
	"errors"
	"time"

	"physio-marketplace/internal/domain/entity"
	domainRepo "physio-marketplace/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(db *gorm.DB, booking *entity.Booking) error {
	return db.Create(booking).Error
}

func (r *bookingRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.
		Preload("Patient").
		Preload("Physiotherapist.User").
		Preload("Clinic").
		Preload("Status").
		Preload("TreatmentType").
		Preload("Payments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("payments.created_at ASC")
		}).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ReferenceExists(db *gorm.DB, reference string) (bool, error) {
	var count int64
	err := db.Model(&entity.Booking{}).
		Where("booking_reference = ?", reference).
		Count(&count).Error
	return count > 0, err
}

func (r *bookingRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.
		Preload("Physiotherapist.User").
		Preload("Clinic").
		Preload("Status").
		Preload("TreatmentType").
		Preload("Payments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("payments.created_at ASC")
		}).
		Where("patient_id = ?", patientID).
		Order("appointment_date DESC, appointment_time DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindByPhysiotherapistID(db *gorm.DB, physiotherapistID uuid.UUID) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.
		Preload("Patient").
		Preload("Clinic").
		Preload("Status").
		Preload("TreatmentType").
		Preload("Payments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("payments.created_at ASC")
		}).
		Where("physiotherapist_id = ?", physiotherapistID).
		Order("appointment_date DESC, appointment_time DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindSlotHoldingTimes(db *gorm.DB, physiotherapistID uuid.UUID, date time.Time) ([]string, error) {
	var times []string
	err := db.Model(&entity.Booking{}).
		Joins("JOIN booking_statuses ON booking_statuses.id = bookings.status_id").
		Where("bookings.physiotherapist_id = ? AND bookings.appointment_date = ?", physiotherapistID, date.Format("2006-01-02")).
		Where("booking_statuses.name IN ?", []string{entity.BookingStatusPending, entity.BookingStatusConfirmed}).
		Pluck("bookings.appointment_time", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

// UpdateStatusGuarded is the single write used for every booking state
// transition. The status guard makes concurrent cancel/confirm attempts
// resolve to exactly one winner.
func (r *bookingRepository) UpdateStatusGuarded(db *gorm.DB, id uuid.UUID, fromStatusIDs []int, toStatusID int, clearSlotKey bool) (int64, error) {
	updates := map[string]interface{}{"status_id": toStatusID}
	if clearSlotKey {
		updates["slot_key"] = nil
	}
	result := db.Model(&entity.Booking{}).
		Where("id = ? AND status_id IN ?", id, fromStatusIDs).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *bookingRepository) CountActiveByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID, activeStatusIDs []int) (int64, error) {
	var count int64
	err := db.Model(&entity.Booking{}).
		Where("physiotherapist_id = ? AND status_id IN ?", physiotherapistID, activeStatusIDs).
		Count(&count).Error
	return count, err
}

func (r *bookingRepository) DeleteTerminalByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID, terminalStatusIDs []int) error {
	return db.Where("physiotherapist_id = ? AND status_id IN ?", physiotherapistID, terminalStatusIDs).
		Delete(&entity.Booking{}).Error
}
