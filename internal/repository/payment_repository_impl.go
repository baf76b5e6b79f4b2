package repository

import (
	"errors"
	"time"

	"physio-marketplace/internal/domain/entity"
	domainRepo "physio-marketplace/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentRepository struct{}

func NewPaymentRepository() domainRepo.PaymentRepository {
	return &paymentRepository{}
}

func (r *paymentRepository) Create(db *gorm.DB, payment *entity.Payment) error {
	return db.Create(payment).Error
}

func (r *paymentRepository) FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := db.Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) FindByTransactionID(db *gorm.DB, transactionID string) (*entity.Payment, error) {
	var payment entity.Payment
	err := db.Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByPaymentIntentID(db *gorm.DB, paymentIntentID string) (*entity.Payment, error) {
	var payment entity.Payment
	err := db.Where("payment_intent_id = ?", paymentIntentID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// MarkCompleted is guarded on status so a redelivered success event cannot
// double-apply or resurrect a failed payment.
func (r *paymentRepository) MarkCompleted(db *gorm.DB, id uuid.UUID, paymentIntentID string) (int64, error) {
	updates := map[string]interface{}{
		"status":       entity.PaymentStatusCompleted,
		"processed_at": time.Now(),
	}
	if paymentIntentID != "" {
		updates["payment_intent_id"] = paymentIntentID
	}
	result := db.Model(&entity.Payment{}).
		Where("id = ? AND status = ?", id, entity.PaymentStatusPending).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *paymentRepository) MarkFailed(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Payment{}).
		Where("id = ? AND status = ?", id, entity.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":       entity.PaymentStatusFailed,
			"processed_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *paymentRepository) UpsertMethodByName(db *gorm.DB, methods []entity.PaymentMethod) error {
	if len(methods) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&methods).Error
}

func (r *paymentRepository) FindMethodByName(db *gorm.DB, name string) (*entity.PaymentMethod, error) {
	var method entity.PaymentMethod
	err := db.Where("name = ?", name).First(&method).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}
