package repository

import (
	"physio-marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(db *gorm.DB, payment *entity.Payment) error
	FindByBookingID(db *gorm.DB, bookingID uuid.UUID) ([]entity.Payment, error)
	FindByTransactionID(db *gorm.DB, transactionID string) (*entity.Payment, error)
	FindByPaymentIntentID(db *gorm.DB, paymentIntentID string) (*entity.Payment, error)
	// MarkCompleted sets status=completed and processed_at, guarded so a
	// redelivered success event is a no-op. Returns affected rows.
	MarkCompleted(db *gorm.DB, id uuid.UUID, paymentIntentID string) (int64, error)
	// MarkFailed sets status=failed and processed_at for a non-terminal
	// payment. Returns affected rows.
	MarkFailed(db *gorm.DB, id uuid.UUID) (int64, error)

	UpsertMethodByName(db *gorm.DB, methods []entity.PaymentMethod) error
	FindMethodByName(db *gorm.DB, name string) (*entity.PaymentMethod, error)
}
