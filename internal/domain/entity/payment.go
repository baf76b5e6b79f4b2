package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment status names
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment is one payment attempt against a booking. Retries create new rows,
// so a booking may own several.
type Payment struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BookingID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"booking_id"`
	PaymentMethodID int             `gorm:"not null" json:"payment_method_id"`
	Amount          decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency        string          `gorm:"type:char(3);not null" json:"currency"`
	TransactionID   string          `gorm:"type:varchar(255);index" json:"transaction_id,omitempty"`
	PaymentIntentID string          `gorm:"type:varchar(255);index" json:"payment_intent_id,omitempty"`
	Status          string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ProcessedAt     *time.Time      `json:"processed_at,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Booking       Booking       `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	PaymentMethod PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentMethod is a reference-data row naming how a payment was made
type PaymentMethod struct {
	ID   int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}

const PaymentMethodCard = "card"
