package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePaymentSessionRequest struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	Currency  string    `json:"currency" validate:"omitempty,len=3"`
}

// GatewayEvent is the decoded body of a signed payment-provider callback.
type GatewayEvent struct {
	Type            string `json:"type"`
	TransactionID   string `json:"transaction_id"`
	PaymentIntentID string `json:"payment_intent_id"`
	BookingID       string `json:"booking_id"` // metadata attached at session creation
}

// Gateway event types
const (
	GatewayEventSessionCompleted = "checkout.session.completed"
	GatewayEventPaymentFailed    = "payment_intent.payment_failed"
)

// Response DTOs

type PaymentSessionResponse struct {
	CheckoutURL string    `json:"checkout_url"`
	BookingID   uuid.UUID `json:"booking_id"`
}

type PaymentResponse struct {
	ID          uuid.UUID  `json:"id"`
	Amount      string     `json:"amount"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
