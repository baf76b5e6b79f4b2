package converter

import (
	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/domain/entity"
)

// PaymentToResponse converts a Payment entity to PaymentResponse DTO
func PaymentToResponse(payment *entity.Payment) *dto.PaymentResponse {
	if payment == nil {
		return nil
	}
	return &dto.PaymentResponse{
		ID:          payment.ID,
		Amount:      payment.Amount.StringFixed(2),
		Currency:    payment.Currency,
		Status:      payment.Status,
		ProcessedAt: payment.ProcessedAt,
		CreatedAt:   payment.CreatedAt,
	}
}

// PaymentsToResponses converts a slice of Payment entities to slice of PaymentResponse DTOs
func PaymentsToResponses(payments []entity.Payment) []dto.PaymentResponse {
	if len(payments) == 0 {
		return nil
	}
	responses := make([]dto.PaymentResponse, len(payments))
	for i, payment := range payments {
		responses[i] = *PaymentToResponse(&payment)
	}
	return responses
}
