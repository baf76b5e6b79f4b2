package converter

import (
	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/domain/entity"

	"github.com/google/uuid"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.BookingResponse{
		ID:               booking.ID,
		BookingReference: booking.BookingReference,
		AppointmentDate:  booking.AppointmentDate.Format("2006-01-02"),
		AppointmentTime:  booking.AppointmentTime,
		DurationMinutes:  booking.DurationMinutes,
		Status:           booking.Status.Name,
		TotalAmount:      booking.TotalAmount.StringFixed(2),
		PatientNotes:     booking.PatientNotes,
		TherapistNotes:   booking.TherapistNotes,
		PaymentStatus:    booking.EffectivePaymentStatus(),
		Payments:         PaymentsToResponses(booking.Payments),
		CreatedAt:        booking.CreatedAt,
		UpdatedAt:        booking.UpdatedAt,
	}

	if booking.Patient.ID != uuid.Nil {
		response.PatientName = booking.Patient.FullName()
	}
	if booking.Physiotherapist.ID != uuid.Nil && booking.Physiotherapist.User.ID != uuid.Nil {
		response.TherapistName = "Dr. " + booking.Physiotherapist.User.FullName()
	}
	if booking.Clinic.ID != 0 {
		response.ClinicName = booking.Clinic.Name
		response.ClinicAddress = booking.Clinic.AddressLine1
		response.ClinicCity = booking.Clinic.City
	}
	if booking.TreatmentType != nil {
		response.TreatmentType = booking.TreatmentType.Name
	}

	return response
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i, booking := range bookings {
		resp := BookingToResponse(&booking)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
