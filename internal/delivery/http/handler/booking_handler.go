package handler

import (
	"encoding/json"
	"net/http"

	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/usecase"
	"physio-marketplace/pkg/response"
	"physio-marketplace/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

// CreateBooking books an appointment slot for the logged-in patient
// @Summary Create booking
// @Tags Bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Booking Request"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	booking, err := h.bookingUsecase.CreateBooking(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrTherapistNotFound:
			response.NotFound(w, "Physiotherapist not found")
		case usecase.ErrTherapistUnavailable:
			response.UnprocessableEntity(w, "Physiotherapist is not accepting bookings")
		case usecase.ErrUserNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrClinicNotFound:
			response.NotFound(w, "Clinic not found")
		case usecase.ErrClinicInactive:
			response.UnprocessableEntity(w, "Clinic is not active")
		case usecase.ErrTreatmentTypeNotFound:
			response.NotFound(w, "Treatment type not found")
		case usecase.ErrTreatmentTypeInactive:
			response.UnprocessableEntity(w, "Treatment type is not active")
		case usecase.ErrInvalidDate, usecase.ErrInvalidAppointmentTime, usecase.ErrInvalidAmount:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case usecase.ErrPastAppointment:
			response.UnprocessableEntity(w, "Cannot book an appointment in the past")
		case usecase.ErrSlotAlreadyBooked:
			response.Conflict(w, "This time slot is already booked")
		case usecase.ErrReferenceGenerationFailed:
			response.Conflict(w, "Could not generate a unique booking reference, try again")
		default:
			response.InternalServerError(w, "Failed to create booking")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Booking created successfully", booking)
}

// GetBooking returns one booking visible to the caller
// @Summary Get booking
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, err := h.bookingUsecase.GetBooking(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case usecase.ErrBookingNotOwned:
			response.Forbidden(w, "Booking does not belong to you")
		default:
			response.InternalServerError(w, "Failed to get booking")
		}
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved", booking)
}

// CancelBooking cancels the caller's booking and frees its slot
// @Summary Cancel booking
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	if err := h.bookingUsecase.CancelBooking(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case usecase.ErrBookingNotOwned:
			response.Forbidden(w, "Booking does not belong to you")
		case usecase.ErrBookingAlreadyCancelled:
			response.Conflict(w, "Booking is already cancelled")
		case usecase.ErrBookingAlreadyCompleted:
			response.Conflict(w, "Booking is already completed")
		case usecase.ErrBookingPaidContactSupport:
			response.Conflict(w, "Booking has a completed payment, contact support to cancel")
		case usecase.ErrBookingStateConflict:
			response.Conflict(w, "Booking changed state concurrently, reload and retry")
		default:
			response.InternalServerError(w, "Failed to cancel booking")
		}
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled", nil)
}

// CompleteBooking marks a confirmed booking completed (therapist)
// @Summary Complete booking
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /bookings/{id}/complete [post]
func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	if err := h.bookingUsecase.CompleteBooking(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrBookingNotFound:
			response.NotFound(w, "Booking not found")
		case usecase.ErrTherapistNotFound:
			response.NotFound(w, "No therapist profile for this user")
		case usecase.ErrBookingNotOwned:
			response.Forbidden(w, "Booking does not belong to you")
		case usecase.ErrBookingNotConfirmed:
			response.Conflict(w, "Only confirmed bookings can be completed")
		default:
			response.InternalServerError(w, "Failed to complete booking")
		}
		return
	}

	response.Success(w, http.StatusOK, "Booking completed", nil)
}

// GetMyBookings lists the logged-in patient's bookings
// @Summary List my bookings
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /bookings [get]
func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetMyBookings(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list bookings")
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved", bookings)
}

// GetTherapistBookings lists the logged-in therapist's bookings
// @Summary List therapist bookings
// @Tags Bookings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /therapist/bookings [get]
func (h *BookingHandler) GetTherapistBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingUsecase.GetTherapistBookings(r.Context())
	if err != nil {
		switch err {
		case usecase.ErrTherapistNotFound:
			response.NotFound(w, "No therapist profile for this user")
		default:
			response.InternalServerError(w, "Failed to list bookings")
		}
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved", bookings)
}
