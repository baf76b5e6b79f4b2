package handler

import (
	"net/http"

	"physio-marketplace/internal/domain/entity"
	"physio-marketplace/internal/usecase"
	"physio-marketplace/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type TherapistHandler struct {
	therapistUsecase usecase.TherapistUsecase
	slotUsecase      usecase.SlotUsecase
}

func NewTherapistHandler(therapistUsecase usecase.TherapistUsecase, slotUsecase usecase.SlotUsecase) *TherapistHandler {
	return &TherapistHandler{
		therapistUsecase: therapistUsecase,
		slotUsecase:      slotUsecase,
	}
}

// SearchTherapists lists verified, available physiotherapists
// @Summary Search physiotherapists
// @Tags Therapists
// @Produce json
// @Param specialization query string false "Filter by specialization"
// @Param city query string false "Filter by clinic city"
// @Param name query string false "Filter by name"
// @Success 200 {object} response.Response
// @Router /therapists [get]
func (h *TherapistHandler) SearchTherapists(w http.ResponseWriter, r *http.Request) {
	filter := &entity.TherapistFilter{
		Specialization: r.URL.Query().Get("specialization"),
		City:           r.URL.Query().Get("city"),
		Name:           r.URL.Query().Get("name"),
	}

	therapists, err := h.therapistUsecase.SearchTherapists(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to search physiotherapists")
		return
	}

	response.Success(w, http.StatusOK, "Physiotherapists retrieved", therapists)
}

// GetTherapist returns one physiotherapist profile
// @Summary Get physiotherapist
// @Tags Therapists
// @Produce json
// @Param id path string true "Physiotherapist ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /therapists/{id} [get]
func (h *TherapistHandler) GetTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid physiotherapist ID", nil)
		return
	}

	therapist, err := h.therapistUsecase.GetTherapist(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrTherapistNotFound:
			response.NotFound(w, "Physiotherapist not found")
		default:
			response.InternalServerError(w, "Failed to get physiotherapist")
		}
		return
	}

	response.Success(w, http.StatusOK, "Physiotherapist retrieved", therapist)
}

// GetAvailableSlots lists bookable start times for one therapist day
// @Summary Get available slots
// @Tags Therapists
// @Produce json
// @Param id path string true "Physiotherapist ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /therapists/{id}/slots [get]
func (h *TherapistHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid physiotherapist ID", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.Error(w, http.StatusBadRequest, "date query parameter is required", nil)
		return
	}

	slots, err := h.slotUsecase.GetAvailableSlots(r.Context(), id, date)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
		case usecase.ErrTherapistNotFound:
			response.NotFound(w, "Physiotherapist not found")
		default:
			response.InternalServerError(w, "Failed to get available slots")
		}
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved", slots)
}

// VerifyTherapist marks a physiotherapist as verified (admin)
// @Summary Verify physiotherapist
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Physiotherapist ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/therapists/{id}/verify [post]
func (h *TherapistHandler) VerifyTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid physiotherapist ID", nil)
		return
	}

	if err := h.therapistUsecase.VerifyTherapist(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrTherapistNotFound:
			response.NotFound(w, "Physiotherapist not found")
		case usecase.ErrTherapistAlreadyVerified:
			response.Conflict(w, "Physiotherapist is already verified")
		default:
			response.InternalServerError(w, "Failed to verify physiotherapist")
		}
		return
	}

	response.Success(w, http.StatusOK, "Physiotherapist verified", nil)
}

// DeleteTherapist removes a physiotherapist profile (admin)
// @Summary Delete physiotherapist
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Physiotherapist ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/therapists/{id} [delete]
func (h *TherapistHandler) DeleteTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid physiotherapist ID", nil)
		return
	}

	if err := h.therapistUsecase.DeleteTherapist(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrTherapistNotFound:
			response.NotFound(w, "Physiotherapist not found")
		case usecase.ErrTherapistHasActiveBookings:
			response.Conflict(w, "Physiotherapist still has active bookings")
		default:
			response.InternalServerError(w, "Failed to delete physiotherapist")
		}
		return
	}

	response.Success(w, http.StatusOK, "Physiotherapist deleted", nil)
}
