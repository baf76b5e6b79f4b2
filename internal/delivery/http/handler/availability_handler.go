package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/usecase"
	"physio-marketplace/pkg/response"
	"physio-marketplace/pkg/validator"

	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

// CreateTemplate adds a weekly availability rule for the logged-in therapist
// @Summary Create availability template
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateTemplateRequest true "Template Request"
// @Success 201 {object} response.Response
// @Router /therapist/availability/templates [post]
func (h *AvailabilityHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	template, err := h.availabilityUsecase.CreateTemplate(r.Context(), &req)
	if err != nil {
		h.writeAvailabilityError(w, err, "Failed to create availability template")
		return
	}

	response.Success(w, http.StatusCreated, "Availability template created", template)
}

// CreateOverride adds a date-specific availability override
// @Summary Create availability override
// @Tags Availability
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateOverrideRequest true "Override Request"
// @Success 201 {object} response.Response
// @Router /therapist/availability/overrides [post]
func (h *AvailabilityHandler) CreateOverride(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	override, err := h.availabilityUsecase.CreateOverride(r.Context(), &req)
	if err != nil {
		h.writeAvailabilityError(w, err, "Failed to create availability override")
		return
	}

	response.Success(w, http.StatusCreated, "Availability override created", override)
}

// GetMyAvailability lists the logged-in therapist's templates and overrides
// @Summary Get my availability
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /therapist/availability [get]
func (h *AvailabilityHandler) GetMyAvailability(w http.ResponseWriter, r *http.Request) {
	availability, err := h.availabilityUsecase.GetMyAvailability(r.Context())
	if err != nil {
		h.writeAvailabilityError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved", availability)
}

// DeleteTemplate removes one weekly availability rule
// @Summary Delete availability template
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param id path int true "Template ID"
// @Success 200 {object} response.Response
// @Router /therapist/availability/templates/{id} [delete]
func (h *AvailabilityHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid template ID", nil)
		return
	}

	if err := h.availabilityUsecase.DeleteTemplate(r.Context(), id); err != nil {
		h.writeAvailabilityError(w, err, "Failed to delete availability template")
		return
	}

	response.Success(w, http.StatusOK, "Availability template deleted", nil)
}

// DeleteOverride removes one date-specific override
// @Summary Delete availability override
// @Tags Availability
// @Security BearerAuth
// @Produce json
// @Param id path int true "Override ID"
// @Success 200 {object} response.Response
// @Router /therapist/availability/overrides/{id} [delete]
func (h *AvailabilityHandler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid override ID", nil)
		return
	}

	if err := h.availabilityUsecase.DeleteOverride(r.Context(), id); err != nil {
		h.writeAvailabilityError(w, err, "Failed to delete availability override")
		return
	}

	response.Success(w, http.StatusOK, "Availability override deleted", nil)
}

func (h *AvailabilityHandler) writeAvailabilityError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrNoTherapistProfile:
		response.Forbidden(w, "No therapist profile for this user")
	case usecase.ErrInvalidTimeRange:
		response.Error(w, http.StatusBadRequest, "Start time must be before end time, both HH:MM", nil)
	case usecase.ErrInvalidDate:
		response.Error(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD", nil)
	case usecase.ErrClinicNotFound:
		response.NotFound(w, "Clinic not found")
	case usecase.ErrClinicInactive:
		response.UnprocessableEntity(w, "Clinic is not active")
	case usecase.ErrTemplateNotFound:
		response.NotFound(w, "Availability template not found")
	case usecase.ErrOverrideNotFound:
		response.NotFound(w, "Availability override not found")
	default:
		response.InternalServerError(w, fallback)
	}
}
