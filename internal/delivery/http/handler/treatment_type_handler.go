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

type TreatmentTypeHandler struct {
	treatmentTypeUsecase usecase.TreatmentTypeUsecase
	validator            *validator.CustomValidator
}

func NewTreatmentTypeHandler(treatmentTypeUsecase usecase.TreatmentTypeUsecase, validator *validator.CustomValidator) *TreatmentTypeHandler {
	return &TreatmentTypeHandler{
		treatmentTypeUsecase: treatmentTypeUsecase,
		validator:            validator,
	}
}

// GetTreatmentTypes lists active treatment types
func (h *TreatmentTypeHandler) GetTreatmentTypes(w http.ResponseWriter, r *http.Request) {
	treatmentTypes, err := h.treatmentTypeUsecase.GetTreatmentTypes(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list treatment types")
		return
	}

	response.Success(w, http.StatusOK, "Treatment types retrieved", treatmentTypes)
}

// CreateTreatmentType adds a treatment type (admin)
func (h *TreatmentTypeHandler) CreateTreatmentType(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTreatmentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	treatmentType, err := h.treatmentTypeUsecase.CreateTreatmentType(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrTreatmentTypeExists:
			response.Conflict(w, "Treatment type name already exists")
		default:
			response.InternalServerError(w, "Failed to create treatment type")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Treatment type created", treatmentType)
}

// UpdateTreatmentType updates a treatment type (admin)
func (h *TreatmentTypeHandler) UpdateTreatmentType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid treatment type ID", nil)
		return
	}

	var req dto.UpdateTreatmentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	treatmentType, err := h.treatmentTypeUsecase.UpdateTreatmentType(r.Context(), id, &req)
	if err != nil {
		switch err {
		case usecase.ErrTreatmentTypeNotFound:
			response.NotFound(w, "Treatment type not found")
		case usecase.ErrTreatmentTypeExists:
			response.Conflict(w, "Treatment type name already exists")
		default:
			response.InternalServerError(w, "Failed to update treatment type")
		}
		return
	}

	response.Success(w, http.StatusOK, "Treatment type updated", treatmentType)
}

// DeleteTreatmentType removes a treatment type (admin)
func (h *TreatmentTypeHandler) DeleteTreatmentType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid treatment type ID", nil)
		return
	}

	if err := h.treatmentTypeUsecase.DeleteTreatmentType(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrTreatmentTypeNotFound:
			response.NotFound(w, "Treatment type not found")
		default:
			response.InternalServerError(w, "Failed to delete treatment type")
		}
		return
	}

	response.Success(w, http.StatusOK, "Treatment type deleted", nil)
}
