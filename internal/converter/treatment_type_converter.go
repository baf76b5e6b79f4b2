package converter

import (
	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/domain/entity"
)

// TreatmentTypeToResponse converts a TreatmentType entity to TreatmentTypeResponse DTO
func TreatmentTypeToResponse(treatmentType *entity.TreatmentType) *dto.TreatmentTypeResponse {
	if treatmentType == nil {
		return nil
	}
	return &dto.TreatmentTypeResponse{
		ID:          treatmentType.ID,
		Name:        treatmentType.Name,
		Description: treatmentType.Description,
		IsActive:    treatmentType.IsActive,
		CreatedAt:   treatmentType.CreatedAt,
		UpdatedAt:   treatmentType.UpdatedAt,
	}
}

// TreatmentTypesToResponses converts a slice of TreatmentType entities to DTOs
func TreatmentTypesToResponses(treatmentTypes []entity.TreatmentType) []dto.TreatmentTypeResponse {
	responses := make([]dto.TreatmentTypeResponse, len(treatmentTypes))
	for i, treatmentType := range treatmentTypes {
		responses[i] = *TreatmentTypeToResponse(&treatmentType)
	}
	return responses
}
