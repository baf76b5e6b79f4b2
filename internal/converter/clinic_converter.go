package converter

import (
	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/domain/entity"
)

// ClinicToResponse converts a Clinic entity to ClinicResponse DTO
func ClinicToResponse(clinic *entity.Clinic) *dto.ClinicResponse {
	if clinic == nil {
		return nil
	}
	return &dto.ClinicResponse{
		ID:           clinic.ID,
		Name:         clinic.Name,
		AddressLine1: clinic.AddressLine1,
		AddressLine2: clinic.AddressLine2,
		City:         clinic.City,
		Eircode:      clinic.Eircode,
		IsActive:     clinic.IsActive,
		CreatedAt:    clinic.CreatedAt,
		UpdatedAt:    clinic.UpdatedAt,
	}
}

// ClinicsToResponses converts a slice of Clinic entities to DTOs
func ClinicsToResponses(clinics []entity.Clinic) []dto.ClinicResponse {
	responses := make([]dto.ClinicResponse, len(clinics))
	for i, clinic := range clinics {
		responses[i] = *ClinicToResponse(&clinic)
	}
	return responses
}
