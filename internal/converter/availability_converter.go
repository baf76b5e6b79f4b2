package converter

import (
	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/domain/entity"
)

// TemplateToResponse converts an AvailabilityTemplate entity to TemplateResponse DTO
func TemplateToResponse(template *entity.AvailabilityTemplate) *dto.TemplateResponse {
	if template == nil {
		return nil
	}
	return &dto.TemplateResponse{
		ID:        template.ID,
		DayOfWeek: template.DayOfWeek,
		StartTime: template.StartTime,
		EndTime:   template.EndTime,
		ClinicID:  template.ClinicID,
		CreatedAt: template.CreatedAt,
		UpdatedAt: template.UpdatedAt,
	}
}

// TemplatesToResponses converts a slice of AvailabilityTemplate entities to DTOs
func TemplatesToResponses(templates []entity.AvailabilityTemplate) []dto.TemplateResponse {
	responses := make([]dto.TemplateResponse, len(templates))
	for i, template := range templates {
		responses[i] = *TemplateToResponse(&template)
	}
	return responses
}

// OverrideToResponse converts a SpecificAvailability entity to OverrideResponse DTO
func OverrideToResponse(override *entity.SpecificAvailability) *dto.OverrideResponse {
	if override == nil {
		return nil
	}
	return &dto.OverrideResponse{
		ID:          override.ID,
		Date:        override.Date.Format("2006-01-02"),
		StartTime:   override.StartTime,
		EndTime:     override.EndTime,
		ClinicID:    override.ClinicID,
		IsAvailable: override.IsAvailable,
		Reason:      override.Reason,
		CreatedAt:   override.CreatedAt,
		UpdatedAt:   override.UpdatedAt,
	}
}

// OverridesToResponses converts a slice of SpecificAvailability entities to DTOs
func OverridesToResponses(overrides []entity.SpecificAvailability) []dto.OverrideResponse {
	responses := make([]dto.OverrideResponse, len(overrides))
	for i, override := range overrides {
		responses[i] = *OverrideToResponse(&override)
	}
	return responses
}
