package converter

import (
	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/domain/entity"

	"github.com/google/uuid"
)

// TherapistToResponse converts a PhysiotherapistProfile entity to TherapistResponse DTO
func TherapistToResponse(profile *entity.PhysiotherapistProfile) *dto.TherapistResponse {
	if profile == nil {
		return nil
	}

	response := &dto.TherapistResponse{
		ID:               profile.ID,
		UserID:           profile.UserID,
		Specialization:   profile.Specialization,
		Qualification:    profile.Qualification,
		CORURegistration: profile.CORURegistration,
		YearsExperience:  profile.YearsExperience,
		HourlyRate:       profile.HourlyRate.StringFixed(2),
		Bio:              profile.Bio,
		IsVerified:       profile.IsVerified,
		IsAvailable:      profile.IsAvailable,
		CreatedAt:        profile.CreatedAt,
		UpdatedAt:        profile.UpdatedAt,
	}

	if profile.User.ID != uuid.Nil {
		response.Name = "Dr. " + profile.User.FullName()
		response.Email = profile.User.Email
		response.Phone = profile.User.Phone
	}

	return response
}

// TherapistsToResponses converts a slice of PhysiotherapistProfile entities to slice of TherapistResponse DTOs
func TherapistsToResponses(profiles []entity.PhysiotherapistProfile) []dto.TherapistResponse {
	responses := make([]dto.TherapistResponse, len(profiles))
	for i, profile := range profiles {
		responses[i] = *TherapistToResponse(&profile)
	}
	return responses
}
