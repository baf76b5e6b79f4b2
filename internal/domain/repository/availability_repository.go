package repository

import (
	"time"

	"physio-marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvailabilityRepository covers both the recurring weekly templates and the
// date-specific overrides that together define a therapist's open hours.
type AvailabilityRepository interface {
	CreateTemplate(db *gorm.DB, template *entity.AvailabilityTemplate) error
	FindTemplatesByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID) ([]entity.AvailabilityTemplate, error)
	FindTemplatesByDay(db *gorm.DB, physiotherapistID uuid.UUID, dayOfWeek int) ([]entity.AvailabilityTemplate, error)
	DeleteTemplate(db *gorm.DB, physiotherapistID uuid.UUID, templateID int) (int64, error)
	DeleteTemplatesByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID) error

	CreateOverride(db *gorm.DB, override *entity.SpecificAvailability) error
	FindOverridesByDate(db *gorm.DB, physiotherapistID uuid.UUID, date time.Time) ([]entity.SpecificAvailability, error)
	FindOverridesByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID) ([]entity.SpecificAvailability, error)
	DeleteOverride(db *gorm.DB, physiotherapistID uuid.UUID, overrideID int) (int64, error)
	DeleteOverridesByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID) error
}
