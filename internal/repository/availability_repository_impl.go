package repository

import (
	"time"

	"physio-marketplace/internal/domain/entity"
	domainRepo "physio-marketplace/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type availabilityRepository struct{}

func NewAvailabilityRepository() domainRepo.AvailabilityRepository {
	return &availabilityRepository{}
}

func (r *availabilityRepository) CreateTemplate(db *gorm.DB, template *entity.AvailabilityTemplate) error {
	return db.Create(template).Error
}

func (r *availabilityRepository) FindTemplatesByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID) ([]entity.AvailabilityTemplate, error) {
	var templates []entity.AvailabilityTemplate
	err := db.Where("physiotherapist_id = ?", physiotherapistID).
		Order("day_of_week ASC, start_time ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *availabilityRepository) FindTemplatesByDay(db *gorm.DB, physiotherapistID uuid.UUID, dayOfWeek int) ([]entity.AvailabilityTemplate, error) {
	var templates []entity.AvailabilityTemplate
	err := db.Where("physiotherapist_id = ? AND day_of_week = ?", physiotherapistID, dayOfWeek).
		Order("start_time ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *availabilityRepository) DeleteTemplate(db *gorm.DB, physiotherapistID uuid.UUID, templateID int) (int64, error) {
	result := db.Where("id = ? AND physiotherapist_id = ?", templateID, physiotherapistID).
		Delete(&entity.AvailabilityTemplate{})
	return result.RowsAffected, result.Error
}

func (r *availabilityRepository) DeleteTemplatesByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID) error {
	return db.Where("physiotherapist_id = ?", physiotherapistID).
		Delete(&entity.AvailabilityTemplate{}).Error
}

func (r *availabilityRepository) CreateOverride(db *gorm.DB, override *entity.SpecificAvailability) error {
	return db.Create(override).Error
}

func (r *availabilityRepository) FindOverridesByDate(db *gorm.DB, physiotherapistID uuid.UUID, date time.Time) ([]entity.SpecificAvailability, error) {
	var overrides []entity.SpecificAvailability
	err := db.Where("physiotherapist_id = ? AND date = ?", physiotherapistID, date.Format("2006-01-02")).
		Order("start_time ASC").
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *availabilityRepository) FindOverridesByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID) ([]entity.SpecificAvailability, error) {
	var overrides []entity.SpecificAvailability
	err := db.Where("physiotherapist_id = ?", physiotherapistID).
		Order("date ASC, start_time ASC").
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *availabilityRepository) DeleteOverride(db *gorm.DB, physiotherapistID uuid.UUID, overrideID int) (int64, error) {
	result := db.Where("id = ? AND physiotherapist_id = ?", overrideID, physiotherapistID).
		Delete(&entity.SpecificAvailability{})
	return result.RowsAffected, result.Error
}

func (r *availabilityRepository) DeleteOverridesByPhysiotherapist(db *gorm.DB, physiotherapistID uuid.UUID) error {
	return db.Where("physiotherapist_id = ?", physiotherapistID).
		Delete(&entity.SpecificAvailability{}).Error
}
