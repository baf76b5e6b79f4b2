package repository

import (
	"physio-marketplace/internal/domain/entity"

	"gorm.io/gorm"
)

type TreatmentTypeRepository interface {
	Create(db *gorm.DB, treatmentType *entity.TreatmentType) error
	FindByID(db *gorm.DB, id int) (*entity.TreatmentType, error)
	FindActive(db *gorm.DB) ([]entity.TreatmentType, error)
	Update(db *gorm.DB, treatmentType *entity.TreatmentType) error
	Delete(db *gorm.DB, id int) (int64, error)
}
