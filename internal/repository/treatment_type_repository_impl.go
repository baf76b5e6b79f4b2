package repository

import (
	"errors"

	"physio-marketplace/internal/domain/entity"
	domainRepo "physio-marketplace/internal/domain/repository"

	"gorm.io/gorm"
)

type treatmentTypeRepository struct{}

func NewTreatmentTypeRepository() domainRepo.TreatmentTypeRepository {
	return &treatmentTypeRepository{}
}

func (r *treatmentTypeRepository) Create(db *gorm.DB, treatmentType *entity.TreatmentType) error {
	return db.Create(treatmentType).Error
}

func (r *treatmentTypeRepository) FindByID(db *gorm.DB, id int) (*entity.TreatmentType, error) {
	var treatmentType entity.TreatmentType
	err := db.Where("id = ?", id).First(&treatmentType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &treatmentType, nil
}

func (r *treatmentTypeRepository) FindActive(db *gorm.DB) ([]entity.TreatmentType, error) {
	var treatmentTypes []entity.TreatmentType
	err := db.Where("is_active = ?", true).Order("name ASC").Find(&treatmentTypes).Error
	if err != nil {
		return nil, err
	}
	return treatmentTypes, nil
}

func (r *treatmentTypeRepository) Update(db *gorm.DB, treatmentType *entity.TreatmentType) error {
	return db.Save(treatmentType).Error
}

func (r *treatmentTypeRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.TreatmentType{})
	return result.RowsAffected, result.Error
}
