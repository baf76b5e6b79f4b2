package repository

import (
	"physio-marketplace/internal/domain/entity"

	"gorm.io/gorm"
)

type ClinicRepository interface {
	Create(db *gorm.DB, clinic *entity.Clinic) error
	FindByID(db *gorm.DB, id int) (*entity.Clinic, error)
	FindActive(db *gorm.DB) ([]entity.Clinic, error)
}
