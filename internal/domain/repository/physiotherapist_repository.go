package repository

import (
	"physio-marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PhysiotherapistRepository interface {
	Create(db *gorm.DB, profile *entity.PhysiotherapistProfile) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.PhysiotherapistProfile, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PhysiotherapistProfile, error)
	FindAvailable(db *gorm.DB, filter *entity.TherapistFilter) ([]entity.PhysiotherapistProfile, error)
	Update(db *gorm.DB, profile *entity.PhysiotherapistProfile) error
	// MarkVerified flips is_verified and is_available in a single guarded
	// update. Returns affected rows: 0 means the profile was already verified
	// or does not exist.
	MarkVerified(db *gorm.DB, id uuid.UUID) (int64, error)
	Delete(db *gorm.DB, id uuid.UUID) error
}
