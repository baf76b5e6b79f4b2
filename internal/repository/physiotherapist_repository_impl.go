package repository

import (
	"errors"

	"physio-marketplace/internal/domain/entity"
	domainRepo "physio-marketplace/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type physiotherapistRepository struct{}

func NewPhysiotherapistRepository() domainRepo.PhysiotherapistRepository {
	return &physiotherapistRepository{}
}

func (r *physiotherapistRepository) Create(db *gorm.DB, profile *entity.PhysiotherapistProfile) error {
	return db.Create(profile).Error
}

func (r *physiotherapistRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.PhysiotherapistProfile, error) {
	var profile entity.PhysiotherapistProfile
	err := db.Preload("User").Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *physiotherapistRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PhysiotherapistProfile, error) {
	var profile entity.PhysiotherapistProfile
	err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindAvailable returns verified, available therapists whose user account is
// active. Supports optional filters: specialization, clinic city, and name.
func (r *physiotherapistRepository) FindAvailable(db *gorm.DB, filter *entity.TherapistFilter) ([]entity.PhysiotherapistProfile, error) {
	var profiles []entity.PhysiotherapistProfile
	query := db.
		Joins("JOIN users ON users.id = physiotherapist_profiles.user_id").
		Where("physiotherapist_profiles.is_available = ?", true).
		Where("physiotherapist_profiles.is_verified = ?", true).
		Where("users.is_active = ?", true)

	if filter != nil {
		if filter.Specialization != "" {
			query = query.Where("physiotherapist_profiles.specialization ILIKE ?", "%"+filter.Specialization+"%")
		}
		if filter.Name != "" {
			query = query.Where("(users.first_name || ' ' || users.last_name) ILIKE ?", "%"+filter.Name+"%")
		}
		if filter.City != "" {
			query = query.
				Joins("JOIN availability_templates ON availability_templates.physiotherapist_id = physiotherapist_profiles.id").
				Joins("JOIN clinics ON clinics.id = availability_templates.clinic_id").
				Where("clinics.city ILIKE ?", "%"+filter.City+"%").
				Distinct("physiotherapist_profiles.*")
		}
	}

	err := query.
		Preload("User").
		Order("physiotherapist_profiles.created_at ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *physiotherapistRepository) Update(db *gorm.DB, profile *entity.PhysiotherapistProfile) error {
	return db.Omit("User").Save(profile).Error
}

func (r *physiotherapistRepository) MarkVerified(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.PhysiotherapistProfile{}).
		Where("id = ? AND is_verified = ?", id, false).
		Updates(map[string]interface{}{"is_verified": true, "is_available": true})
	return result.RowsAffected, result.Error
}

func (r *physiotherapistRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.PhysiotherapistProfile{}).Error
}
