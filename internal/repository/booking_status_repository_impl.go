package repository

import (
	"errors"

	"physio-marketplace/internal/domain/entity"
	domainRepo "physio-marketplace/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bookingStatusRepository struct{}

func NewBookingStatusRepository() domainRepo.BookingStatusRepository {
	return &bookingStatusRepository{}
}

func (r *bookingStatusRepository) UpsertByName(db *gorm.DB, statuses []entity.BookingStatus) error {
	if len(statuses) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&statuses).Error
}

func (r *bookingStatusRepository) FindByName(db *gorm.DB, name string) (*entity.BookingStatus, error) {
	var status entity.BookingStatus
	err := db.Where("name = ?", name).First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}
