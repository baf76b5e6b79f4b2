package repository

import (
	"physio-marketplace/internal/domain/entity"

	"gorm.io/gorm"
)

type BookingStatusRepository interface {
	// UpsertByName inserts any of the given status rows that do not exist yet
	// (matched by name) and leaves existing rows untouched.
	UpsertByName(db *gorm.DB, statuses []entity.BookingStatus) error
	FindByName(db *gorm.DB, name string) (*entity.BookingStatus, error)
}
