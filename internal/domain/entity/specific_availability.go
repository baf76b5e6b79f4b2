package entity

import (
	"time"

	"github.com/google/uuid"
)

// SpecificAvailability is a date-scoped override of the weekly template.
// IsAvailable=false blocks the time range (a full-day block is 00:00-23:59);
// IsAvailable=true opens an extra range independent of the template.
// Overrides take precedence over the template for the same date.
type SpecificAvailability struct {
	ID                int       `gorm:"primaryKey;autoIncrement" json:"id"`
	PhysiotherapistID uuid.UUID `gorm:"type:uuid;not null;index:idx_specific_physio_date" json:"physiotherapist_id"`
	Date              time.Time `gorm:"type:date;not null;index:idx_specific_physio_date" json:"date"`
	StartTime         string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime           string    `gorm:"type:varchar(5);not null" json:"end_time"`
	ClinicID          int       `gorm:"not null" json:"clinic_id"`
	IsAvailable       bool      `gorm:"not null" json:"is_available"`
	Reason            string    `gorm:"type:varchar(255)" json:"reason,omitempty"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Physiotherapist PhysiotherapistProfile `gorm:"foreignKey:PhysiotherapistID" json:"physiotherapist,omitempty"`
	Clinic          Clinic                 `gorm:"foreignKey:ClinicID" json:"clinic,omitempty"`
}

func (SpecificAvailability) TableName() string {
	return "specific_availabilities"
}
