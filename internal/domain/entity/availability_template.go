package entity

import (
	"time"

	"github.com/google/uuid"
)

// Day-of-week values stored on availability templates. Monday is 0 to match
// the working-week ordering of the seed data.
const (
	DayMonday = iota
	DayTuesday
	DayWednesday
	DayThursday
	DayFriday
	DaySaturday
	DaySunday
)

// AvailabilityTemplate is a recurring weekly availability rule.
// Invariant: StartTime < EndTime (both "HH:MM", 24-hour).
type AvailabilityTemplate struct {
	ID                int       `gorm:"primaryKey;autoIncrement" json:"id"`
	PhysiotherapistID uuid.UUID `gorm:"type:uuid;not null;index:idx_templates_physio_day" json:"physiotherapist_id"`
	DayOfWeek         int       `gorm:"not null;index:idx_templates_physio_day" json:"day_of_week"`
	StartTime         string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime           string    `gorm:"type:varchar(5);not null" json:"end_time"`
	ClinicID          int       `gorm:"not null;index" json:"clinic_id"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Physiotherapist PhysiotherapistProfile `gorm:"foreignKey:PhysiotherapistID" json:"physiotherapist,omitempty"`
	Clinic          Clinic                 `gorm:"foreignKey:ClinicID" json:"clinic,omitempty"`
}

func (AvailabilityTemplate) TableName() string {
	return "availability_templates"
}

// WeekdayToDayOfWeek converts a time.Weekday (Sunday=0) to the Monday=0
// encoding used by templates.
func WeekdayToDayOfWeek(w time.Weekday) int {
	if w == time.Sunday {
		return DaySunday
	}
	return int(w) - 1
}
