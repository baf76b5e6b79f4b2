package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PhysiotherapistProfile represents therapist-specific profile data.
// A profile starts unverified and unavailable; admin verification flips both.
type PhysiotherapistProfile struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID           uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Specialization   string          `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Qualification    string          `gorm:"type:varchar(255)" json:"qualification,omitempty"`
	CORURegistration string          `gorm:"column:coru_registration;type:varchar(50);uniqueIndex" json:"coru_registration,omitempty"`
	YearsExperience  int             `gorm:"not null;default:0" json:"years_experience"`
	HourlyRate       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"hourly_rate"`
	Bio              string          `gorm:"type:text" json:"bio,omitempty"`
	IsVerified       bool            `gorm:"not null;default:false;index" json:"is_verified"`
	IsAvailable      bool            `gorm:"not null;default:false;index" json:"is_available"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User      User                   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Templates []AvailabilityTemplate `gorm:"foreignKey:PhysiotherapistID" json:"templates,omitempty"`
	Overrides []SpecificAvailability `gorm:"foreignKey:PhysiotherapistID" json:"overrides,omitempty"`
	Bookings  []Booking              `gorm:"foreignKey:PhysiotherapistID" json:"bookings,omitempty"`
}

func (PhysiotherapistProfile) TableName() string {
	return "physiotherapist_profiles"
}
