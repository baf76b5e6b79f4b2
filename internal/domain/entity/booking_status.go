package entity

// Booking status names. The reference rows are upserted by name at first use
// rather than assumed pre-seeded.
const (
	BookingStatusPending       = "pending"
	BookingStatusConfirmed     = "confirmed"
	BookingStatusCancelled     = "cancelled"
	BookingStatusCompleted     = "completed"
	BookingStatusPaymentFailed = "payment_failed"
)

// BookingStatus is a reference-data row naming a booking state
type BookingStatus struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(30);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (BookingStatus) TableName() string {
	return "booking_statuses"
}

// AllBookingStatuses returns the canonical status rows in seed order.
func AllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		{Name: BookingStatusPending, Description: "Booking is pending confirmation"},
		{Name: BookingStatusConfirmed, Description: "Booking has been confirmed"},
		{Name: BookingStatusCancelled, Description: "Booking has been cancelled"},
		{Name: BookingStatusCompleted, Description: "Booking session has been completed"},
		{Name: BookingStatusPaymentFailed, Description: "Payment for the booking failed"},
	}
}
