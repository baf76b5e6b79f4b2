package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBuildSlotKey(t *testing.T) {
	id := uuid.MustParse("3c9a3f41-9b5a-4c9e-8a3d-2f1e5b6c7d8e")
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	got := BuildSlotKey(id, day, "10:00")
	want := "3c9a3f41-9b5a-4c9e-8a3d-2f1e5b6c7d8e|2026-03-02|10:00"
	if got != want {
		t.Errorf("BuildSlotKey = %q, want %q", got, want)
	}
	if len(got) > 64 {
		t.Errorf("slot key %q exceeds the 64 char column", got)
	}
}

func TestHoldsSlot(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{BookingStatusPending, true},
		{BookingStatusConfirmed, true},
		{BookingStatusCancelled, false},
		{BookingStatusCompleted, false},
		{BookingStatusPaymentFailed, false},
	}
	for _, c := range cases {
		b := &Booking{Status: BookingStatus{Name: c.status}}
		if got := b.HoldsSlot(); got != c.want {
			t.Errorf("HoldsSlot(%s) = %v, want %v", c.status, got, c.want)
		}
	}
}

func TestEffectivePaymentStatus(t *testing.T) {
	cases := []struct {
		name     string
		payments []Payment
		want     string
	}{
		{"no attempts", nil, "unpaid"},
		{"one completed", []Payment{{Status: PaymentStatusCompleted}}, "paid"},
		{"failed then completed", []Payment{{Status: PaymentStatusFailed}, {Status: PaymentStatusCompleted}}, "paid"},
		{"latest attempt pending", []Payment{{Status: PaymentStatusFailed}, {Status: PaymentStatusPending}}, PaymentStatusPending},
		{"all failed", []Payment{{Status: PaymentStatusFailed}}, PaymentStatusFailed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := &Booking{Payments: c.payments}
			if got := b.EffectivePaymentStatus(); got != c.want {
				t.Errorf("EffectivePaymentStatus = %q, want %q", got, c.want)
			}
		})
	}
}

func TestWeekdayToDayOfWeek(t *testing.T) {
	cases := []struct {
		in   time.Weekday
		want int
	}{
		{time.Monday, DayMonday},
		{time.Wednesday, DayWednesday},
		{time.Saturday, DaySaturday},
		{time.Sunday, DaySunday},
	}
	for _, c := range cases {
		if got := WeekdayToDayOfWeek(c.in); got != c.want {
			t.Errorf("WeekdayToDayOfWeek(%s) = %d, want %d", c.in, got, c.want)
		}
	}
}
