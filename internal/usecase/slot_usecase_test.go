package usecase

import (
	"context"
	"reflect"
	"testing"
	"time"

	"physio-marketplace/config"
	"physio-marketplace/internal/domain/entity"

	"github.com/google/uuid"
)

// The fixture week: 2026-03-02 is a Monday.
const (
	slotTestDate = "2026-03-02"
)

type slotEnv struct {
	usecase  *slotUsecase
	physioID uuid.UUID
	physio   *fakePhysioRepo
	avail    *fakeAvailabilityRepo
	bookings *fakeBookingRepo
}

func newSlotEnv(t *testing.T) *slotEnv {
	t.Helper()

	physioID := uuid.New()
	physio := &fakePhysioRepo{profiles: map[uuid.UUID]*entity.PhysiotherapistProfile{
		physioID: {ID: physioID, UserID: uuid.New(), IsVerified: true, IsAvailable: true},
	}}
	avail := &fakeAvailabilityRepo{}
	bookings := newFakeBookingRepo()

	cfg := config.BookingConfig{
		SlotDuration: 60 * time.Minute,
		LeadTime:     30 * time.Minute,
		SlotCacheTTL: time.Minute,
	}
	u := NewSlotUsecase(testDB(t), testLogger(), physio, avail, bookings, testSlotCache(), cfg).(*slotUsecase)
	// Fix "now" to the Sunday before the fixture date so no same-day
	// cutoff applies unless a test moves it.
	u.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}

	return &slotEnv{usecase: u, physioID: physioID, physio: physio, avail: avail, bookings: bookings}
}

func (e *slotEnv) addTemplate(dayOfWeek int, start, end string) {
	e.avail.templates = append(e.avail.templates, entity.AvailabilityTemplate{
		ID:                len(e.avail.templates) + 1,
		PhysiotherapistID: e.physioID,
		DayOfWeek:         dayOfWeek,
		StartTime:         start,
		EndTime:           end,
		ClinicID:          1,
	})
}

func (e *slotEnv) addOverride(date, start, end string, available bool) {
	day, _ := time.ParseInLocation("2006-01-02", date, time.UTC)
	e.avail.overrides = append(e.avail.overrides, entity.SpecificAvailability{
		ID:                len(e.avail.overrides) + 1,
		PhysiotherapistID: e.physioID,
		Date:              day,
		StartTime:         start,
		EndTime:           end,
		ClinicID:          1,
		IsAvailable:       available,
	})
}

func (e *slotEnv) addHeldBooking(date, at string, statusID int) {
	day, _ := time.ParseInLocation("2006-01-02", date, time.UTC)
	slotKey := entity.BuildSlotKey(e.physioID, day, at)
	e.bookings.bookings[uuid.New()] = &entity.Booking{
		ID:                uuid.New(),
		BookingReference:  "BKTEST" + at,
		PhysiotherapistID: e.physioID,
		AppointmentDate:   day,
		AppointmentTime:   at,
		StatusID:          statusID,
		SlotKey:           &slotKey,
	}
}

func (e *slotEnv) slots(t *testing.T, date string) []string {
	t.Helper()
	resp, err := e.usecase.GetAvailableSlots(context.Background(), e.physioID, date)
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	return resp.Slots
}

func TestGetAvailableSlotsFromTemplate(t *testing.T) {
	env := newSlotEnv(t)
	env.addTemplate(entity.DayMonday, "09:00", "12:00")

	got := env.slots(t, slotTestDate)
	want := []string{"09:00", "10:00", "11:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots = %v, want %v", got, want)
	}
}

func TestGetAvailableSlotsNoTemplateForDay(t *testing.T) {
	env := newSlotEnv(t)
	env.addTemplate(entity.DayTuesday, "09:00", "12:00")

	if got := env.slots(t, slotTestDate); len(got) != 0 {
		t.Errorf("expected no slots on a day without a template, got %v", got)
	}
}

func TestGetAvailableSlotsBlockingOverride(t *testing.T) {
	env := newSlotEnv(t)
	env.addTemplate(entity.DayMonday, "09:00", "12:00")
	env.addOverride(slotTestDate, "10:00", "11:00", false)

	got := env.slots(t, slotTestDate)
	want := []string{"09:00", "11:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots = %v, want %v", got, want)
	}
}

func TestGetAvailableSlotsFullDayBlock(t *testing.T) {
	env := newSlotEnv(t)
	env.addTemplate(entity.DayMonday, "09:00", "17:00")
	env.addOverride(slotTestDate, "00:00", "23:59", false)

	if got := env.slots(t, slotTestDate); len(got) != 0 {
		t.Errorf("expected full-day block to leave no slots, got %v", got)
	}
}

func TestGetAvailableSlotsExtraHoursOverride(t *testing.T) {
	env := newSlotEnv(t)
	env.addTemplate(entity.DayMonday, "09:00", "11:00")
	env.addOverride(slotTestDate, "13:00", "15:00", true)

	got := env.slots(t, slotTestDate)
	want := []string{"09:00", "10:00", "13:00", "14:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots = %v, want %v", got, want)
	}
}

func TestGetAvailableSlotsOverrideOverlappingTemplate(t *testing.T) {
	env := newSlotEnv(t)
	env.addTemplate(entity.DayMonday, "09:00", "12:00")
	// Extra hours overlapping the template must not duplicate slots.
	env.addOverride(slotTestDate, "11:00", "14:00", true)

	got := env.slots(t, slotTestDate)
	want := []string{"09:00", "10:00", "11:00", "12:00", "13:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots = %v, want %v", got, want)
	}
}

func TestGetAvailableSlotsRemovesHeldTimes(t *testing.T) {
	env := newSlotEnv(t)
	env.addTemplate(entity.DayMonday, "09:00", "12:00")
	env.addHeldBooking(slotTestDate, "10:00", statusPendingID)

	got := env.slots(t, slotTestDate)
	want := []string{"09:00", "11:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots = %v, want %v", got, want)
	}

	// Cancelled bookings do not hold their slot.
	env2 := newSlotEnv(t)
	env2.addTemplate(entity.DayMonday, "09:00", "12:00")
	env2.addHeldBooking(slotTestDate, "10:00", statusCancelledID)

	got = env2.slots(t, slotTestDate)
	want = []string{"09:00", "10:00", "11:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots after cancel = %v, want %v", got, want)
	}
}

func TestGetAvailableSlotsLeadTimeCutoff(t *testing.T) {
	env := newSlotEnv(t)
	env.addTemplate(entity.DayMonday, "09:00", "12:00")
	// 10:15 on the fixture Monday itself: with a 30 minute lead time,
	// 09:00 and 10:00 are inside the buffer and 11:00 is not.
	env.usecase.now = func() time.Time {
		return time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC)
	}

	got := env.slots(t, slotTestDate)
	want := []string{"11:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots = %v, want %v", got, want)
	}
}

func TestGetAvailableSlotsLeadTimeExactBoundary(t *testing.T) {
	env := newSlotEnv(t)
	env.addTemplate(entity.DayMonday, "09:00", "12:00")
	// 10:30 + 30 minute lead time lands exactly on the 11:00 slot:
	// a slot starting exactly at now+buffer is still bookable.
	env.usecase.now = func() time.Time {
		return time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	}

	got := env.slots(t, slotTestDate)
	want := []string{"11:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots at the boundary = %v, want %v", got, want)
	}

	// One minute later the 11:00 slot falls inside the buffer.
	env.usecase.now = func() time.Time {
		return time.Date(2026, 3, 2, 10, 31, 0, 0, time.UTC)
	}
	if got := env.slots(t, slotTestDate); len(got) != 0 {
		t.Errorf("slots one minute past the boundary = %v, want none", got)
	}
}

func TestGetAvailableSlotsLeadTimeCrossesMidnight(t *testing.T) {
	env := newSlotEnv(t)
	env.addTemplate(entity.DayMonday, "21:00", "23:59")
	// 23:45 + 30 minutes rolls into Tuesday: every remaining Monday
	// slot is inside the buffer, so none may come back.
	env.usecase.now = func() time.Time {
		return time.Date(2026, 3, 2, 23, 45, 0, 0, time.UTC)
	}

	if got := env.slots(t, slotTestDate); len(got) != 0 {
		t.Errorf("slots = %v, want none once the buffer crosses midnight", got)
	}
}

func TestGetAvailableSlotsPastDateEmpty(t *testing.T) {
	env := newSlotEnv(t)
	env.addTemplate(entity.DayFriday, "09:00", "12:00")

	// 2026-02-27 is a Friday before the fixed "now".
	if got := env.slots(t, "2026-02-27"); len(got) != 0 {
		t.Errorf("expected no slots for a past date, got %v", got)
	}
}

func TestGetAvailableSlotsUnverifiedTherapistEmpty(t *testing.T) {
	env := newSlotEnv(t)
	env.addTemplate(entity.DayMonday, "09:00", "12:00")
	env.physio.profiles[env.physioID].IsVerified = false

	if got := env.slots(t, slotTestDate); len(got) != 0 {
		t.Errorf("expected no slots for an unverified therapist, got %v", got)
	}
}

func TestGetAvailableSlotsUnknownTherapist(t *testing.T) {
	env := newSlotEnv(t)

	_, err := env.usecase.GetAvailableSlots(context.Background(), uuid.New(), slotTestDate)
	if err != ErrTherapistNotFound {
		t.Errorf("expected ErrTherapistNotFound, got %v", err)
	}
}

func TestGetAvailableSlotsInvalidDate(t *testing.T) {
	env := newSlotEnv(t)

	_, err := env.usecase.GetAvailableSlots(context.Background(), env.physioID, "02-03-2026")
	if err != ErrInvalidDate {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}
