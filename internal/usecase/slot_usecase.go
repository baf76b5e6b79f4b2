package usecase

import (
	"context"
	"errors"
	"time"

	"physio-marketplace/config"
	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/domain/entity"
	"physio-marketplace/internal/domain/repository"
	"physio-marketplace/internal/service"
	"physio-marketplace/pkg/timeslot"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrTherapistNotFound    = errors.New("physiotherapist not found")
	ErrTherapistUnavailable = errors.New("physiotherapist is not accepting bookings")
	ErrInvalidDate          = errors.New("invalid date format, use YYYY-MM-DD")
)

type SlotUsecase interface {
	GetAvailableSlots(ctx context.Context, physiotherapistID uuid.UUID, date string) (*dto.SlotListResponse, error)
}

type slotUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	physioRepo       repository.PhysiotherapistRepository
	availabilityRepo repository.AvailabilityRepository
	bookingRepo      repository.BookingRepository
	slotCache        *service.SlotCache
	cfg              config.BookingConfig

	now func() time.Time
}

func NewSlotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	physioRepo repository.PhysiotherapistRepository,
	availabilityRepo repository.AvailabilityRepository,
	bookingRepo repository.BookingRepository,
	slotCache *service.SlotCache,
	cfg config.BookingConfig,
) SlotUsecase {
	return &slotUsecase{
		db:               db,
		log:              log,
		physioRepo:       physioRepo,
		availabilityRepo: availabilityRepo,
		bookingRepo:      bookingRepo,
		slotCache:        slotCache,
		cfg:              cfg,
		now:              time.Now,
	}
}

// GetAvailableSlots computes the bookable start times for one therapist day.
//
// Flow:
// 1. Resolve open ranges: weekly template for the weekday, extra-hours
//    overrides added on top, blocking overrides subtracted last
// 2. Discretize the merged ranges at the configured slot duration
// 3. Remove times held by pending/confirmed bookings
// 4. For today, remove times starting inside the lead-time buffer
func (u *slotUsecase) GetAvailableSlots(ctx context.Context, physiotherapistID uuid.UUID, date string) (*dto.SlotListResponse, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}

	profile, err := u.physioRepo.FindByID(u.db.WithContext(ctx), physiotherapistID)
	if err != nil {
		u.log.Warnf("Failed to find physiotherapist %s: %+v", physiotherapistID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrTherapistNotFound
	}

	response := &dto.SlotListResponse{
		PhysiotherapistID: physiotherapistID.String(),
		Date:              day.Format("2006-01-02"),
		Slots:             []string{},
	}

	// Unverified or paused therapists and past dates publish no slots.
	if !profile.IsVerified || !profile.IsAvailable {
		return response, nil
	}
	now := u.now().UTC()
	today := now.Truncate(24 * time.Hour)
	if day.Before(today) {
		return response, nil
	}

	if cached, ok := u.slotCache.Get(ctx, physiotherapistID, response.Date); ok {
		response.Slots = cached
		response.Total = len(cached)
		return response, nil
	}

	open, err := u.openRanges(ctx, physiotherapistID, day)
	if err != nil {
		return nil, err
	}

	step := int(u.cfg.SlotDuration.Minutes())
	starts := timeslot.Discretize(open, step)

	// Conflict filter: drop times already held by active bookings.
	heldTimes, err := u.bookingRepo.FindSlotHoldingTimes(u.db.WithContext(ctx), physiotherapistID, day)
	if err != nil {
		u.log.Warnf("Failed to load held slot times for %s on %s: %+v", physiotherapistID, response.Date, err)
		return nil, err
	}
	held := make(map[int]bool, len(heldTimes))
	for _, t := range heldTimes {
		m, err := timeslot.ParseHHMM(t)
		if err != nil {
			u.log.Warnf("Skipping unparseable booking time %q: %+v", t, err)
			continue
		}
		held[m] = true
	}

	// Same-day bookings need at least the lead-time buffer of notice.
	cutoff := -1
	if day.Equal(today) {
		buffered := now.Add(u.cfg.LeadTime)
		if buffered.Truncate(24 * time.Hour).After(day) {
			// The buffer crosses midnight: nothing left today.
			cutoff = timeslot.MinutesPerDay
		} else {
			cutoff = buffered.Hour()*60 + buffered.Minute()
		}
	}

	slots := make([]string, 0, len(starts))
	for _, start := range starts {
		if held[start] || start < cutoff {
			continue
		}
		slots = append(slots, timeslot.FormatHHMM(start))
	}

	u.slotCache.Set(ctx, physiotherapistID, response.Date, slots)

	response.Slots = slots
	response.Total = len(slots)
	return response, nil
}

// openRanges resolves the therapist's open time ranges for one date.
// Extra-hours overrides extend the weekly template and blocking overrides
// win over everything for the range they cover.
func (u *slotUsecase) openRanges(ctx context.Context, physiotherapistID uuid.UUID, day time.Time) ([]timeslot.Range, error) {
	var open []timeslot.Range

	templates, err := u.availabilityRepo.FindTemplatesByDay(u.db.WithContext(ctx), physiotherapistID, entity.WeekdayToDayOfWeek(day.Weekday()))
	if err != nil {
		u.log.Warnf("Failed to load availability templates: %+v", err)
		return nil, err
	}
	for _, t := range templates {
		r, err := parseRange(t.StartTime, t.EndTime)
		if err != nil {
			u.log.Warnf("Skipping malformed template %d (%s-%s): %+v", t.ID, t.StartTime, t.EndTime, err)
			continue
		}
		open = append(open, r)
	}

	overrides, err := u.availabilityRepo.FindOverridesByDate(u.db.WithContext(ctx), physiotherapistID, day)
	if err != nil {
		u.log.Warnf("Failed to load availability overrides: %+v", err)
		return nil, err
	}

	var blocks []timeslot.Range
	for _, o := range overrides {
		r, err := parseRange(o.StartTime, o.EndTime)
		if err != nil {
			u.log.Warnf("Skipping malformed override %d (%s-%s): %+v", o.ID, o.StartTime, o.EndTime, err)
			continue
		}
		if o.IsAvailable {
			open = append(open, r)
		} else {
			blocks = append(blocks, r)
		}
	}

	open = timeslot.MergeRanges(open)
	for _, b := range blocks {
		open = timeslot.SubtractRange(open, b)
	}
	return open, nil
}

func parseRange(start, end string) (timeslot.Range, error) {
	s, err := timeslot.ParseHHMM(start)
	if err != nil {
		return timeslot.Range{}, err
	}
	e, err := timeslot.ParseHHMM(end)
	if err != nil {
		return timeslot.Range{}, err
	}
	return timeslot.Range{Start: s, End: e}, nil
}
