package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"physio-marketplace/config"
	"physio-marketplace/internal/converter"
	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/delivery/http/middleware"
	"physio-marketplace/internal/domain/entity"
	"physio-marketplace/internal/domain/repository"
	"physio-marketplace/internal/service"
	"physio-marketplace/pkg/timeslot"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound           = errors.New("booking not found")
	ErrBookingNotOwned           = errors.New("booking does not belong to you")
	ErrSlotAlreadyBooked         = errors.New("this time slot is already booked")
	ErrClinicNotFound            = errors.New("clinic not found")
	ErrClinicInactive            = errors.New("clinic is not active")
	ErrTreatmentTypeInactive     = errors.New("treatment type is not active")
	ErrPastAppointment           = errors.New("cannot book an appointment in the past")
	ErrInvalidAppointmentTime    = errors.New("invalid appointment time, use HH:MM or hh:MM AM/PM")
	ErrInvalidAmount             = errors.New("invalid total amount")
	ErrReferenceGenerationFailed = errors.New("could not generate a unique booking reference")
	ErrBookingAlreadyCancelled   = errors.New("booking is already cancelled")
	ErrBookingAlreadyCompleted   = errors.New("booking is already completed")
	ErrBookingPaidContactSupport = errors.New("booking has a completed payment, contact support to cancel")
	ErrBookingStateConflict      = errors.New("booking changed state concurrently, reload and retry")
	ErrBookingNotConfirmed       = errors.New("only confirmed bookings can be completed")
	ErrStatusNotSeeded           = errors.New("booking status reference data missing")
)

// referenceMaxAttempts bounds collision retries for booking references.
const referenceMaxAttempts = 10

type BookingUsecase interface {
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID) error
	CompleteBooking(ctx context.Context, bookingID uuid.UUID) error
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error)
	GetTherapistBookings(ctx context.Context) (*dto.BookingListResponse, error)
}

type bookingUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	bookingRepo       repository.BookingRepository
	statusRepo        repository.BookingStatusRepository
	physioRepo        repository.PhysiotherapistRepository
	clinicRepo        repository.ClinicRepository
	userRepo          repository.UserRepository
	treatmentTypeRepo repository.TreatmentTypeRepository
	auditService      service.AuditService
	slotCache         *service.SlotCache
	cfg               config.BookingConfig

	now func() time.Time
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bookingRepo repository.BookingRepository,
	statusRepo repository.BookingStatusRepository,
	physioRepo repository.PhysiotherapistRepository,
	clinicRepo repository.ClinicRepository,
	userRepo repository.UserRepository,
	treatmentTypeRepo repository.TreatmentTypeRepository,
	auditService service.AuditService,
	slotCache *service.SlotCache,
	cfg config.BookingConfig,
) BookingUsecase {
	return &bookingUsecase{
		db:                db,
		log:               log,
		bookingRepo:       bookingRepo,
		statusRepo:        statusRepo,
		physioRepo:        physioRepo,
		clinicRepo:        clinicRepo,
		userRepo:          userRepo,
		treatmentTypeRepo: treatmentTypeRepo,
		auditService:      auditService,
		slotCache:         slotCache,
		cfg:               cfg,
		now:               time.Now,
	}
}

// CreateBooking creates a pending booking holding its time slot.
//
// The race between two patients wanting the same slot is settled by the
// unique index on slot_key, not by the availability pre-check: the insert
// that loses gets a unique violation which maps to ErrSlotAlreadyBooked.
func (u *bookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	patientID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	// Step 1: therapist must exist, be verified and accepting bookings
	profile, err := u.physioRepo.FindByID(u.db.WithContext(ctx), req.PhysiotherapistID)
	if err != nil {
		u.log.Warnf("Failed to find physiotherapist %s: %+v", req.PhysiotherapistID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrTherapistNotFound
	}
	if !profile.IsVerified || !profile.IsAvailable {
		return nil, ErrTherapistUnavailable
	}

	// Step 2: patient must exist and be active
	patient, err := u.userRepo.FindByID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil || !patient.IsActive {
		return nil, ErrUserNotFound
	}

	// Step 3: clinic must exist and be active
	clinic, err := u.clinicRepo.FindByID(u.db.WithContext(ctx), req.ClinicID)
	if err != nil {
		u.log.Warnf("Failed to find clinic %d: %+v", req.ClinicID, err)
		return nil, err
	}
	if clinic == nil {
		return nil, ErrClinicNotFound
	}
	if !clinic.IsActive {
		return nil, ErrClinicInactive
	}

	if req.TreatmentTypeID != nil {
		treatmentType, err := u.treatmentTypeRepo.FindByID(u.db.WithContext(ctx), *req.TreatmentTypeID)
		if err != nil {
			u.log.Warnf("Failed to find treatment type %d: %+v", *req.TreatmentTypeID, err)
			return nil, err
		}
		if treatmentType == nil {
			return nil, ErrTreatmentTypeNotFound
		}
		if !treatmentType.IsActive {
			return nil, ErrTreatmentTypeInactive
		}
	}

	// Step 4: appointment slot must be parseable and not in the past.
	// Times are normalized to 24-hour form here, the single write boundary.
	day, err := time.ParseInLocation("2006-01-02", req.AppointmentDate, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	appointmentTime, err := timeslot.Normalize24(req.AppointmentTime)
	if err != nil {
		return nil, ErrInvalidAppointmentTime
	}

	now := u.now().UTC()
	today := now.Truncate(24 * time.Hour)
	if day.Before(today) {
		return nil, ErrPastAppointment
	}
	if day.Equal(today) {
		startMinutes, _ := timeslot.ParseHHMM(appointmentTime)
		if startMinutes < now.Hour()*60+now.Minute() {
			return nil, ErrPastAppointment
		}
	}

	// Step 5: cheap pre-check against currently held slots. This is advisory
	// only; the unique index is the authority under concurrency.
	heldTimes, err := u.bookingRepo.FindSlotHoldingTimes(u.db.WithContext(ctx), req.PhysiotherapistID, day)
	if err != nil {
		u.log.Warnf("Failed to check held slots: %+v", err)
		return nil, err
	}
	for _, held := range heldTimes {
		if held == appointmentTime {
			return nil, ErrSlotAlreadyBooked
		}
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = 60
	}

	amount, err := u.resolveAmount(req.TotalAmount, profile.HourlyRate, duration)
	if err != nil {
		return nil, err
	}

	reference, err := u.generateBookingReference(ctx)
	if err != nil {
		return nil, err
	}

	pendingStatus, err := u.statusRepo.FindByName(u.db.WithContext(ctx), entity.BookingStatusPending)
	if err != nil {
		u.log.Warnf("Failed to find pending status: %+v", err)
		return nil, err
	}
	if pendingStatus == nil {
		return nil, ErrStatusNotSeeded
	}

	slotKey := entity.BuildSlotKey(req.PhysiotherapistID, day, appointmentTime)
	booking := &entity.Booking{
		BookingReference:  reference,
		PatientID:         patientID,
		PhysiotherapistID: req.PhysiotherapistID,
		ClinicID:          req.ClinicID,
		AppointmentDate:   day,
		AppointmentTime:   appointmentTime,
		DurationMinutes:   duration,
		StatusID:          pendingStatus.ID,
		TreatmentTypeID:   req.TreatmentTypeID,
		TotalAmount:       amount,
		PatientNotes:      req.PatientNotes,
		SlotKey:           &slotKey,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.bookingRepo.Create(tx, booking); err != nil {
		if isDuplicateKeyError(err, "slot_key") {
			return nil, ErrSlotAlreadyBooked
		}
		if isDuplicateKeyError(err, "reference") {
			return nil, ErrReferenceGenerationFailed
		}
		u.log.Warnf("Failed to insert booking: %+v", err)
		return nil, err
	}

	u.auditService.Log(tx, &patientID, entity.AuditActionBookingCreate, entity.JSON{
		"booking_id":         booking.ID.String(),
		"booking_reference":  reference,
		"physiotherapist_id": req.PhysiotherapistID.String(),
		"appointment_date":   booking.AppointmentDate.Format("2006-01-02"),
		"appointment_time":   appointmentTime,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.slotCache.Invalidate(ctx, req.PhysiotherapistID, day.Format("2006-01-02"))

	// Reload with relations for the denormalized response.
	full, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), booking.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload booking %s: %+v", booking.ID, err)
		return converter.BookingToResponse(booking), nil
	}

	u.log.Infof("Booking created: id=%s, reference=%s, therapist=%s, slot=%s %s",
		booking.ID, reference, req.PhysiotherapistID, booking.AppointmentDate.Format("2006-01-02"), appointmentTime)
	return converter.BookingToResponse(full), nil
}

// CancelBooking cancels a pending or confirmed booking owned by the caller
// and frees its slot. Bookings with a completed payment are refused so the
// refund path stays manual.
func (u *bookingUsecase) CancelBooking(ctx context.Context, bookingID uuid.UUID) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	booking, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}
	if booking.PatientID != userID {
		return ErrBookingNotOwned
	}

	switch booking.Status.Name {
	case entity.BookingStatusCancelled:
		return ErrBookingAlreadyCancelled
	case entity.BookingStatusCompleted:
		return ErrBookingAlreadyCompleted
	}
	if booking.HasCompletedPayment() {
		return ErrBookingPaidContactSupport
	}

	fromIDs, toID, err := u.resolveTransition(ctx,
		[]string{entity.BookingStatusPending, entity.BookingStatusConfirmed},
		entity.BookingStatusCancelled)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Single guarded update: the WHERE clause loses gracefully if a payment
	// confirmation or another cancel landed first.
	rows, err := u.bookingRepo.UpdateStatusGuarded(tx, bookingID, fromIDs, toID, true)
	if err != nil {
		u.log.Warnf("Failed to cancel booking %s: %+v", bookingID, err)
		return err
	}
	if rows == 0 {
		return ErrBookingStateConflict
	}

	u.auditService.Log(tx, &userID, entity.AuditActionBookingCancel, entity.JSON{
		"booking_id":        booking.ID.String(),
		"booking_reference": booking.BookingReference,
		"previous_status":   booking.Status.Name,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.slotCache.Invalidate(ctx, booking.PhysiotherapistID, booking.AppointmentDate.Format("2006-01-02"))

	u.log.Infof("Booking cancelled: id=%s, reference=%s", bookingID, booking.BookingReference)
	return nil
}

// CompleteBooking marks a confirmed booking as completed. Only the therapist
// the booking belongs to may do this.
func (u *bookingUsecase) CompleteBooking(ctx context.Context, bookingID uuid.UUID) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	profile, err := u.physioRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find therapist profile for user %s: %+v", userID, err)
		return err
	}
	if profile == nil {
		return ErrTherapistNotFound
	}

	booking, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}
	if booking.PhysiotherapistID != profile.ID {
		return ErrBookingNotOwned
	}

	fromIDs, toID, err := u.resolveTransition(ctx,
		[]string{entity.BookingStatusConfirmed},
		entity.BookingStatusCompleted)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.bookingRepo.UpdateStatusGuarded(tx, bookingID, fromIDs, toID, false)
	if err != nil {
		u.log.Warnf("Failed to complete booking %s: %+v", bookingID, err)
		return err
	}
	if rows == 0 {
		return ErrBookingNotConfirmed
	}

	u.auditService.Log(tx, &userID, entity.AuditActionBookingComplete, entity.JSON{
		"booking_id":        booking.ID.String(),
		"booking_reference": booking.BookingReference,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Booking completed: id=%s, reference=%s", bookingID, booking.BookingReference)
	return nil
}

func (u *bookingUsecase) GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	booking, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	if booking.PatientID != userID && booking.Physiotherapist.UserID != userID {
		return nil, ErrBookingNotOwned
	}

	return converter.BookingToResponse(booking), nil
}

// GetMyBookings returns all bookings for the logged-in patient
func (u *bookingUsecase) GetMyBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	bookings, err := u.bookingRepo.FindByPatientID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find bookings for patient %s: %+v", userID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// GetTherapistBookings returns all bookings for the logged-in therapist
func (u *bookingUsecase) GetTherapistBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	profile, err := u.physioRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find therapist profile for user %s: %+v", userID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrTherapistNotFound
	}

	bookings, err := u.bookingRepo.FindByPhysiotherapistID(u.db.WithContext(ctx), profile.ID)
	if err != nil {
		u.log.Warnf("Failed to find bookings for therapist %s: %+v", profile.ID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// resolveAmount uses the requested amount when given, otherwise prices the
// session off the therapist's hourly rate.
func (u *bookingUsecase) resolveAmount(requested string, hourlyRate decimal.Decimal, durationMinutes int) (decimal.Decimal, error) {
	if requested != "" {
		amount, err := decimal.NewFromString(requested)
		if err != nil || amount.IsNegative() {
			return decimal.Zero, ErrInvalidAmount
		}
		return amount, nil
	}
	return hourlyRate.Mul(decimal.NewFromInt(int64(durationMinutes))).Div(decimal.NewFromInt(60)).Round(2), nil
}

// resolveTransition maps status names to IDs for a guarded update.
func (u *bookingUsecase) resolveTransition(ctx context.Context, fromNames []string, toName string) ([]int, int, error) {
	fromIDs := make([]int, 0, len(fromNames))
	for _, name := range fromNames {
		status, err := u.statusRepo.FindByName(u.db.WithContext(ctx), name)
		if err != nil {
			return nil, 0, err
		}
		if status == nil {
			return nil, 0, ErrStatusNotSeeded
		}
		fromIDs = append(fromIDs, status.ID)
	}

	to, err := u.statusRepo.FindByName(u.db.WithContext(ctx), toName)
	if err != nil {
		return nil, 0, err
	}
	if to == nil {
		return nil, 0, ErrStatusNotSeeded
	}
	return fromIDs, to.ID, nil
}

// generateBookingReference builds a short human-readable reference:
// "BK" + base-36 timestamp fragment + 6 random base-36 chars, uppercased.
// Collisions are rare but possible, so it checks the store and retries.
func (u *bookingUsecase) generateBookingReference(ctx context.Context) (string, error) {
	const randomChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	for attempt := 0; attempt < referenceMaxAttempts; attempt++ {
		ts := strconv.FormatInt(u.now().UnixMilli(), 36)
		if len(ts) > 8 {
			ts = ts[len(ts)-8:]
		}

		buf := make([]byte, 6)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for i, b := range buf {
			buf[i] = randomChars[int(b)%len(randomChars)]
		}

		reference := strings.ToUpper(fmt.Sprintf("BK%s%s", ts, buf))
		if len(reference) > 20 {
			reference = reference[:20]
		}

		exists, err := u.bookingRepo.ReferenceExists(u.db.WithContext(ctx), reference)
		if err != nil {
			u.log.Warnf("Failed to check booking reference: %+v", err)
			return "", err
		}
		if !exists {
			return reference, nil
		}
	}

	return "", ErrReferenceGenerationFailed
}
