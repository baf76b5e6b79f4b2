package usecase

import (
	"context"
	"errors"

	"physio-marketplace/internal/converter"
	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/delivery/http/middleware"
	"physio-marketplace/internal/domain/entity"
	"physio-marketplace/internal/domain/repository"
	"physio-marketplace/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrTherapistAlreadyVerified   = errors.New("physiotherapist is already verified")
	ErrTherapistHasActiveBookings = errors.New("physiotherapist still has active bookings")
)

type TherapistUsecase interface {
	SearchTherapists(ctx context.Context, filter *entity.TherapistFilter) (*dto.TherapistListResponse, error)
	GetTherapist(ctx context.Context, id uuid.UUID) (*dto.TherapistResponse, error)
	VerifyTherapist(ctx context.Context, id uuid.UUID) error
	DeleteTherapist(ctx context.Context, id uuid.UUID) error
}

type therapistUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	physioRepo       repository.PhysiotherapistRepository
	bookingRepo      repository.BookingRepository
	statusRepo       repository.BookingStatusRepository
	availabilityRepo repository.AvailabilityRepository
	auditService     service.AuditService
	slotCache        *service.SlotCache
}

func NewTherapistUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	physioRepo repository.PhysiotherapistRepository,
	bookingRepo repository.BookingRepository,
	statusRepo repository.BookingStatusRepository,
	availabilityRepo repository.AvailabilityRepository,
	auditService service.AuditService,
	slotCache *service.SlotCache,
) TherapistUsecase {
	return &therapistUsecase{
		db:               db,
		log:              log,
		physioRepo:       physioRepo,
		bookingRepo:      bookingRepo,
		statusRepo:       statusRepo,
		availabilityRepo: availabilityRepo,
		auditService:     auditService,
		slotCache:        slotCache,
	}
}

// SearchTherapists lists verified, available therapists matching the filter.
func (u *therapistUsecase) SearchTherapists(ctx context.Context, filter *entity.TherapistFilter) (*dto.TherapistListResponse, error) {
	profiles, err := u.physioRepo.FindAvailable(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to search therapists: %+v", err)
		return nil, err
	}

	return &dto.TherapistListResponse{
		Therapists: converter.TherapistsToResponses(profiles),
		Total:      len(profiles),
	}, nil
}

func (u *therapistUsecase) GetTherapist(ctx context.Context, id uuid.UUID) (*dto.TherapistResponse, error) {
	profile, err := u.physioRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find therapist %s: %+v", id, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrTherapistNotFound
	}

	return converter.TherapistToResponse(profile), nil
}

// VerifyTherapist flips a profile to verified and available. Admin only.
func (u *therapistUsecase) VerifyTherapist(ctx context.Context, id uuid.UUID) error {
	adminID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	profile, err := u.physioRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find therapist %s: %+v", id, err)
		return err
	}
	if profile == nil {
		return ErrTherapistNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.physioRepo.MarkVerified(tx, id)
	if err != nil {
		u.log.Warnf("Failed to verify therapist %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrTherapistAlreadyVerified
	}

	u.auditService.Log(tx, &adminID, entity.AuditActionTherapistVerify, entity.JSON{
		"physiotherapist_id": id.String(),
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Therapist verified: id=%s", id)
	return nil
}

// DeleteTherapist removes a profile together with its availability rules and
// terminal bookings. Refused while pending or confirmed bookings exist so no
// patient loses a live appointment.
func (u *therapistUsecase) DeleteTherapist(ctx context.Context, id uuid.UUID) error {
	adminID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	profile, err := u.physioRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find therapist %s: %+v", id, err)
		return err
	}
	if profile == nil {
		return ErrTherapistNotFound
	}

	activeIDs, terminalIDs, err := u.partitionStatusIDs(ctx)
	if err != nil {
		return err
	}

	active, err := u.bookingRepo.CountActiveByPhysiotherapist(u.db.WithContext(ctx), id, activeIDs)
	if err != nil {
		u.log.Warnf("Failed to count active bookings for therapist %s: %+v", id, err)
		return err
	}
	if active > 0 {
		return ErrTherapistHasActiveBookings
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.availabilityRepo.DeleteTemplatesByPhysiotherapist(tx, id); err != nil {
		u.log.Warnf("Failed to delete templates for therapist %s: %+v", id, err)
		return err
	}
	if err := u.availabilityRepo.DeleteOverridesByPhysiotherapist(tx, id); err != nil {
		u.log.Warnf("Failed to delete overrides for therapist %s: %+v", id, err)
		return err
	}
	if err := u.bookingRepo.DeleteTerminalByPhysiotherapist(tx, id, terminalIDs); err != nil {
		u.log.Warnf("Failed to delete terminal bookings for therapist %s: %+v", id, err)
		return err
	}
	if err := u.physioRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete therapist %s: %+v", id, err)
		return err
	}

	u.auditService.Log(tx, &adminID, entity.AuditActionTherapistDelete, entity.JSON{
		"physiotherapist_id": id.String(),
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.slotCache.InvalidateAll(ctx, id)

	u.log.Infof("Therapist deleted: id=%s", id)
	return nil
}

// partitionStatusIDs splits the status reference rows into slot-holding and
// terminal sets.
func (u *therapistUsecase) partitionStatusIDs(ctx context.Context) (active []int, terminal []int, err error) {
	activeNames := []string{entity.BookingStatusPending, entity.BookingStatusConfirmed}
	terminalNames := []string{entity.BookingStatusCancelled, entity.BookingStatusCompleted, entity.BookingStatusPaymentFailed}

	for _, name := range activeNames {
		status, err := u.statusRepo.FindByName(u.db.WithContext(ctx), name)
		if err != nil {
			return nil, nil, err
		}
		if status == nil {
			return nil, nil, ErrStatusNotSeeded
		}
		active = append(active, status.ID)
	}
	for _, name := range terminalNames {
		status, err := u.statusRepo.FindByName(u.db.WithContext(ctx), name)
		if err != nil {
			return nil, nil, err
		}
		if status == nil {
			return nil, nil, ErrStatusNotSeeded
		}
		terminal = append(terminal, status.ID)
	}
	return active, terminal, nil
}
