package usecase

import (
	"context"
	"errors"
	"time"

	"physio-marketplace/internal/converter"
	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/delivery/http/middleware"
	"physio-marketplace/internal/domain/entity"
	"physio-marketplace/internal/domain/repository"
	"physio-marketplace/internal/service"
	"physio-marketplace/pkg/timeslot"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidTimeRange   = errors.New("start time must be before end time, both HH:MM")
	ErrTemplateNotFound   = errors.New("availability template not found")
	ErrOverrideNotFound   = errors.New("availability override not found")
	ErrNoTherapistProfile = errors.New("no therapist profile for this user")
)

type AvailabilityUsecase interface {
	CreateTemplate(ctx context.Context, req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error)
	CreateOverride(ctx context.Context, req *dto.CreateOverrideRequest) (*dto.OverrideResponse, error)
	GetMyAvailability(ctx context.Context) (*dto.AvailabilityResponse, error)
	DeleteTemplate(ctx context.Context, templateID int) error
	DeleteOverride(ctx context.Context, overrideID int) error
}

type availabilityUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	availabilityRepo repository.AvailabilityRepository
	physioRepo       repository.PhysiotherapistRepository
	clinicRepo       repository.ClinicRepository
	auditService     service.AuditService
	slotCache        *service.SlotCache
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	availabilityRepo repository.AvailabilityRepository,
	physioRepo repository.PhysiotherapistRepository,
	clinicRepo repository.ClinicRepository,
	auditService service.AuditService,
	slotCache *service.SlotCache,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:               db,
		log:              log,
		availabilityRepo: availabilityRepo,
		physioRepo:       physioRepo,
		clinicRepo:       clinicRepo,
		auditService:     auditService,
		slotCache:        slotCache,
	}
}

func (u *availabilityUsecase) CreateTemplate(ctx context.Context, req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	profile, userID, err := u.requireProfile(ctx)
	if err != nil {
		return nil, err
	}

	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if err := u.requireActiveClinic(ctx, req.ClinicID); err != nil {
		return nil, err
	}

	template := &entity.AvailabilityTemplate{
		PhysiotherapistID: profile.ID,
		DayOfWeek:         *req.DayOfWeek,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		ClinicID:          req.ClinicID,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.availabilityRepo.CreateTemplate(tx, template); err != nil {
		u.log.Warnf("Failed to create availability template: %+v", err)
		return nil, err
	}

	u.auditService.Log(tx, &userID, entity.AuditActionTemplateChange, entity.JSON{
		"template_id": template.ID,
		"day_of_week": template.DayOfWeek,
		"start_time":  template.StartTime,
		"end_time":    template.EndTime,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// A template change touches every future date on that weekday.
	u.slotCache.InvalidateAll(ctx, profile.ID)

	return converter.TemplateToResponse(template), nil
}

func (u *availabilityUsecase) CreateOverride(ctx context.Context, req *dto.CreateOverrideRequest) (*dto.OverrideResponse, error) {
	profile, userID, err := u.requireProfile(ctx)
	if err != nil {
		return nil, err
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if err := u.requireActiveClinic(ctx, req.ClinicID); err != nil {
		return nil, err
	}

	override := &entity.SpecificAvailability{
		PhysiotherapistID: profile.ID,
		Date:              date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		ClinicID:          req.ClinicID,
		IsAvailable:       *req.IsAvailable,
		Reason:            req.Reason,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.availabilityRepo.CreateOverride(tx, override); err != nil {
		u.log.Warnf("Failed to create availability override: %+v", err)
		return nil, err
	}

	u.auditService.Log(tx, &userID, entity.AuditActionOverrideChange, entity.JSON{
		"override_id":  override.ID,
		"date":         req.Date,
		"start_time":   override.StartTime,
		"end_time":     override.EndTime,
		"is_available": override.IsAvailable,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.slotCache.Invalidate(ctx, profile.ID, req.Date)

	return converter.OverrideToResponse(override), nil
}

func (u *availabilityUsecase) GetMyAvailability(ctx context.Context) (*dto.AvailabilityResponse, error) {
	profile, _, err := u.requireProfile(ctx)
	if err != nil {
		return nil, err
	}

	templates, err := u.availabilityRepo.FindTemplatesByPhysiotherapist(u.db.WithContext(ctx), profile.ID)
	if err != nil {
		u.log.Warnf("Failed to list availability templates: %+v", err)
		return nil, err
	}

	overrides, err := u.availabilityRepo.FindOverridesByPhysiotherapist(u.db.WithContext(ctx), profile.ID)
	if err != nil {
		u.log.Warnf("Failed to list availability overrides: %+v", err)
		return nil, err
	}

	return &dto.AvailabilityResponse{
		Templates: converter.TemplatesToResponses(templates),
		Overrides: converter.OverridesToResponses(overrides),
	}, nil
}

func (u *availabilityUsecase) DeleteTemplate(ctx context.Context, templateID int) error {
	profile, userID, err := u.requireProfile(ctx)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.availabilityRepo.DeleteTemplate(tx, profile.ID, templateID)
	if err != nil {
		u.log.Warnf("Failed to delete availability template %d: %+v", templateID, err)
		return err
	}
	if rows == 0 {
		return ErrTemplateNotFound
	}

	u.auditService.Log(tx, &userID, entity.AuditActionTemplateChange, entity.JSON{
		"template_id": templateID,
		"deleted":     true,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.slotCache.InvalidateAll(ctx, profile.ID)
	return nil
}

func (u *availabilityUsecase) DeleteOverride(ctx context.Context, overrideID int) error {
	profile, userID, err := u.requireProfile(ctx)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.availabilityRepo.DeleteOverride(tx, profile.ID, overrideID)
	if err != nil {
		u.log.Warnf("Failed to delete availability override %d: %+v", overrideID, err)
		return err
	}
	if rows == 0 {
		return ErrOverrideNotFound
	}

	u.auditService.Log(tx, &userID, entity.AuditActionOverrideChange, entity.JSON{
		"override_id": overrideID,
		"deleted":     true,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.slotCache.InvalidateAll(ctx, profile.ID)
	return nil
}

// requireProfile resolves the logged-in therapist's profile.
func (u *availabilityUsecase) requireProfile(ctx context.Context) (*entity.PhysiotherapistProfile, uuid.UUID, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, uuid.Nil, errors.New("user not found in context")
	}

	profile, err := u.physioRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find therapist profile for user %s: %+v", userID, err)
		return nil, uuid.Nil, err
	}
	if profile == nil {
		return nil, uuid.Nil, ErrNoTherapistProfile
	}
	return profile, userID, nil
}

func (u *availabilityUsecase) requireActiveClinic(ctx context.Context, clinicID int) error {
	clinic, err := u.clinicRepo.FindByID(u.db.WithContext(ctx), clinicID)
	if err != nil {
		u.log.Warnf("Failed to find clinic %d: %+v", clinicID, err)
		return err
	}
	if clinic == nil {
		return ErrClinicNotFound
	}
	if !clinic.IsActive {
		return ErrClinicInactive
	}
	return nil
}

func validateTimeRange(start, end string) error {
	s, err := timeslot.ParseHHMM(start)
	if err != nil {
		return ErrInvalidTimeRange
	}
	e, err := timeslot.ParseHHMM(end)
	if err != nil {
		return ErrInvalidTimeRange
	}
	if s >= e {
		return ErrInvalidTimeRange
	}
	return nil
}
