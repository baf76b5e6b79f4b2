package usecase

import (
	"context"

	"physio-marketplace/internal/converter"
	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/domain/entity"
	"physio-marketplace/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ClinicUsecase interface {
	CreateClinic(ctx context.Context, req *dto.CreateClinicRequest) (*dto.ClinicResponse, error)
	GetClinics(ctx context.Context) (*dto.ClinicListResponse, error)
}

type clinicUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	clinicRepo repository.ClinicRepository
}

func NewClinicUsecase(db *gorm.DB, log *logrus.Logger, clinicRepo repository.ClinicRepository) ClinicUsecase {
	return &clinicUsecase{
		db:         db,
		log:        log,
		clinicRepo: clinicRepo,
	}
}

func (u *clinicUsecase) CreateClinic(ctx context.Context, req *dto.CreateClinicRequest) (*dto.ClinicResponse, error) {
	clinic := &entity.Clinic{
		Name:         req.Name,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		Eircode:      req.Eircode,
		IsActive:     true,
	}

	if err := u.clinicRepo.Create(u.db.WithContext(ctx), clinic); err != nil {
		u.log.Warnf("Failed to create clinic: %+v", err)
		return nil, err
	}

	return converter.ClinicToResponse(clinic), nil
}

// GetClinics lists active clinics for the public booking flow.
func (u *clinicUsecase) GetClinics(ctx context.Context) (*dto.ClinicListResponse, error) {
	clinics, err := u.clinicRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list clinics: %+v", err)
		return nil, err
	}

	return &dto.ClinicListResponse{
		Clinics: converter.ClinicsToResponses(clinics),
		Total:   len(clinics),
	}, nil
}
