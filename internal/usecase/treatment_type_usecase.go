package usecase

import (
	"context"
	"errors"

	"physio-marketplace/internal/converter"
	"physio-marketplace/internal/delivery/dto"
	"physio-marketplace/internal/domain/entity"
	"physio-marketplace/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrTreatmentTypeNotFound = errors.New("treatment type not found")
	ErrTreatmentTypeExists   = errors.New("treatment type name already exists")
)

type TreatmentTypeUsecase interface {
	CreateTreatmentType(ctx context.Context, req *dto.CreateTreatmentTypeRequest) (*dto.TreatmentTypeResponse, error)
	UpdateTreatmentType(ctx context.Context, id int, req *dto.UpdateTreatmentTypeRequest) (*dto.TreatmentTypeResponse, error)
	GetTreatmentTypes(ctx context.Context) (*dto.TreatmentTypeListResponse, error)
	DeleteTreatmentType(ctx context.Context, id int) error
}

type treatmentTypeUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	treatmentTypeRepo repository.TreatmentTypeRepository
}

func NewTreatmentTypeUsecase(db *gorm.DB, log *logrus.Logger, treatmentTypeRepo repository.TreatmentTypeRepository) TreatmentTypeUsecase {
	return &treatmentTypeUsecase{
		db:                db,
		log:               log,
		treatmentTypeRepo: treatmentTypeRepo,
	}
}

func (u *treatmentTypeUsecase) CreateTreatmentType(ctx context.Context, req *dto.CreateTreatmentTypeRequest) (*dto.TreatmentTypeResponse, error) {
	treatmentType := &entity.TreatmentType{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}

	if err := u.treatmentTypeRepo.Create(u.db.WithContext(ctx), treatmentType); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrTreatmentTypeExists
		}
		u.log.Warnf("Failed to create treatment type: %+v", err)
		return nil, err
	}

	return converter.TreatmentTypeToResponse(treatmentType), nil
}

func (u *treatmentTypeUsecase) UpdateTreatmentType(ctx context.Context, id int, req *dto.UpdateTreatmentTypeRequest) (*dto.TreatmentTypeResponse, error) {
	treatmentType, err := u.treatmentTypeRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find treatment type %d: %+v", id, err)
		return nil, err
	}
	if treatmentType == nil {
		return nil, ErrTreatmentTypeNotFound
	}

	if req.Name != "" {
		treatmentType.Name = req.Name
	}
	if req.Description != "" {
		treatmentType.Description = req.Description
	}
	if req.IsActive != nil {
		treatmentType.IsActive = *req.IsActive
	}

	if err := u.treatmentTypeRepo.Update(u.db.WithContext(ctx), treatmentType); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrTreatmentTypeExists
		}
		u.log.Warnf("Failed to update treatment type %d: %+v", id, err)
		return nil, err
	}

	return converter.TreatmentTypeToResponse(treatmentType), nil
}

func (u *treatmentTypeUsecase) GetTreatmentTypes(ctx context.Context) (*dto.TreatmentTypeListResponse, error) {
	treatmentTypes, err := u.treatmentTypeRepo.FindActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list treatment types: %+v", err)
		return nil, err
	}

	return &dto.TreatmentTypeListResponse{
		TreatmentTypes: converter.TreatmentTypesToResponses(treatmentTypes),
		Total:          len(treatmentTypes),
	}, nil
}

func (u *treatmentTypeUsecase) DeleteTreatmentType(ctx context.Context, id int) error {
	rows, err := u.treatmentTypeRepo.Delete(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to delete treatment type %d: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrTreatmentTypeNotFound
	}
	return nil
}
