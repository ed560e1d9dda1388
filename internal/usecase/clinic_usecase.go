package usecase

import (
	"context"
	"errors"

	"clinisys-school/internal/converter"
	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/domain/entity"
	"clinisys-school/internal/domain/repository"
	"clinisys-school/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrClinicCodeExists = errors.New("clinic code already exists")

type ClinicUsecase interface {
	Create(ctx context.Context, req *dto.CreateClinicRequest) (*dto.ClinicResponse, error)
	Get(ctx context.Context, id uint) (*dto.ClinicResponse, error)
	List(ctx context.Context) ([]dto.ClinicResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateClinicRequest) (*dto.ClinicResponse, error)
	Delete(ctx context.Context, id uint) error
}

type clinicUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	clinicRepo  repository.ClinicRepository
	profileRepo repository.ProfileRepository
	audit       service.AuditService
}

func NewClinicUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clinicRepo repository.ClinicRepository,
	profileRepo repository.ProfileRepository,
	audit service.AuditService,
) ClinicUsecase {
	return &clinicUsecase{
		db:          db,
		log:         log,
		clinicRepo:  clinicRepo,
		profileRepo: profileRepo,
		audit:       audit,
	}
}

func (u *clinicUsecase) Create(ctx context.Context, req *dto.CreateClinicRequest) (*dto.ClinicResponse, error) {
	db := u.db.WithContext(ctx)

	existing, err := u.clinicRepo.FindByCode(db, req.Code)
	if err != nil {
		u.log.Warnf("Failed to check existing clinic code: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrClinicCodeExists
	}

	clinic := &entity.Clinic{Code: req.Code, Name: req.Name}
	if err := u.clinicRepo.Create(db, clinic); err != nil {
		if isDuplicateKeyError(err, "code") {
			return nil, ErrClinicCodeExists
		}
		u.log.Warnf("Failed to create clinic: %+v", err)
		return nil, err
	}

	u.audit.Record(db, nil, entity.AuditActionClinicCreate, entity.JSON{"clinic_id": clinic.ID, "code": clinic.Code})

	return converter.ClinicToResponse(clinic), nil
}

func (u *clinicUsecase) Get(ctx context.Context, id uint) (*dto.ClinicResponse, error) {
	clinic, err := u.clinicRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find clinic: %+v", err)
		return nil, err
	}
	if clinic == nil {
		return nil, ErrClinicNotFound
	}
	return converter.ClinicToResponse(clinic), nil
}

func (u *clinicUsecase) List(ctx context.Context) ([]dto.ClinicResponse, error) {
	clinics, err := u.clinicRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list clinics: %+v", err)
		return nil, err
	}
	return converter.ClinicsToResponses(clinics), nil
}

func (u *clinicUsecase) Update(ctx context.Context, id uint, req *dto.UpdateClinicRequest) (*dto.ClinicResponse, error) {
	db := u.db.WithContext(ctx)

	clinic, err := u.clinicRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find clinic: %+v", err)
		return nil, err
	}
	if clinic == nil {
		return nil, ErrClinicNotFound
	}

	if req.Code != nil && *req.Code != clinic.Code {
		existing, err := u.clinicRepo.FindByCode(db, *req.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrClinicCodeExists
		}
		clinic.Code = *req.Code
	}
	if req.Name != nil {
		clinic.Name = *req.Name
	}

	if err := u.clinicRepo.Update(db, clinic); err != nil {
		if isDuplicateKeyError(err, "code") {
			return nil, ErrClinicCodeExists
		}
		u.log.Warnf("Failed to update clinic: %+v", err)
		return nil, err
	}

	u.audit.Record(db, nil, entity.AuditActionClinicUpdate, entity.JSON{"clinic_id": clinic.ID})

	return converter.ClinicToResponse(clinic), nil
}

// Delete removes a clinic. Profile references are nulled out by the
// SET NULL foreign key policy, so instructors and students keep their
// profiles and lose only the clinic link.
func (u *clinicUsecase) Delete(ctx context.Context, id uint) error {
	db := u.db.WithContext(ctx)

	clinic, err := u.clinicRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find clinic: %+v", err)
		return err
	}
	if clinic == nil {
		return ErrClinicNotFound
	}

	referencing, err := u.profileRepo.CountByClinic(db, clinic.ID)
	if err != nil {
		u.log.Warnf("Failed to count clinic references: %+v", err)
		return err
	}

	if err := u.clinicRepo.Delete(db, clinic); err != nil {
		u.log.Warnf("Failed to delete clinic: %+v", err)
		return err
	}

	u.audit.Record(db, nil, entity.AuditActionClinicDelete, entity.JSON{"clinic_id": clinic.ID, "unlinked_profiles": referencing})

	return nil
}
