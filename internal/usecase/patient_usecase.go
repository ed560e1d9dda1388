package usecase

import (
	"context"
	"errors"
	"time"

	"clinisys-school/internal/converter"
	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/domain/entity"
	"clinisys-school/internal/domain/repository"
	"clinisys-school/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound         = errors.New("patient not found")
	ErrPatientNationalIDExists = errors.New("national id already registered")
	ErrBirthDateInFuture       = errors.New("birth date may not be in the future")
	ErrInvalidBirthDate        = errors.New("invalid birth date, use YYYY-MM-DD")
)

type PatientUsecase interface {
	Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	Get(ctx context.Context, id uint) (*dto.PatientResponse, error)
	Search(ctx context.Context, query string, page, limit int) ([]dto.PatientResponse, int64, error)
	Update(ctx context.Context, id uint, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	Delete(ctx context.Context, id uint) error
}

type patientUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	patientRepo repository.PatientRepository
	audit       service.AuditService
	now         func() time.Time
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	audit service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		db:          db,
		log:         log,
		patientRepo: patientRepo,
		audit:       audit,
		now:         time.Now,
	}
}

func (u *patientUsecase) Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	birthDate, err := u.parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)

	existing, err := u.patientRepo.FindByNationalID(db, req.NationalID)
	if err != nil {
		u.log.Warnf("Failed to check existing national id: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrPatientNationalIDExists
	}

	patient := &entity.Patient{
		FullName:         req.FullName,
		NationalID:       req.NationalID,
		BirthDate:        birthDate,
		Phone:            req.Phone,
		AttendanceStatus: "registered",
	}

	if err := u.patientRepo.Create(db, patient); err != nil {
		if isDuplicateKeyError(err, "national_id") {
			return nil, ErrPatientNationalIDExists
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	u.audit.Record(db, nil, entity.AuditActionPatientCreate, entity.JSON{"patient_id": patient.ID})

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) Get(ctx context.Context, id uint) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) Search(ctx context.Context, query string, page, limit int) ([]dto.PatientResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	patients, total, err := u.patientRepo.Search(u.db.WithContext(ctx), query, page, limit)
	if err != nil {
		u.log.Warnf("Failed to search patients: %+v", err)
		return nil, 0, err
	}
	return converter.PatientsToResponses(patients), total, nil
}

func (u *patientUsecase) Update(ctx context.Context, id uint, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	db := u.db.WithContext(ctx)

	patient, err := u.patientRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	if req.NationalID != nil && *req.NationalID != patient.NationalID {
		existing, err := u.patientRepo.FindByNationalID(db, *req.NationalID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrPatientNationalIDExists
		}
		patient.NationalID = *req.NationalID
	}
	if req.FullName != nil {
		patient.FullName = *req.FullName
	}
	if req.BirthDate != nil {
		birthDate, err := u.parseBirthDate(*req.BirthDate)
		if err != nil {
			return nil, err
		}
		patient.BirthDate = birthDate
	}
	if req.Phone != nil {
		patient.Phone = req.Phone
	}
	if req.AttendanceStatus != nil {
		patient.AttendanceStatus = *req.AttendanceStatus
	}

	if err := u.patientRepo.Update(db, patient); err != nil {
		if isDuplicateKeyError(err, "national_id") {
			return nil, ErrPatientNationalIDExists
		}
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, err
	}

	u.audit.Record(db, nil, entity.AuditActionPatientUpdate, entity.JSON{"patient_id": patient.ID})

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) Delete(ctx context.Context, id uint) error {
	db := u.db.WithContext(ctx)

	patient, err := u.patientRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return err
	}
	if patient == nil {
		return ErrPatientNotFound
	}

	if err := u.patientRepo.Delete(db, patient); err != nil {
		u.log.Warnf("Failed to delete patient: %+v", err)
		return err
	}

	u.audit.Record(db, nil, entity.AuditActionPatientDelete, entity.JSON{"patient_id": patient.ID})

	return nil
}

func (u *patientUsecase) parseBirthDate(value string) (time.Time, error) {
	birthDate, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, ErrInvalidBirthDate
	}
	if birthDate.After(u.now()) {
		return time.Time{}, ErrBirthDateInFuture
	}
	return birthDate, nil
}
