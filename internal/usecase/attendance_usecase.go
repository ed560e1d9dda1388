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

var (
	ErrAlreadyQueued      = errors.New("patient is already queued for this attendance type")
	ErrQueueEntryNotFound = errors.New("queue entry not found")
	ErrQueueEmpty         = errors.New("no patient waiting in this queue")
	ErrInvalidQueueStatus = errors.New("invalid queue status")
	ErrInvalidQueueType   = errors.New("invalid attendance type")
)

type AttendanceUsecase interface {
	Enqueue(ctx context.Context, req *dto.EnqueueRequest) (*dto.QueueEntryResponse, error)
	List(ctx context.Context, attendanceType, status string) ([]dto.QueueEntryResponse, error)
	UpdateStatus(ctx context.Context, id uint, req *dto.UpdateQueueStatusRequest) (*dto.QueueEntryResponse, error)
	// CallNext moves the oldest waiting entry of the given type to
	// in-progress and returns it.
	CallNext(ctx context.Context, req *dto.CallNextRequest) (*dto.QueueEntryResponse, error)
}

type attendanceUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	queueRepo   repository.AttendanceQueueRepository
	patientRepo repository.PatientRepository
	audit       service.AuditService
}

func NewAttendanceUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	queueRepo repository.AttendanceQueueRepository,
	patientRepo repository.PatientRepository,
	audit service.AuditService,
) AttendanceUsecase {
	return &attendanceUsecase{
		db:          db,
		log:         log,
		queueRepo:   queueRepo,
		patientRepo: patientRepo,
		audit:       audit,
	}
}

func (u *attendanceUsecase) Enqueue(ctx context.Context, req *dto.EnqueueRequest) (*dto.QueueEntryResponse, error) {
	attendanceType := entity.AttendanceType(req.Type)
	if !entity.ValidAttendanceType(attendanceType) {
		return nil, ErrInvalidQueueType
	}

	db := u.db.WithContext(ctx)

	patient, err := u.patientRepo.FindByID(db, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	var entry *entity.AttendanceQueueEntry
	err = db.Transaction(func(tx *gorm.DB) error {
		// One active entry per patient and type at a time.
		active, err := u.queueRepo.FindActiveByPatientAndType(tx, req.PatientID, attendanceType)
		if err != nil {
			return err
		}
		if active != nil {
			return ErrAlreadyQueued
		}

		entry = &entity.AttendanceQueueEntry{
			PatientID: req.PatientID,
			Type:      attendanceType,
			Status:    entity.QueueStatusWaiting,
			Note:      req.Note,
		}
		return u.queueRepo.Create(tx, entry)
	})
	if err != nil {
		// Patient deleted between the lookup and the insert.
		if isForeignKeyError(err, "patient_id") {
			return nil, ErrPatientNotFound
		}
		if !errors.Is(err, ErrAlreadyQueued) {
			u.log.Warnf("Failed to enqueue patient: %+v", err)
		}
		return nil, err
	}

	entry.Patient = *patient
	u.audit.Record(db, nil, entity.AuditActionQueueEnqueue, entity.JSON{"patient_id": req.PatientID, "type": req.Type})

	return converter.QueueEntryToResponse(entry), nil
}

func (u *attendanceUsecase) List(ctx context.Context, attendanceType, status string) ([]dto.QueueEntryResponse, error) {
	filter := repository.AttendanceQueueFilter{}
	if attendanceType != "" {
		t := entity.AttendanceType(attendanceType)
		if !entity.ValidAttendanceType(t) {
			return nil, ErrInvalidQueueType
		}
		filter.Type = &t
	}
	if status != "" {
		s := entity.QueueStatus(status)
		if !entity.ValidQueueStatus(s) {
			return nil, ErrInvalidQueueStatus
		}
		filter.Status = &s
	}

	entries, err := u.queueRepo.List(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list attendance queue: %+v", err)
		return nil, err
	}
	return converter.QueueEntriesToResponses(entries), nil
}

func (u *attendanceUsecase) UpdateStatus(ctx context.Context, id uint, req *dto.UpdateQueueStatusRequest) (*dto.QueueEntryResponse, error) {
	status := entity.QueueStatus(req.Status)
	if !entity.ValidQueueStatus(status) {
		return nil, ErrInvalidQueueStatus
	}

	db := u.db.WithContext(ctx)

	entry, err := u.queueRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find queue entry: %+v", err)
		return nil, err
	}
	if entry == nil {
		return nil, ErrQueueEntryNotFound
	}

	// Reviving a done or cancelled entry must not give the patient a
	// second active slot of the same type.
	revived := status == entity.QueueStatusWaiting || status == entity.QueueStatusInProgress
	if !entry.IsActive() && revived {
		active, err := u.queueRepo.FindActiveByPatientAndType(db, entry.PatientID, entry.Type)
		if err != nil {
			return nil, err
		}
		if active != nil && active.ID != entry.ID {
			return nil, ErrAlreadyQueued
		}
	}

	entry.Status = status
	if req.Note != nil {
		entry.Note = req.Note
	}

	if err := u.queueRepo.Update(db, entry); err != nil {
		u.log.Warnf("Failed to update queue entry: %+v", err)
		return nil, err
	}

	u.audit.Record(db, nil, entity.AuditActionQueueStatus, entity.JSON{"entry_id": entry.ID, "status": req.Status})

	return converter.QueueEntryToResponse(entry), nil
}

func (u *attendanceUsecase) CallNext(ctx context.Context, req *dto.CallNextRequest) (*dto.QueueEntryResponse, error) {
	attendanceType := entity.AttendanceType(req.Type)
	if !entity.ValidAttendanceType(attendanceType) {
		return nil, ErrInvalidQueueType
	}

	var entry *entity.AttendanceQueueEntry
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = u.queueRepo.FindNextWaiting(tx, attendanceType)
		if err != nil {
			return err
		}
		if entry == nil {
			return ErrQueueEmpty
		}
		entry.Status = entity.QueueStatusInProgress
		return u.queueRepo.Update(tx, entry)
	})
	if err != nil {
		if !errors.Is(err, ErrQueueEmpty) {
			u.log.Warnf("Failed to call next patient: %+v", err)
		}
		return nil, err
	}

	u.audit.Record(u.db.WithContext(ctx), nil, entity.AuditActionQueueStatus, entity.JSON{"entry_id": entry.ID, "status": string(entity.QueueStatusInProgress)})

	return converter.QueueEntryToResponse(entry), nil
}
