package repository

import (
	"errors"

	"clinisys-school/internal/domain/entity"
	domainRepo "clinisys-school/internal/domain/repository"

	"gorm.io/gorm"
)

type attendanceQueueRepository struct{}

func NewAttendanceQueueRepository() domainRepo.AttendanceQueueRepository {
	return &attendanceQueueRepository{}
}

func (r *attendanceQueueRepository) Create(db *gorm.DB, entry *entity.AttendanceQueueEntry) error {
	return db.Create(entry).Error
}

func (r *attendanceQueueRepository) FindByID(db *gorm.DB, id uint) (*entity.AttendanceQueueEntry, error) {
	var entry entity.AttendanceQueueEntry
	err := db.Preload("Patient").Where("id = ?", id).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *attendanceQueueRepository) FindActiveByPatientAndType(db *gorm.DB, patientID uint, attendanceType entity.AttendanceType) (*entity.AttendanceQueueEntry, error) {
	var entry entity.AttendanceQueueEntry
	err := db.Where("patient_id = ? AND type = ? AND status IN ?",
		patientID, attendanceType,
		[]entity.QueueStatus{entity.QueueStatusWaiting, entity.QueueStatusInProgress}).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *attendanceQueueRepository) FindNextWaiting(db *gorm.DB, attendanceType entity.AttendanceType) (*entity.AttendanceQueueEntry, error) {
	var entry entity.AttendanceQueueEntry
	err := db.Preload("Patient").
		Where("type = ? AND status = ?", attendanceType, entity.QueueStatusWaiting).
		Order("created_at").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *attendanceQueueRepository) List(db *gorm.DB, filter domainRepo.AttendanceQueueFilter) ([]entity.AttendanceQueueEntry, error) {
	q := db.Preload("Patient").Order("created_at")

	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	} else {
		// Active entries only unless the caller asked for a specific status.
		q = q.Where("status IN ?", []entity.QueueStatus{entity.QueueStatusWaiting, entity.QueueStatusInProgress})
	}

	var entries []entity.AttendanceQueueEntry
	err := q.Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *attendanceQueueRepository) Update(db *gorm.DB, entry *entity.AttendanceQueueEntry) error {
	return db.Save(entry).Error
}
