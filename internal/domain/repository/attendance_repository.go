package repository

import (
	"clinisys-school/internal/domain/entity"

	"gorm.io/gorm"
)

// AttendanceQueueFilter narrows List results. Nil fields match everything;
// by default callers filter to active (waiting/in-progress) entries.
type AttendanceQueueFilter struct {
	Type   *entity.AttendanceType
	Status *entity.QueueStatus
}

type AttendanceQueueRepository interface {
	Create(db *gorm.DB, entry *entity.AttendanceQueueEntry) error
	FindByID(db *gorm.DB, id uint) (*entity.AttendanceQueueEntry, error)
	// FindActiveByPatientAndType returns a waiting or in-progress entry of
	// the given type for the patient, or nil.
	FindActiveByPatientAndType(db *gorm.DB, patientID uint, attendanceType entity.AttendanceType) (*entity.AttendanceQueueEntry, error)
	// FindNextWaiting returns the oldest waiting entry of the given type.
	FindNextWaiting(db *gorm.DB, attendanceType entity.AttendanceType) (*entity.AttendanceQueueEntry, error)
	List(db *gorm.DB, filter AttendanceQueueFilter) ([]entity.AttendanceQueueEntry, error)
	Update(db *gorm.DB, entry *entity.AttendanceQueueEntry) error
}
