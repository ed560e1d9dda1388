package entity

import (
	"time"
)

// AttendanceType distinguishes the two queues a patient can wait in.
type AttendanceType string

const (
	AttendanceTriage       AttendanceType = "triage"
	AttendanceConsultation AttendanceType = "consultation"
)

func ValidAttendanceType(t AttendanceType) bool {
	return t == AttendanceTriage || t == AttendanceConsultation
}

// QueueStatus is the lifecycle state of a queue entry.
type QueueStatus string

const (
	QueueStatusWaiting    QueueStatus = "waiting"
	QueueStatusInProgress QueueStatus = "in_progress"
	QueueStatusDone       QueueStatus = "done"
	QueueStatusCancelled  QueueStatus = "cancelled"
)

func ValidQueueStatus(s QueueStatus) bool {
	switch s {
	case QueueStatusWaiting, QueueStatusInProgress, QueueStatusDone, QueueStatusCancelled:
		return true
	}
	return false
}

// AttendanceQueueEntry is one patient waiting for (or undergoing) triage
// or consultation. A patient may not have two concurrent waiting or
// in-progress entries of the same type.
type AttendanceQueueEntry struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID uint           `gorm:"not null;index" json:"patient_id"`
	Type      AttendanceType `gorm:"type:varchar(20);not null;index" json:"type"`
	Status    QueueStatus    `gorm:"type:varchar(20);not null;default:'waiting';index" json:"status"`
	Note      *string        `gorm:"type:varchar(255)" json:"note,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Patient Patient `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"patient,omitempty"`
}

func (AttendanceQueueEntry) TableName() string {
	return "attendance_queue"
}

// IsActive reports whether the entry still occupies its queue slot.
func (e *AttendanceQueueEntry) IsActive() bool {
	return e.Status == QueueStatusWaiting || e.Status == QueueStatusInProgress
}
