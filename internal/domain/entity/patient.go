package entity

import (
	"time"
)

// Patient is a clinic patient record. The national id is unique across all
// patients and the birth date may not be in the future.
type Patient struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName         string    `gorm:"type:varchar(180);not null;index" json:"full_name"`
	NationalID       string    `gorm:"type:varchar(14);uniqueIndex:uq_patients_national_id;not null" json:"national_id"`
	BirthDate        time.Time `gorm:"type:date;not null" json:"birth_date"`
	Phone            *string   `gorm:"type:varchar(30)" json:"phone,omitempty"`
	AttendanceStatus string    `gorm:"type:varchar(50);not null;default:'registered'" json:"attendance_status"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}
