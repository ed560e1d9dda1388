package dto

import (
	"time"
)

type CreatePatientRequest struct {
	FullName   string  `json:"full_name" validate:"required,min=2,max=180"`
	NationalID string  `json:"national_id" validate:"required,min=11,max=14"`
	BirthDate  string  `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

type UpdatePatientRequest struct {
	FullName         *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=180"`
	NationalID       *string `json:"national_id,omitempty" validate:"omitempty,min=11,max=14"`
	BirthDate        *string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	AttendanceStatus *string `json:"attendance_status,omitempty" validate:"omitempty,max=50"`
}

type PatientResponse struct {
	ID               uint      `json:"id"`
	FullName         string    `json:"full_name"`
	NationalID       string    `json:"national_id"`
	BirthDate        string    `json:"birth_date"`
	Phone            *string   `json:"phone,omitempty"`
	AttendanceStatus string    `json:"attendance_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
