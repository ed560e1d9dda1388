package dto

import (
	"time"
)

type EnqueueRequest struct {
	PatientID uint    `json:"patient_id" validate:"required"`
	Type      string  `json:"type" validate:"required,oneof=triage consultation"`
	Note      *string `json:"note,omitempty" validate:"omitempty,max=255"`
}

type UpdateQueueStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=waiting in_progress done cancelled"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=255"`
}

type CallNextRequest struct {
	Type string `json:"type" validate:"required,oneof=triage consultation"`
}

type QueueEntryResponse struct {
	ID        uint             `json:"id"`
	PatientID uint             `json:"patient_id"`
	Patient   *PatientResponse `json:"patient,omitempty"`
	Type      string           `json:"type"`
	Status    string           `json:"status"`
	Note      *string          `json:"note,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
