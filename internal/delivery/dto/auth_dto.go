package dto

import (
	"time"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type ClinicRef struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// RoleProfileResponse is the tagged-union view of the role-specific
// profile tables: exactly the variant matching the user's role is set.
type RoleProfileResponse struct {
	Instructor   *InstructorProfileData   `json:"instructor,omitempty"`
	Student      *StudentProfileData      `json:"student,omitempty"`
	Receptionist *ReceptionistProfileData `json:"receptionist,omitempty"`
}

type InstructorProfileData struct {
	Specialty *string    `json:"specialty,omitempty"`
	Clinic    *ClinicRef `json:"clinic,omitempty"`
}

type StudentProfileData struct {
	EnrollmentNumber *string    `json:"enrollment_number,omitempty"`
	Phone            *string    `json:"phone,omitempty"`
	Clinic           *ClinicRef `json:"clinic,omitempty"`
}

type ReceptionistProfileData struct {
	Phone *string `json:"phone,omitempty"`
}

type UserResponse struct {
	ID         uint                 `json:"id"`
	Name       string               `json:"name"`
	Email      string               `json:"email"`
	Role       string               `json:"role"`
	Active     bool                 `json:"active"`
	NationalID *string              `json:"national_id,omitempty"`
	Phone      *string              `json:"phone,omitempty"`
	Profile    *RoleProfileResponse `json:"profile,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}
