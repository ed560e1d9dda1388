package dto

// ProfileData carries the role-specific fields supplied when creating a
// user or changing a role. Instructor and student profiles require a
// clinic id.
type ProfileData struct {
	Specialty        *string `json:"specialty,omitempty"`
	EnrollmentNumber *string `json:"enrollment_number,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	ClinicID         *uint   `json:"clinic_id,omitempty"`
}

type CreateUserRequest struct {
	Name       string       `json:"name" validate:"required,min=2,max=120"`
	Email      string       `json:"email" validate:"required,email"`
	Password   string       `json:"password" validate:"required"`
	Role       string       `json:"role" validate:"required,oneof=admin instructor student receptionist"`
	NationalID *string      `json:"national_id,omitempty" validate:"omitempty,max=14"`
	Phone      *string      `json:"phone,omitempty" validate:"omitempty,max=30"`
	Profile    *ProfileData `json:"profile,omitempty"`
}

type UpdateUserRequest struct {
	Name       *string      `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Email      *string      `json:"email,omitempty" validate:"omitempty,email"`
	Role       *string      `json:"role,omitempty" validate:"omitempty,oneof=admin instructor student receptionist"`
	NationalID *string      `json:"national_id,omitempty" validate:"omitempty,max=14"`
	Phone      *string      `json:"phone,omitempty" validate:"omitempty,max=30"`
	Profile    *ProfileData `json:"profile,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password" validate:"required"`
}
