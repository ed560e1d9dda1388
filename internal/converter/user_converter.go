package converter

import (
	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/domain/entity"
)

// UserToResponse converts a User entity to its response DTO without
// profile data.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       string(user.Role),
		Active:     user.Active,
		NationalID: user.NationalID,
		Phone:      user.Phone,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

func ClinicToRef(clinic *entity.Clinic) *dto.ClinicRef {
	if clinic == nil {
		return nil
	}
	return &dto.ClinicRef{
		ID:   clinic.ID,
		Code: clinic.Code,
		Name: clinic.Name,
	}
}

func InstructorProfileToData(profile *entity.InstructorProfile) *dto.RoleProfileResponse {
	if profile == nil {
		return nil
	}
	return &dto.RoleProfileResponse{
		Instructor: &dto.InstructorProfileData{
			Specialty: profile.Specialty,
			Clinic:    ClinicToRef(profile.Clinic),
		},
	}
}

func StudentProfileToData(profile *entity.StudentProfile) *dto.RoleProfileResponse {
	if profile == nil {
		return nil
	}
	return &dto.RoleProfileResponse{
		Student: &dto.StudentProfileData{
			EnrollmentNumber: profile.EnrollmentNumber,
			Phone:            profile.Phone,
			Clinic:           ClinicToRef(profile.Clinic),
		},
	}
}

func ReceptionistProfileToData(profile *entity.ReceptionistProfile) *dto.RoleProfileResponse {
	if profile == nil {
		return nil
	}
	return &dto.RoleProfileResponse{
		Receptionist: &dto.ReceptionistProfileData{
			Phone: profile.Phone,
		},
	}
}
