package repository

import (
	"clinisys-school/internal/domain/entity"

	"gorm.io/gorm"
)

// ProfileRepository manages the three role-profile variants. At most one
// variant exists per user; DeleteAllForUser clears whichever is present.
type ProfileRepository interface {
	CreateInstructor(db *gorm.DB, profile *entity.InstructorProfile) error
	CreateStudent(db *gorm.DB, profile *entity.StudentProfile) error
	CreateReceptionist(db *gorm.DB, profile *entity.ReceptionistProfile) error

	FindInstructorByUserID(db *gorm.DB, userID uint) (*entity.InstructorProfile, error)
	FindStudentByUserID(db *gorm.DB, userID uint) (*entity.StudentProfile, error)
	FindReceptionistByUserID(db *gorm.DB, userID uint) (*entity.ReceptionistProfile, error)

	DeleteAllForUser(db *gorm.DB, userID uint) error
	CountByClinic(db *gorm.DB, clinicID uint) (int64, error)
}
