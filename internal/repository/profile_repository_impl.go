package repository

import (
	"errors"

	"clinisys-school/internal/domain/entity"
	domainRepo "clinisys-school/internal/domain/repository"

	"gorm.io/gorm"
)

type profileRepository struct{}

func NewProfileRepository() domainRepo.ProfileRepository {
	return &profileRepository{}
}

func (r *profileRepository) CreateInstructor(db *gorm.DB, profile *entity.InstructorProfile) error {
	return db.Create(profile).Error
}

func (r *profileRepository) CreateStudent(db *gorm.DB, profile *entity.StudentProfile) error {
	return db.Create(profile).Error
}

func (r *profileRepository) CreateReceptionist(db *gorm.DB, profile *entity.ReceptionistProfile) error {
	return db.Create(profile).Error
}

func (r *profileRepository) FindInstructorByUserID(db *gorm.DB, userID uint) (*entity.InstructorProfile, error) {
	var profile entity.InstructorProfile
	err := db.Preload("Clinic").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindStudentByUserID(db *gorm.DB, userID uint) (*entity.StudentProfile, error) {
	var profile entity.StudentProfile
	err := db.Preload("Clinic").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindReceptionistByUserID(db *gorm.DB, userID uint) (*entity.ReceptionistProfile, error) {
	var profile entity.ReceptionistProfile
	err := db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// DeleteAllForUser removes whichever profile variant the user has. Used
// when a user's role changes or the user is removed.
func (r *profileRepository) DeleteAllForUser(db *gorm.DB, userID uint) error {
	if err := db.Where("user_id = ?", userID).Delete(&entity.InstructorProfile{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", userID).Delete(&entity.StudentProfile{}).Error; err != nil {
		return err
	}
	return db.Where("user_id = ?", userID).Delete(&entity.ReceptionistProfile{}).Error
}

func (r *profileRepository) CountByClinic(db *gorm.DB, clinicID uint) (int64, error) {
	var instructors, students int64
	if err := db.Model(&entity.InstructorProfile{}).Where("clinic_id = ?", clinicID).Count(&instructors).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&entity.StudentProfile{}).Where("clinic_id = ?", clinicID).Count(&students).Error; err != nil {
		return 0, err
	}
	return instructors + students, nil
}
