package repository

import (
	"errors"

	"clinisys-school/internal/domain/entity"
	domainRepo "clinisys-school/internal/domain/repository"

	"gorm.io/gorm"
)

type clinicRepository struct{}

func NewClinicRepository() domainRepo.ClinicRepository {
	return &clinicRepository{}
}

func (r *clinicRepository) Create(db *gorm.DB, clinic *entity.Clinic) error {
	return db.Create(clinic).Error
}

func (r *clinicRepository) FindByID(db *gorm.DB, id uint) (*entity.Clinic, error) {
	var clinic entity.Clinic
	err := db.Where("id = ?", id).First(&clinic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &clinic, nil
}

func (r *clinicRepository) FindByCode(db *gorm.DB, code string) (*entity.Clinic, error) {
	var clinic entity.Clinic
	err := db.Where("code = ?", code).First(&clinic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &clinic, nil
}

func (r *clinicRepository) FindAll(db *gorm.DB) ([]entity.Clinic, error) {
	var clinics []entity.Clinic
	err := db.Order("code").Find(&clinics).Error
	if err != nil {
		return nil, err
	}
	return clinics, nil
}

func (r *clinicRepository) Update(db *gorm.DB, clinic *entity.Clinic) error {
	return db.Save(clinic).Error
}

func (r *clinicRepository) Delete(db *gorm.DB, clinic *entity.Clinic) error {
	return db.Delete(clinic).Error
}
