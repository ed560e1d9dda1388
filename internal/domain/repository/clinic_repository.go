package repository

import (
	"clinisys-school/internal/domain/entity"

	"gorm.io/gorm"
)

type ClinicRepository interface {
	Create(db *gorm.DB, clinic *entity.Clinic) error
	FindByID(db *gorm.DB, id uint) (*entity.Clinic, error)
	FindByCode(db *gorm.DB, code string) (*entity.Clinic, error)
	FindAll(db *gorm.DB) ([]entity.Clinic, error)
	Update(db *gorm.DB, clinic *entity.Clinic) error
	Delete(db *gorm.DB, clinic *entity.Clinic) error
}
