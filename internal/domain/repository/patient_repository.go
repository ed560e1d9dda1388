package repository

import (
	"clinisys-school/internal/domain/entity"

	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uint) (*entity.Patient, error)
	FindByNationalID(db *gorm.DB, nationalID string) (*entity.Patient, error)
	// Search matches the query against full name (partial) and national id
	// (exact); an empty query lists everyone.
	Search(db *gorm.DB, query string, page, limit int) ([]entity.Patient, int64, error)
	Update(db *gorm.DB, patient *entity.Patient) error
	Delete(db *gorm.DB, patient *entity.Patient) error
}
