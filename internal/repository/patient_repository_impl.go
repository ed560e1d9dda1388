package repository

import (
	"errors"

	"clinisys-school/internal/domain/entity"
	domainRepo "clinisys-school/internal/domain/repository"

	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return db.Create(patient).Error
}

func (r *patientRepository) FindByID(db *gorm.DB, id uint) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("id = ?", id).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindByNationalID(db *gorm.DB, nationalID string) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.Where("national_id = ?", nationalID).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) Search(db *gorm.DB, query string, page, limit int) ([]entity.Patient, int64, error) {
	var patients []entity.Patient
	var total int64

	q := db.Model(&entity.Patient{})
	if query != "" {
		q = q.Where("full_name LIKE ? OR national_id = ?", "%"+query+"%", query)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Order("full_name").Offset(offset).Limit(limit).Find(&patients).Error
	if err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *patientRepository) Update(db *gorm.DB, patient *entity.Patient) error {
	return db.Save(patient).Error
}

func (r *patientRepository) Delete(db *gorm.DB, patient *entity.Patient) error {
	return db.Delete(patient).Error
}
