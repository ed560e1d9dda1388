package converter

import (
	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/domain/entity"
)

func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:               patient.ID,
		FullName:         patient.FullName,
		NationalID:       patient.NationalID,
		BirthDate:        patient.BirthDate.Format("2006-01-02"),
		Phone:            patient.Phone,
		AttendanceStatus: patient.AttendanceStatus,
		CreatedAt:        patient.CreatedAt,
		UpdatedAt:        patient.UpdatedAt,
	}
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, 0, len(patients))
	for i := range patients {
		responses = append(responses, *PatientToResponse(&patients[i]))
	}
	return responses
}
