package converter

import (
	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/domain/entity"
)

func ClinicToResponse(clinic *entity.Clinic) *dto.ClinicResponse {
	if clinic == nil {
		return nil
	}

	return &dto.ClinicResponse{
		ID:   clinic.ID,
		Code: clinic.Code,
		Name: clinic.Name,
	}
}

func ClinicsToResponses(clinics []entity.Clinic) []dto.ClinicResponse {
	responses := make([]dto.ClinicResponse, 0, len(clinics))
	for i := range clinics {
		responses = append(responses, *ClinicToResponse(&clinics[i]))
	}
	return responses
}
