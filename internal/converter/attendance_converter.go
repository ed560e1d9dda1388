package converter

import (
	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/domain/entity"
)

func QueueEntryToResponse(entry *entity.AttendanceQueueEntry) *dto.QueueEntryResponse {
	if entry == nil {
		return nil
	}

	resp := &dto.QueueEntryResponse{
		ID:        entry.ID,
		PatientID: entry.PatientID,
		Type:      string(entry.Type),
		Status:    string(entry.Status),
		Note:      entry.Note,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
	if entry.Patient.ID != 0 {
		resp.Patient = PatientToResponse(&entry.Patient)
	}
	return resp
}

func QueueEntriesToResponses(entries []entity.AttendanceQueueEntry) []dto.QueueEntryResponse {
	responses := make([]dto.QueueEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *QueueEntryToResponse(&entries[i]))
	}
	return responses
}
