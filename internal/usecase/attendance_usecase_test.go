package usecase

import (
	"context"
	"testing"
	"time"

	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/domain/entity"
	"clinisys-school/internal/repository"
	"clinisys-school/internal/service"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newAttendanceUsecase(t *testing.T) (AttendanceUsecase, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()

	uc := NewAttendanceUsecase(
		db,
		log,
		repository.NewAttendanceQueueRepository(),
		repository.NewPatientRepository(),
		service.NewAuditService(log, repository.NewAuditLogRepository()),
	)
	return uc, db
}

func TestEnqueuePatient(t *testing.T) {
	uc, db := newAttendanceUsecase(t)
	patient := createPatient(t, db, "Joana Souza", "11122233344")

	entry, err := uc.Enqueue(context.Background(), &dto.EnqueueRequest{
		PatientID: patient.ID,
		Type:      "triage",
	})
	assert.NoError(t, err)
	assert.Equal(t, "waiting", entry.Status)
	assert.Equal(t, "triage", entry.Type)
	assert.NotNil(t, entry.Patient)
	assert.Equal(t, "Joana Souza", entry.Patient.FullName)
}

func TestEnqueueUnknownPatient(t *testing.T) {
	uc, _ := newAttendanceUsecase(t)

	_, err := uc.Enqueue(context.Background(), &dto.EnqueueRequest{
		PatientID: 42,
		Type:      "triage",
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestEnqueueSameTypeTwiceRejected(t *testing.T) {
	uc, db := newAttendanceUsecase(t)
	patient := createPatient(t, db, "Joana Souza", "11122233344")

	_, err := uc.Enqueue(context.Background(), &dto.EnqueueRequest{
		PatientID: patient.ID,
		Type:      "triage",
	})
	assert.NoError(t, err)

	_, err = uc.Enqueue(context.Background(), &dto.EnqueueRequest{
		PatientID: patient.ID,
		Type:      "triage",
	})
	assert.ErrorIs(t, err, ErrAlreadyQueued)

	// A different queue type is a separate slot.
	_, err = uc.Enqueue(context.Background(), &dto.EnqueueRequest{
		PatientID: patient.ID,
		Type:      "consultation",
	})
	assert.NoError(t, err)
}

func TestReEnqueueAfterDone(t *testing.T) {
	uc, db := newAttendanceUsecase(t)
	patient := createPatient(t, db, "Joana Souza", "11122233344")

	entry, err := uc.Enqueue(context.Background(), &dto.EnqueueRequest{
		PatientID: patient.ID,
		Type:      "triage",
	})
	assert.NoError(t, err)

	_, err = uc.UpdateStatus(context.Background(), entry.ID, &dto.UpdateQueueStatusRequest{
		Status: "done",
	})
	assert.NoError(t, err)

	// A finished entry frees the slot.
	_, err = uc.Enqueue(context.Background(), &dto.EnqueueRequest{
		PatientID: patient.ID,
		Type:      "triage",
	})
	assert.NoError(t, err)
}

func TestListDefaultsToActiveEntries(t *testing.T) {
	uc, db := newAttendanceUsecase(t)
	first := createPatient(t, db, "First", "11122233344")
	second := createPatient(t, db, "Second", "55566677788")

	e1, err := uc.Enqueue(context.Background(), &dto.EnqueueRequest{PatientID: first.ID, Type: "triage"})
	assert.NoError(t, err)
	_, err = uc.Enqueue(context.Background(), &dto.EnqueueRequest{PatientID: second.ID, Type: "triage"})
	assert.NoError(t, err)

	_, err = uc.UpdateStatus(context.Background(), e1.ID, &dto.UpdateQueueStatusRequest{Status: "cancelled"})
	assert.NoError(t, err)

	active, err := uc.List(context.Background(), "triage", "")
	assert.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].PatientID)

	cancelled, err := uc.List(context.Background(), "triage", "cancelled")
	assert.NoError(t, err)
	assert.Len(t, cancelled, 1)

	_, err = uc.List(context.Background(), "triage", "bogus")
	assert.ErrorIs(t, err, ErrInvalidQueueStatus)
}

func TestCallNextTakesOldestWaiting(t *testing.T) {
	uc, db := newAttendanceUsecase(t)
	first := createPatient(t, db, "First", "11122233344")
	second := createPatient(t, db, "Second", "55566677788")

	e1, err := uc.Enqueue(context.Background(), &dto.EnqueueRequest{PatientID: first.ID, Type: "consultation"})
	assert.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	e2, err := uc.Enqueue(context.Background(), &dto.EnqueueRequest{PatientID: second.ID, Type: "consultation"})
	assert.NoError(t, err)

	called, err := uc.CallNext(context.Background(), &dto.CallNextRequest{Type: "consultation"})
	assert.NoError(t, err)
	assert.Equal(t, e1.ID, called.ID)
	assert.Equal(t, "in_progress", called.Status)

	called, err = uc.CallNext(context.Background(), &dto.CallNextRequest{Type: "consultation"})
	assert.NoError(t, err)
	assert.Equal(t, e2.ID, called.ID)

	_, err = uc.CallNext(context.Background(), &dto.CallNextRequest{Type: "consultation"})
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestUpdateStatusValidation(t *testing.T) {
	uc, db := newAttendanceUsecase(t)
	patient := createPatient(t, db, "Joana Souza", "11122233344")

	entry, err := uc.Enqueue(context.Background(), &dto.EnqueueRequest{PatientID: patient.ID, Type: "triage"})
	assert.NoError(t, err)

	_, err = uc.UpdateStatus(context.Background(), entry.ID, &dto.UpdateQueueStatusRequest{Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidQueueStatus)

	_, err = uc.UpdateStatus(context.Background(), entry.ID+99, &dto.UpdateQueueStatusRequest{Status: "done"})
	assert.ErrorIs(t, err, ErrQueueEntryNotFound)

	var stored entity.AttendanceQueueEntry
	assert.NoError(t, db.First(&stored, entry.ID).Error)
	assert.Equal(t, entity.QueueStatusWaiting, stored.Status)
}

func TestEnqueueInvalidTypeRejected(t *testing.T) {
	uc, db := newAttendanceUsecase(t)
	patient := createPatient(t, db, "Joana Souza", "11122233344")

	_, err := uc.Enqueue(context.Background(), &dto.EnqueueRequest{
		PatientID: patient.ID,
		Type:      "surgery",
	})
	assert.ErrorIs(t, err, ErrInvalidQueueType)

	_, err = uc.List(context.Background(), "surgery", "")
	assert.ErrorIs(t, err, ErrInvalidQueueType)

	_, err = uc.CallNext(context.Background(), &dto.CallNextRequest{Type: "surgery"})
	assert.ErrorIs(t, err, ErrInvalidQueueType)
}

func TestReviveFinishedEntryKeepsExclusivity(t *testing.T) {
	uc, db := newAttendanceUsecase(t)
	patient := createPatient(t, db, "Joana Souza", "11122233344")

	first, err := uc.Enqueue(context.Background(), &dto.EnqueueRequest{PatientID: patient.ID, Type: "triage"})
	assert.NoError(t, err)

	_, err = uc.UpdateStatus(context.Background(), first.ID, &dto.UpdateQueueStatusRequest{Status: "done"})
	assert.NoError(t, err)

	second, err := uc.Enqueue(context.Background(), &dto.EnqueueRequest{PatientID: patient.ID, Type: "triage"})
	assert.NoError(t, err)

	// The finished entry may not come back while the new one holds the
	// slot.
	_, err = uc.UpdateStatus(context.Background(), first.ID, &dto.UpdateQueueStatusRequest{Status: "waiting"})
	assert.ErrorIs(t, err, ErrAlreadyQueued)

	// Once the slot frees up the old entry can be revived again.
	_, err = uc.UpdateStatus(context.Background(), second.ID, &dto.UpdateQueueStatusRequest{Status: "cancelled"})
	assert.NoError(t, err)

	revived, err := uc.UpdateStatus(context.Background(), first.ID, &dto.UpdateQueueStatusRequest{Status: "waiting"})
	assert.NoError(t, err)
	assert.Equal(t, "waiting", revived.Status)
}
