package usecase

import (
	"context"
	"testing"

	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/domain/entity"
	"clinisys-school/internal/repository"
	"clinisys-school/internal/service"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newClinicUsecase(t *testing.T) (ClinicUsecase, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()

	uc := NewClinicUsecase(
		db,
		log,
		repository.NewClinicRepository(),
		repository.NewProfileRepository(),
		service.NewAuditService(log, repository.NewAuditLogRepository()),
	)
	return uc, db
}

func TestClinicCRUD(t *testing.T) {
	uc, _ := newClinicUsecase(t)

	created, err := uc.Create(context.Background(), &dto.CreateClinicRequest{
		Code: "ODONTO-1",
		Name: "Dental Teaching Clinic",
	})
	assert.NoError(t, err)
	assert.Equal(t, "ODONTO-1", created.Code)

	got, err := uc.Get(context.Background(), created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Dental Teaching Clinic", got.Name)

	name := "Renamed Clinic"
	updated, err := uc.Update(context.Background(), created.ID, &dto.UpdateClinicRequest{Name: &name})
	assert.NoError(t, err)
	assert.Equal(t, "Renamed Clinic", updated.Name)
	assert.Equal(t, "ODONTO-1", updated.Code)

	all, err := uc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, all, 1)

	assert.NoError(t, uc.Delete(context.Background(), created.ID))
	_, err = uc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrClinicNotFound)
}

func TestClinicDuplicateCode(t *testing.T) {
	uc, _ := newClinicUsecase(t)

	_, err := uc.Create(context.Background(), &dto.CreateClinicRequest{
		Code: "ODONTO-1",
		Name: "First",
	})
	assert.NoError(t, err)

	_, err = uc.Create(context.Background(), &dto.CreateClinicRequest{
		Code: "ODONTO-1",
		Name: "Second",
	})
	assert.ErrorIs(t, err, ErrClinicCodeExists)

	second, err := uc.Create(context.Background(), &dto.CreateClinicRequest{
		Code: "ODONTO-2",
		Name: "Second",
	})
	assert.NoError(t, err)

	taken := "ODONTO-1"
	_, err = uc.Update(context.Background(), second.ID, &dto.UpdateClinicRequest{Code: &taken})
	assert.ErrorIs(t, err, ErrClinicCodeExists)
}

func TestClinicDeleteKeepsProfiles(t *testing.T) {
	uc, db := newClinicUsecase(t)

	created, err := uc.Create(context.Background(), &dto.CreateClinicRequest{
		Code: "ODONTO-1",
		Name: "Dental Teaching Clinic",
	})
	assert.NoError(t, err)

	user := createUser(t, db, "teach@example.com", "Teach1234", entity.RoleInstructor, true)
	assert.NoError(t, db.Create(&entity.InstructorProfile{
		UserID:   user.ID,
		ClinicID: &created.ID,
	}).Error)

	assert.NoError(t, uc.Delete(context.Background(), created.ID))

	// The profile survives the clinic deletion.
	var profile entity.InstructorProfile
	assert.NoError(t, db.First(&profile, "user_id = ?", user.ID).Error)
}
