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

func newUserUsecase(t *testing.T) (UserUsecase, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()

	uc := NewUserUsecase(
		db,
		log,
		repository.NewUserRepository(),
		repository.NewProfileRepository(),
		repository.NewClinicRepository(),
		repository.NewRefreshTokenRepository(),
		testHasher(),
		service.NewAuditService(log, repository.NewAuditLogRepository()),
	)
	return uc, db
}

func strPtr(s string) *string { return &s }

func TestCreateAdminUser(t *testing.T) {
	uc, db := newUserUsecase(t)

	resp, err := uc.Create(context.Background(), &dto.CreateUserRequest{
		Name:     "Head Admin",
		Email:    "head@example.com",
		Password: "Admin1234",
		Role:     "admin",
	})
	assert.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)
	assert.True(t, resp.Active)

	var stored entity.User
	assert.NoError(t, db.First(&stored, resp.ID).Error)
	assert.NotEqual(t, "Admin1234", stored.PasswordHash)
}

func TestCreateUserWeakPassword(t *testing.T) {
	uc, _ := newUserUsecase(t)

	_, err := uc.Create(context.Background(), &dto.CreateUserRequest{
		Name:     "Weak",
		Email:    "weak@example.com",
		Password: "short1",
		Role:     "admin",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	uc, _ := newUserUsecase(t)

	req := &dto.CreateUserRequest{
		Name:     "First",
		Email:    "dup@example.com",
		Password: "Secret123",
		Role:     "admin",
	}
	_, err := uc.Create(context.Background(), req)
	assert.NoError(t, err)

	_, err = uc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestCreateStudentRequiresClinic(t *testing.T) {
	uc, db := newUserUsecase(t)
	clinic := createClinic(t, db, "ODONTO-1", "Dental Teaching Clinic")

	_, err := uc.Create(context.Background(), &dto.CreateUserRequest{
		Name:     "Student One",
		Email:    "student1@example.com",
		Password: "Student123",
		Role:     "student",
	})
	assert.ErrorIs(t, err, ErrClinicRequired)

	resp, err := uc.Create(context.Background(), &dto.CreateUserRequest{
		Name:     "Student One",
		Email:    "student1@example.com",
		Password: "Student123",
		Role:     "student",
		Profile: &dto.ProfileData{
			EnrollmentNumber: strPtr("2026-0042"),
			ClinicID:         &clinic.ID,
		},
	})
	assert.NoError(t, err)

	var profile entity.StudentProfile
	assert.NoError(t, db.First(&profile, "user_id = ?", resp.ID).Error)
	assert.Equal(t, clinic.ID, *profile.ClinicID)
}

func TestCreateInstructorUnknownClinic(t *testing.T) {
	uc, _ := newUserUsecase(t)

	missing := uint(9999)
	_, err := uc.Create(context.Background(), &dto.CreateUserRequest{
		Name:     "Instructor",
		Email:    "instructor@example.com",
		Password: "Teach1234",
		Role:     "instructor",
		Profile:  &dto.ProfileData{ClinicID: &missing},
	})
	assert.ErrorIs(t, err, ErrClinicNotFound)
}

func TestUpdateUserRoleChangeSwapsProfile(t *testing.T) {
	uc, db := newUserUsecase(t)
	clinic := createClinic(t, db, "ODONTO-1", "Dental Teaching Clinic")

	resp, err := uc.Create(context.Background(), &dto.CreateUserRequest{
		Name:     "Switcher",
		Email:    "switch@example.com",
		Password: "Switch123",
		Role:     "student",
		Profile: &dto.ProfileData{
			EnrollmentNumber: strPtr("2026-0001"),
			ClinicID:         &clinic.ID,
		},
	})
	assert.NoError(t, err)

	role := "receptionist"
	updated, err := uc.Update(context.Background(), resp.ID, &dto.UpdateUserRequest{
		Role:    &role,
		Profile: &dto.ProfileData{Phone: strPtr("555-0100")},
	})
	assert.NoError(t, err)
	assert.Equal(t, "receptionist", updated.Role)

	var studentCount int64
	assert.NoError(t, db.Model(&entity.StudentProfile{}).Where("user_id = ?", resp.ID).Count(&studentCount).Error)
	assert.Zero(t, studentCount)

	var receptionist entity.ReceptionistProfile
	assert.NoError(t, db.First(&receptionist, "user_id = ?", resp.ID).Error)
}

func TestDeactivateRevokesRefreshTokens(t *testing.T) {
	uc, db := newUserUsecase(t)

	resp, err := uc.Create(context.Background(), &dto.CreateUserRequest{
		Name:     "Leaver",
		Email:    "leaver@example.com",
		Password: "Leaver123",
		Role:     "admin",
	})
	assert.NoError(t, err)

	token := &entity.RefreshToken{
		TokenID:   "tok-1",
		UserID:    resp.ID,
		TokenHash: "hash",
		ExpiresAt: resp.CreatedAt.AddDate(0, 0, 7),
	}
	assert.NoError(t, db.Create(token).Error)

	deactivated, err := uc.Deactivate(context.Background(), resp.ID)
	assert.NoError(t, err)
	assert.False(t, deactivated.Active)

	var stored entity.RefreshToken
	assert.NoError(t, db.First(&stored, "token_id = ?", "tok-1").Error)
	assert.True(t, stored.Revoked)

	reactivated, err := uc.Reactivate(context.Background(), resp.ID)
	assert.NoError(t, err)
	assert.True(t, reactivated.Active)
}

func TestInactiveFlagPersistsOnInsert(t *testing.T) {
	db := newTestDB(t)
	created := createUser(t, db, "dormant@example.com", "Dormant123", entity.RoleStudent, false)

	var stored entity.User
	assert.NoError(t, db.First(&stored, created.ID).Error)
	assert.False(t, stored.Active)
}

func TestChangePasswordSelf(t *testing.T) {
	uc, _ := newUserUsecase(t)

	resp, err := uc.Create(context.Background(), &dto.CreateUserRequest{
		Name:     "Self",
		Email:    "self@example.com",
		Password: "Before123",
		Role:     "receptionist",
		Profile:  &dto.ProfileData{},
	})
	assert.NoError(t, err)

	// Wrong current password is rejected.
	err = uc.ChangePassword(context.Background(), resp.ID, entity.RoleReceptionist, resp.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "Nope12345",
		NewPassword:     "After1234",
	})
	assert.ErrorIs(t, err, ErrWrongCurrentPassword)

	err = uc.ChangePassword(context.Background(), resp.ID, entity.RoleReceptionist, resp.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "Before123",
		NewPassword:     "After1234",
	})
	assert.NoError(t, err)
}

func TestChangePasswordOtherUserForbidden(t *testing.T) {
	uc, _ := newUserUsecase(t)

	target, err := uc.Create(context.Background(), &dto.CreateUserRequest{
		Name:     "Target",
		Email:    "target@example.com",
		Password: "Target123",
		Role:     "receptionist",
		Profile:  &dto.ProfileData{},
	})
	assert.NoError(t, err)

	admin, err := uc.Create(context.Background(), &dto.CreateUserRequest{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: "Admin1234",
		Role:     "admin",
	})
	assert.NoError(t, err)

	// A non-admin targeting another account is refused.
	err = uc.ChangePassword(context.Background(), admin.ID, entity.RoleStudent, target.ID, &dto.ChangePasswordRequest{
		NewPassword: "After1234",
	})
	assert.ErrorIs(t, err, ErrForbidden)

	// An admin may reset anyone without the current password.
	err = uc.ChangePassword(context.Background(), admin.ID, entity.RoleAdmin, target.ID, &dto.ChangePasswordRequest{
		NewPassword: "After1234",
	})
	assert.NoError(t, err)
}

func TestDeleteUserRemovesProfiles(t *testing.T) {
	uc, db := newUserUsecase(t)
	clinic := createClinic(t, db, "ODONTO-1", "Dental Teaching Clinic")

	resp, err := uc.Create(context.Background(), &dto.CreateUserRequest{
		Name:     "Gone",
		Email:    "gone@example.com",
		Password: "Gone12345",
		Role:     "instructor",
		Profile: &dto.ProfileData{
			Specialty: strPtr("Endodontics"),
			ClinicID:  &clinic.ID,
		},
	})
	assert.NoError(t, err)

	assert.NoError(t, uc.Delete(context.Background(), resp.ID))

	var users int64
	assert.NoError(t, db.Model(&entity.User{}).Where("id = ?", resp.ID).Count(&users).Error)
	assert.Zero(t, users)

	var profiles int64
	assert.NoError(t, db.Model(&entity.InstructorProfile{}).Where("user_id = ?", resp.ID).Count(&profiles).Error)
	assert.Zero(t, profiles)

	assert.ErrorIs(t, uc.Delete(context.Background(), resp.ID), ErrUserNotFound)
}

func TestListUsersPagination(t *testing.T) {
	uc, _ := newUserUsecase(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := uc.Create(context.Background(), &dto.CreateUserRequest{
			Name:     "User",
			Email:    email,
			Password: "Secret123",
			Role:     "admin",
		})
		assert.NoError(t, err)
	}

	users, total, err := uc.List(context.Background(), 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 2)

	users, _, err = uc.List(context.Background(), 2, 2)
	assert.NoError(t, err)
	assert.Len(t, users, 1)
}
