package usecase

import (
	"context"
	"errors"

	"clinisys-school/internal/converter"
	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/domain/entity"
	"clinisys-school/internal/domain/repository"
	"clinisys-school/internal/service"
	"clinisys-school/pkg/password"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists      = errors.New("email already exists")
	ErrNationalIDAlreadyExists = errors.New("national id already exists")
	ErrClinicRequired          = errors.New("clinic id is required for this role")
	ErrClinicNotFound          = errors.New("clinic not found")
	ErrWeakPassword            = password.ErrWeakPassword
	ErrWrongCurrentPassword    = errors.New("current password is incorrect")
	ErrForbidden               = errors.New("access denied")
	ErrInvalidRole             = errors.New("invalid role")
)

type UserUsecase interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Get(ctx context.Context, id uint) (*dto.UserResponse, error)
	List(ctx context.Context, page, limit int) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Deactivate(ctx context.Context, id uint) (*dto.UserResponse, error)
	Reactivate(ctx context.Context, id uint) (*dto.UserResponse, error)
	Delete(ctx context.Context, id uint) error
	// ChangePassword lets a user change their own password with the
	// current one verified, or an admin change anyone's without it.
	ChangePassword(ctx context.Context, actorID uint, actorRole entity.Role, targetID uint, req *dto.ChangePasswordRequest) error
}

type userUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	clinicRepo  repository.ClinicRepository
	refreshRepo repository.RefreshTokenRepository
	hasher      *password.Hasher
	audit       service.AuditService
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	clinicRepo repository.ClinicRepository,
	refreshRepo repository.RefreshTokenRepository,
	hasher *password.Hasher,
	audit service.AuditService,
) UserUsecase {
	return &userUsecase{
		db:          db,
		log:         log,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		clinicRepo:  clinicRepo,
		refreshRepo: refreshRepo,
		hasher:      hasher,
		audit:       audit,
	}
}

func (u *userUsecase) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := password.ValidatePolicy(req.Password); err != nil {
		return nil, err
	}

	role := entity.Role(req.Role)
	if !entity.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	db := u.db.WithContext(ctx)

	existing, err := u.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		u.log.Warnf("Failed to check existing email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := u.hasher.Hash(req.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		NationalID:   req.NationalID,
		Phone:        req.Phone,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := u.userRepo.Create(tx, user); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			if isDuplicateKeyError(err, "national_id") {
				return ErrNationalIDAlreadyExists
			}
			return err
		}
		return u.createRoleProfile(tx, user, req.Profile)
	})
	if err != nil {
		if !errors.Is(err, ErrEmailAlreadyExists) && !errors.Is(err, ErrNationalIDAlreadyExists) &&
			!errors.Is(err, ErrClinicRequired) && !errors.Is(err, ErrClinicNotFound) {
			u.log.Warnf("Failed to create user: %+v", err)
		}
		return nil, err
	}

	u.audit.Record(db, &user.ID, entity.AuditActionUserCreate, entity.JSON{"email": user.Email, "role": string(user.Role)})

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) Get(ctx context.Context, id uint) (*dto.UserResponse, error) {
	db := u.db.WithContext(ctx)

	user, err := u.userRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	resp := converter.UserToResponse(user)
	profile, err := loadRoleProfile(db, u.profileRepo, user)
	if err != nil {
		u.log.Warnf("Failed to load role profile: %+v", err)
		return nil, err
	}
	resp.Profile = profile

	return resp, nil
}

func (u *userUsecase) List(ctx context.Context, page, limit int) ([]dto.UserResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	users, total, err := u.userRepo.FindAll(u.db.WithContext(ctx), page, limit)
	if err != nil {
		u.log.Warnf("Failed to list users: %+v", err)
		return nil, 0, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *converter.UserToResponse(&users[i]))
	}
	return responses, total, nil
}

func (u *userUsecase) Update(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	db := u.db.WithContext(ctx)

	user, err := u.userRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Email != nil && *req.Email != user.Email {
		existing, err := u.userRepo.FindByEmail(db, *req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.NationalID != nil {
		user.NationalID = req.NationalID
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}

	roleChanged := false
	if req.Role != nil && entity.Role(*req.Role) != user.Role {
		newRole := entity.Role(*req.Role)
		if !entity.ValidRole(newRole) {
			return nil, ErrInvalidRole
		}
		user.Role = newRole
		roleChanged = true
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if roleChanged {
			// Role change drops the old profile variant and creates the
			// new one with its mandatory fields.
			if err := u.profileRepo.DeleteAllForUser(tx, user.ID); err != nil {
				return err
			}
			if err := u.createRoleProfile(tx, user, req.Profile); err != nil {
				return err
			}
		}
		if err := u.userRepo.Update(tx, user); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			if isDuplicateKeyError(err, "national_id") {
				return ErrNationalIDAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.audit.Record(db, &user.ID, entity.AuditActionUserUpdate, entity.JSON{"role_changed": roleChanged})

	resp := converter.UserToResponse(user)
	profile, err := loadRoleProfile(db, u.profileRepo, user)
	if err != nil {
		return nil, err
	}
	resp.Profile = profile
	return resp, nil
}

func (u *userUsecase) Deactivate(ctx context.Context, id uint) (*dto.UserResponse, error) {
	return u.setActive(ctx, id, false, entity.AuditActionUserDeactivate)
}

func (u *userUsecase) Reactivate(ctx context.Context, id uint) (*dto.UserResponse, error) {
	return u.setActive(ctx, id, true, entity.AuditActionUserReactivate)
}

func (u *userUsecase) setActive(ctx context.Context, id uint, active bool, action string) (*dto.UserResponse, error) {
	db := u.db.WithContext(ctx)

	user, err := u.userRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.Active = active
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := u.userRepo.Update(tx, user); err != nil {
			return err
		}
		if !active {
			// A deactivated user keeps no live sessions.
			return u.refreshRepo.RevokeAllForUser(tx, user.ID)
		}
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to update user active flag: %+v", err)
		return nil, err
	}

	u.audit.Record(db, &user.ID, action, nil)

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) Delete(ctx context.Context, id uint) error {
	db := u.db.WithContext(ctx)

	user, err := u.userRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := u.profileRepo.DeleteAllForUser(tx, user.ID); err != nil {
			return err
		}
		if err := u.refreshRepo.RevokeAllForUser(tx, user.ID); err != nil {
			return err
		}
		return u.userRepo.Delete(tx, user)
	})
	if err != nil {
		u.log.Warnf("Failed to delete user: %+v", err)
		return err
	}

	u.audit.Record(db, nil, entity.AuditActionUserDelete, entity.JSON{"user_id": user.ID, "email": user.Email})

	return nil
}

func (u *userUsecase) ChangePassword(ctx context.Context, actorID uint, actorRole entity.Role, targetID uint, req *dto.ChangePasswordRequest) error {
	if actorRole != entity.RoleAdmin && actorID != targetID {
		return ErrForbidden
	}

	if err := password.ValidatePolicy(req.NewPassword); err != nil {
		return err
	}

	db := u.db.WithContext(ctx)

	user, err := u.userRepo.FindByID(db, targetID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	// Self-change requires the current password; an admin changing another
	// user's password does not.
	if actorID == targetID {
		if !u.hasher.Verify(req.CurrentPassword, user.PasswordHash) {
			return ErrWrongCurrentPassword
		}
	}

	hash, err := u.hasher.Hash(req.NewPassword)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}
	user.PasswordHash = hash

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := u.userRepo.Update(tx, user); err != nil {
			return err
		}
		// Old sessions die with the old password.
		return u.refreshRepo.RevokeAllForUser(tx, user.ID)
	})
	if err != nil {
		u.log.Warnf("Failed to change password: %+v", err)
		return err
	}

	u.audit.Record(db, &actorID, entity.AuditActionPasswordChange, entity.JSON{"target_user_id": targetID})

	return nil
}

// createRoleProfile creates the profile variant required by the user's
// role. Instructor and student profiles require a valid clinic.
func (u *userUsecase) createRoleProfile(tx *gorm.DB, user *entity.User, data *dto.ProfileData) error {
	switch user.Role {
	case entity.RoleInstructor:
		if data == nil || data.ClinicID == nil {
			return ErrClinicRequired
		}
		if err := u.requireClinic(tx, *data.ClinicID); err != nil {
			return err
		}
		return u.profileRepo.CreateInstructor(tx, &entity.InstructorProfile{
			UserID:    user.ID,
			Specialty: data.Specialty,
			ClinicID:  data.ClinicID,
		})
	case entity.RoleStudent:
		if data == nil || data.ClinicID == nil {
			return ErrClinicRequired
		}
		if err := u.requireClinic(tx, *data.ClinicID); err != nil {
			return err
		}
		return u.profileRepo.CreateStudent(tx, &entity.StudentProfile{
			UserID:           user.ID,
			EnrollmentNumber: data.EnrollmentNumber,
			Phone:            data.Phone,
			ClinicID:         data.ClinicID,
		})
	case entity.RoleReceptionist:
		var phone *string
		if data != nil {
			phone = data.Phone
		}
		return u.profileRepo.CreateReceptionist(tx, &entity.ReceptionistProfile{
			UserID: user.ID,
			Phone:  phone,
		})
	}
	// Admins carry no role profile.
	return nil
}

func (u *userUsecase) requireClinic(tx *gorm.DB, clinicID uint) error {
	clinic, err := u.clinicRepo.FindByID(tx, clinicID)
	if err != nil {
		return err
	}
	if clinic == nil {
		return ErrClinicNotFound
	}
	return nil
}
