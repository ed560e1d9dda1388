package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"clinisys-school/internal/converter"
	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/domain/entity"
	"clinisys-school/internal/domain/repository"
	"clinisys-school/internal/service"
	"clinisys-school/pkg/jwt"
	"clinisys-school/pkg/password"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrRateLimited         = errors.New("too many login attempts, try again later")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserInactive        = errors.New("user is inactive")
)

const refreshSecretBytes = 32

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	// Logout revokes the access token the middleware already validated.
	// Revoking an unknown or already revoked token id is an idempotent
	// success.
	Logout(ctx context.Context, tokenID string, userID uint) error
	GetCurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error)
}

type authUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	refreshRepo repository.RefreshTokenRepository
	jwtService  *jwt.JWTService
	hasher      *password.Hasher
	attempts    service.AttemptTracker
	revocation  service.RevocationRegistry
	audit       service.AuditService
	refreshTTL  time.Duration
	now         func() time.Time
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	refreshRepo repository.RefreshTokenRepository,
	jwtService *jwt.JWTService,
	hasher *password.Hasher,
	attempts service.AttemptTracker,
	revocation service.RevocationRegistry,
	audit service.AuditService,
	refreshTTL time.Duration,
) AuthUsecase {
	return &authUsecase{
		db:          db,
		log:         log,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		refreshRepo: refreshRepo,
		jwtService:  jwtService,
		hasher:      hasher,
		attempts:    attempts,
		revocation:  revocation,
		audit:       audit,
		refreshTTL:  refreshTTL,
		now:         time.Now,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	allowed, err := u.attempts.Allow(ctx, req.Email)
	if err != nil {
		u.log.Warnf("Failed to check login attempts: %+v", err)
		return nil, err
	}
	if !allowed {
		return nil, ErrRateLimited
	}

	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}

	// Missing users, inactive users and wrong passwords are all counted as
	// failures and reported identically.
	if user == nil || !user.Active || !u.hasher.Verify(req.Password, user.PasswordHash) {
		if err := u.attempts.RecordFailure(ctx, req.Email); err != nil {
			u.log.Warnf("Failed to record login failure: %+v", err)
		}
		return nil, ErrInvalidCredentials
	}

	if err := u.attempts.RecordSuccess(ctx, req.Email); err != nil {
		u.log.Warnf("Failed to reset login attempts: %+v", err)
	}

	// Stored hash below current cost policy gets replaced with the
	// just-verified plaintext.
	if u.hasher.NeedsRehash(user.PasswordHash) {
		if rehashed, err := u.hasher.Hash(req.Password); err == nil {
			user.PasswordHash = rehashed
			if err := u.userRepo.Update(u.db.WithContext(ctx), user); err != nil {
				u.log.Warnf("Failed to persist rehashed password: %+v", err)
			}
		}
	}

	tokens, err := u.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	u.audit.Record(u.db.WithContext(ctx), &user.ID, entity.AuditActionUserLogin, entity.JSON{"email": user.Email})

	return tokens, nil
}

func (u *authUsecase) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	tokenID, secret, ok := parseRefreshPlaintext(req.RefreshToken)
	if !ok {
		return nil, ErrInvalidRefreshToken
	}

	record, err := u.refreshRepo.FindByTokenID(u.db.WithContext(ctx), tokenID)
	if err != nil {
		u.log.Warnf("Failed to look up refresh token: %+v", err)
		return nil, err
	}
	if record == nil || !record.Usable(u.now()) || !u.hasher.Verify(secret, record.TokenHash) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), record.UserID)
	if err != nil {
		u.log.Warnf("Failed to load refresh token owner: %+v", err)
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, ErrInvalidRefreshToken
	}

	// Rotation: old record revoked and replacement issued in one
	// transaction so a failure leaves no partial state.
	var plaintext string
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.refreshRepo.Revoke(tx, record); err != nil {
			return err
		}
		var err error
		plaintext, err = u.issueRefreshToken(tx, user.ID)
		return err
	})
	if err != nil {
		u.log.Warnf("Failed to rotate refresh token: %+v", err)
		return nil, err
	}

	accessToken, _, err := u.jwtService.GenerateAccessToken(strconv.FormatUint(uint64(user.ID), 10), string(user.Role))
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: plaintext,
		TokenType:    "bearer",
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, tokenID string, userID uint) error {
	if tokenID == "" {
		// Nothing to revoke.
		return nil
	}

	if err := u.revocation.Revoke(ctx, tokenID); err != nil {
		u.log.Warnf("Failed to record revoked token: %+v", err)
		return err
	}

	var actor *uint
	if userID != 0 {
		actor = &userID
	}
	u.audit.Record(u.db.WithContext(ctx), actor, entity.AuditActionUserLogout, entity.JSON{"token_id": tokenID})

	return nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	db := u.db.WithContext(ctx)

	user, err := u.userRepo.FindByID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.Active {
		return nil, ErrUserInactive
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

// issueTokenPair creates a fresh access token and a persisted refresh
// token for the user.
func (u *authUsecase) issueTokenPair(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	accessToken, _, err := u.jwtService.GenerateAccessToken(strconv.FormatUint(uint64(user.ID), 10), string(user.Role))
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	var plaintext string
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		plaintext, err = u.issueRefreshToken(tx, user.ID)
		return err
	})
	if err != nil {
		u.log.Warnf("Failed to issue refresh token: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: plaintext,
		TokenType:    "bearer",
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// issueRefreshToken persists a hash of a fresh random secret and returns
// the plaintext handed to the client: base64(token_id + ":" + secret).
// The plaintext is never retrievable again.
func (u *authUsecase) issueRefreshToken(tx *gorm.DB, userID uint) (string, error) {
	tokenID := uuid.New().String()
	secret, err := randomSecret(refreshSecretBytes)
	if err != nil {
		return "", err
	}

	hash, err := u.hasher.Hash(secret)
	if err != nil {
		return "", err
	}

	record := &entity.RefreshToken{
		TokenID:   tokenID,
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: u.now().Add(u.refreshTTL),
	}
	if err := u.refreshRepo.Create(tx, record); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString([]byte(tokenID + ":" + secret)), nil
}

// loadRoleProfile fetches the profile variant matching the user's role.
func loadRoleProfile(db *gorm.DB, profileRepo repository.ProfileRepository, user *entity.User) (*dto.RoleProfileResponse, error) {
	switch user.Role {
	case entity.RoleInstructor:
		profile, err := profileRepo.FindInstructorByUserID(db, user.ID)
		if err != nil {
			return nil, err
		}
		return converter.InstructorProfileToData(profile), nil
	case entity.RoleStudent:
		profile, err := profileRepo.FindStudentByUserID(db, user.ID)
		if err != nil {
			return nil, err
		}
		return converter.StudentProfileToData(profile), nil
	case entity.RoleReceptionist:
		profile, err := profileRepo.FindReceptionistByUserID(db, user.ID)
		if err != nil {
			return nil, err
		}
		return converter.ReceptionistProfileToData(profile), nil
	}
	return nil, nil
}

func parseRefreshPlaintext(plaintext string) (tokenID, secret string, ok bool) {
	raw, err := base64.RawURLEncoding.DecodeString(plaintext)
	if err != nil {
		return "", "", false
	}
	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

const secretAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = secretAlphabet[int(b[i])%len(secretAlphabet)]
	}
	return string(b), nil
}
