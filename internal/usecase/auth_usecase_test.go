package usecase

import (
	"context"
	"fmt"
	"testing"

	"clinisys-school/internal/delivery/dto"
	"clinisys-school/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)
	createUser(t, f.db, "admin@example.com", "Admin1234", entity.RoleAdmin, true)

	tokens, err := f.usecase.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "Admin1234",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "bearer", tokens.TokenType)
	assert.Equal(t, int64(3600), tokens.ExpiresIn)

	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	createUser(t, f.db, "admin@example.com", "Admin1234", entity.RoleAdmin, true)

	_, err := f.usecase.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "Wrong1234",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.usecase.Login(context.Background(), &dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "Whatever1",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	f := newAuthFixture(t)
	createUser(t, f.db, "former@example.com", "Former123", entity.RoleReceptionist, false)

	_, err := f.usecase.Login(context.Background(), &dto.LoginRequest{
		Email:    "former@example.com",
		Password: "Former123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRateLimited(t *testing.T) {
	f := newAuthFixture(t)
	createUser(t, f.db, "admin@example.com", "Admin1234", entity.RoleAdmin, true)

	for i := 0; i < 5; i++ {
		_, err := f.usecase.Login(context.Background(), &dto.LoginRequest{
			Email:    "admin@example.com",
			Password: fmt.Sprintf("Wrong%d23", i),
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Sixth attempt is rejected before credentials are even checked.
	_, err := f.usecase.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "Admin1234",
	})
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestRefreshRotation(t *testing.T) {
	f := newAuthFixture(t)
	createUser(t, f.db, "admin@example.com", "Admin1234", entity.RoleAdmin, true)

	tokens, err := f.usecase.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "Admin1234",
	})
	assert.NoError(t, err)

	rotated, err := f.usecase.Refresh(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: tokens.RefreshToken,
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// Replaying the consumed token must fail.
	_, err = f.usecase.Refresh(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: tokens.RefreshToken,
	})
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The replacement still works.
	_, err = f.usecase.Refresh(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: rotated.RefreshToken,
	})
	assert.NoError(t, err)
}

func TestRefreshGarbageToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.usecase.Refresh(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: "not-base64!@#",
	})
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshRejectedForDeactivatedUser(t *testing.T) {
	f := newAuthFixture(t)
	user := createUser(t, f.db, "admin@example.com", "Admin1234", entity.RoleAdmin, true)

	tokens, err := f.usecase.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "Admin1234",
	})
	assert.NoError(t, err)

	assert.NoError(t, f.db.Model(user).Update("active", false).Error)

	_, err = f.usecase.Refresh(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: tokens.RefreshToken,
	})
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	user := createUser(t, f.db, "admin@example.com", "Admin1234", entity.RoleAdmin, true)

	tokens, err := f.usecase.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "Admin1234",
	})
	assert.NoError(t, err)

	claims, err := f.jwt.ValidateToken(tokens.AccessToken)
	assert.NoError(t, err)

	assert.NoError(t, f.usecase.Logout(context.Background(), claims.TokenID, user.ID))

	revoked, err := f.revocation.IsRevoked(context.Background(), claims.TokenID)
	assert.NoError(t, err)
	assert.True(t, revoked)

	// Logging out twice, or with an empty token id, is a no-op success.
	assert.NoError(t, f.usecase.Logout(context.Background(), claims.TokenID, user.ID))
	assert.NoError(t, f.usecase.Logout(context.Background(), "", 0))
}

func TestPlaintextRefreshTokenNotStored(t *testing.T) {
	f := newAuthFixture(t)
	createUser(t, f.db, "admin@example.com", "Admin1234", entity.RoleAdmin, true)

	tokens, err := f.usecase.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "Admin1234",
	})
	assert.NoError(t, err)

	var records []entity.RefreshToken
	assert.NoError(t, f.db.Find(&records).Error)
	assert.Len(t, records, 1)
	assert.NotEmpty(t, records[0].TokenHash)
	assert.NotContains(t, tokens.RefreshToken, records[0].TokenHash)
	assert.NotEqual(t, tokens.RefreshToken, records[0].TokenHash)
}

func TestGetCurrentUser(t *testing.T) {
	f := newAuthFixture(t)
	user := createUser(t, f.db, "desk@example.com", "Desk12345", entity.RoleReceptionist, true)
	assert.NoError(t, f.db.Create(&entity.ReceptionistProfile{UserID: user.ID}).Error)

	resp, err := f.usecase.GetCurrentUser(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "desk@example.com", resp.Email)
	assert.Equal(t, "receptionist", resp.Role)
	assert.NotNil(t, resp.Profile)
	assert.NotNil(t, resp.Profile.Receptionist)

	_, err = f.usecase.GetCurrentUser(context.Background(), user.ID+999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
