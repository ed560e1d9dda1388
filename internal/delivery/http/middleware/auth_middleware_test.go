package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"clinisys-school/config"
	"clinisys-school/internal/domain/entity"
	"clinisys-school/internal/repository"
	"clinisys-school/internal/service"
	"clinisys-school/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter atomic.Int64

type middlewareFixture struct {
	db         *gorm.DB
	jwt        *jwt.JWTService
	revocation service.RevocationRegistry
	middleware *AuthMiddleware
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:middleware_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&entity.User{}))

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:       "test-secret",
		AccessExpiry: time.Hour,
	})
	revocation := service.NewMemoryRevocationRegistry()

	return &middlewareFixture{
		db:         db,
		jwt:        jwtService,
		revocation: revocation,
		middleware: NewAuthMiddleware(db, jwtService, repository.NewUserRepository(), revocation),
	}
}

func (f *middlewareFixture) createUser(t *testing.T, role entity.Role, active bool) *entity.User {
	t.Helper()

	user := &entity.User{
		Name:         "Test User",
		Email:        fmt.Sprintf("%s@example.com", role),
		PasswordHash: "irrelevant",
		Role:         role,
		Active:       active,
	}
	assert.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *middlewareFixture) tokenFor(t *testing.T, user *entity.User) string {
	t.Helper()

	token, _, err := f.jwt.GenerateAccessToken(fmt.Sprintf("%d", user.ID), string(user.Role))
	assert.NoError(t, err)
	return token
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateValidToken(t *testing.T) {
	f := newMiddlewareFixture(t)
	user := f.createUser(t, entity.RoleAdmin, true)

	var gotID uint
	var gotRole entity.Role
	handler := f.middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserIDFromContext(r.Context())
		gotRole, _ = GetUserRoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+f.tokenFor(t, user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, gotID)
	assert.Equal(t, entity.RoleAdmin, gotRole)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	f := newMiddlewareFixture(t)
	handler := f.middleware.Authenticate(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	f := newMiddlewareFixture(t)
	handler := f.middleware.Authenticate(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRevokedToken(t *testing.T) {
	f := newMiddlewareFixture(t)
	user := f.createUser(t, entity.RoleAdmin, true)

	token, tokenID, err := f.jwt.GenerateAccessToken(fmt.Sprintf("%d", user.ID), "admin")
	assert.NoError(t, err)
	assert.NoError(t, f.revocation.Revoke(context.Background(), tokenID))

	handler := f.middleware.Authenticate(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "RevokedToken")
}

func TestAuthenticateInactiveUser(t *testing.T) {
	f := newMiddlewareFixture(t)
	user := f.createUser(t, entity.RoleReceptionist, false)

	handler := f.middleware.Authenticate(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+f.tokenFor(t, user))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "InactiveOrMissingUser")
}

func TestAuthenticateDeletedUser(t *testing.T) {
	f := newMiddlewareFixture(t)
	user := f.createUser(t, entity.RoleAdmin, true)
	token := f.tokenFor(t, user)
	assert.NoError(t, f.db.Delete(user).Error)

	handler := f.middleware.Authenticate(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	f := newMiddlewareFixture(t)
	student := f.createUser(t, entity.RoleStudent, true)
	admin := f.createUser(t, entity.RoleAdmin, true)

	handler := f.middleware.Authenticate(RequireAdmin(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+f.tokenFor(t, student))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+f.tokenFor(t, admin))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleWithoutAuthentication(t *testing.T) {
	handler := RequireRole(entity.RoleAdmin)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleComesFromStoreNotToken(t *testing.T) {
	f := newMiddlewareFixture(t)
	user := f.createUser(t, entity.RoleStudent, true)

	// Token claims admin but the store says student; the store wins.
	token, _, err := f.jwt.GenerateAccessToken(fmt.Sprintf("%d", user.ID), "admin")
	assert.NoError(t, err)

	handler := f.middleware.Authenticate(RequireAdmin(okHandler()))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
