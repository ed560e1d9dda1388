package usecase

import (
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"clinisys-school/config"
	"clinisys-school/internal/domain/entity"
	"clinisys-school/internal/repository"
	"clinisys-school/internal/service"
	"clinisys-school/pkg/jwt"
	"clinisys-school/pkg/password"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database keeps every pooled connection on the
	// same in-memory store; the counter isolates tests from each other.
	dsn := fmt.Sprintf("file:usecase_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&entity.Clinic{},
		&entity.User{},
		&entity.InstructorProfile{},
		&entity.StudentProfile{},
		&entity.ReceptionistProfile{},
		&entity.Patient{},
		&entity.AttendanceQueueEntry{},
		&entity.RefreshToken{},
		&entity.AuditLog{},
	)
	assert.NoError(t, err)

	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// testHasher uses the minimum bcrypt cost to keep the suite fast.
func testHasher() *password.Hasher {
	return password.NewHasher(bcrypt.MinCost)
}

func newTestJWTService() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		Secret:       "test-secret",
		AccessExpiry: time.Hour,
	})
}

type authFixture struct {
	db         *gorm.DB
	usecase    AuthUsecase
	jwt        *jwt.JWTService
	tracker    service.AttemptTracker
	revocation service.RevocationRegistry
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()
	jwtService := newTestJWTService()
	tracker := service.NewMemoryAttemptTracker()
	revocation := service.NewMemoryRevocationRegistry()
	auditRepo := repository.NewAuditLogRepository()

	uc := NewAuthUsecase(
		db,
		log,
		repository.NewUserRepository(),
		repository.NewProfileRepository(),
		repository.NewRefreshTokenRepository(),
		jwtService,
		testHasher(),
		tracker,
		revocation,
		service.NewAuditService(log, auditRepo),
		7*24*time.Hour,
	)

	return &authFixture{db: db, usecase: uc, jwt: jwtService, tracker: tracker, revocation: revocation}
}

func createUser(t *testing.T, db *gorm.DB, email, plaintext string, role entity.Role, active bool) *entity.User {
	t.Helper()

	hash, err := testHasher().Hash(plaintext)
	assert.NoError(t, err)

	user := &entity.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       active,
	}
	assert.NoError(t, db.Create(user).Error)
	return user
}

func createClinic(t *testing.T, db *gorm.DB, code, name string) *entity.Clinic {
	t.Helper()

	clinic := &entity.Clinic{Code: code, Name: name}
	assert.NoError(t, db.Create(clinic).Error)
	return clinic
}

func createPatient(t *testing.T, db *gorm.DB, name, nationalID string) *entity.Patient {
	t.Helper()

	patient := &entity.Patient{
		FullName:         name,
		NationalID:       nationalID,
		BirthDate:        time.Date(2010, 5, 4, 0, 0, 0, 0, time.UTC),
		AttendanceStatus: "registered",
	}
	assert.NoError(t, db.Create(patient).Error)
	return patient
}
