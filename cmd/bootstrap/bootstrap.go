package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinisys-school/config"
	deliveryHttp "clinisys-school/internal/delivery/http"
	"clinisys-school/internal/delivery/http/handler"
	"clinisys-school/internal/delivery/http/middleware"
	"clinisys-school/internal/domain/entity"
	domainRepo "clinisys-school/internal/domain/repository"
	"clinisys-school/internal/infrastructure/cache"
	"clinisys-school/internal/infrastructure/database"
	"clinisys-school/internal/repository"
	"clinisys-school/internal/service"
	"clinisys-school/internal/usecase"
	"clinisys-school/pkg/jwt"
	"clinisys-school/pkg/password"
	"clinisys-school/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	refreshRepo domainRepo.RefreshTokenRepository
	stopCleanup chan struct{}
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Redis is optional: without it the login throttle and the token
	// revocation registry fall back to in-process state, which only
	// covers single-instance deployments.
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
	}

	server, err := initializeServer(cfg, db, app.RedisClient)
	if err != nil {
		return nil, err
	}
	app.Server = server
	app.refreshRepo = repository.NewRefreshTokenRepository()
	app.stopCleanup = make(chan struct{})

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, error) {
	jwtService := jwt.NewJWTService(cfg.JWT)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	profileRepo := repository.NewProfileRepository()
	clinicRepo := repository.NewClinicRepository()
	patientRepo := repository.NewPatientRepository()
	queueRepo := repository.NewAttendanceQueueRepository()
	refreshRepo := repository.NewRefreshTokenRepository()
	auditRepo := repository.NewAuditLogRepository()

	log := logrus.StandardLogger()

	// Initialize services
	var attempts service.AttemptTracker
	var revocation service.RevocationRegistry
	if redisClient != nil {
		attempts = service.NewRedisAttemptTracker(redisClient)
		revocation = service.NewRedisRevocationRegistry(redisClient, jwtService.GetAccessExpiry())
	} else {
		attempts = service.NewMemoryAttemptTracker()
		revocation = service.NewMemoryRevocationRegistry()
	}
	audit := service.NewAuditService(log, auditRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, profileRepo, refreshRepo, jwtService, hasher, attempts, revocation, audit, cfg.Auth.RefreshTokenExpiry)
	userUsecase := usecase.NewUserUsecase(db, log, userRepo, profileRepo, clinicRepo, refreshRepo, hasher, audit)
	clinicUsecase := usecase.NewClinicUsecase(db, log, clinicRepo, profileRepo, audit)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo, audit)
	attendanceUsecase := usecase.NewAttendanceUsecase(db, log, queueRepo, patientRepo, audit)
	auditUsecase := usecase.NewAuditUsecase(db, log, auditRepo)

	if err := seedBootstrapAdmin(cfg, db, userRepo, hasher); err != nil {
		return nil, fmt.Errorf("failed to seed bootstrap admin: %w", err)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	userHandler := handler.NewUserHandler(userUsecase, customValidator)
	clinicHandler := handler.NewClinicHandler(clinicUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientUsecase, customValidator)
	attendanceHandler := handler.NewAttendanceHandler(attendanceUsecase, customValidator)
	auditHandler := handler.NewAuditHandler(auditUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(db, jwtService, userRepo, revocation)

	// Initialize router
	router := deliveryHttp.NewRouter(authHandler, userHandler, clinicHandler, patientHandler, attendanceHandler, auditHandler, authMiddleware)
	httpRouter := router.Setup()

	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}, nil
}

// seedBootstrapAdmin creates the configured admin account when the store
// has no admin yet, so a fresh deployment can log in at all.
func seedBootstrapAdmin(cfg *config.Config, db *gorm.DB, userRepo domainRepo.UserRepository, hasher *password.Hasher) error {
	admin := cfg.Auth.BootstrapAdmin
	if admin.Email == "" || admin.Password == "" {
		return nil
	}

	count, err := userRepo.CountByRole(db, entity.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := hasher.Hash(admin.Password)
	if err != nil {
		return err
	}

	name := admin.Name
	if name == "" {
		name = "Administrator"
	}

	user := &entity.User{
		Name:         name,
		Email:        admin.Email,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		Active:       true,
	}
	if err := userRepo.Create(db, user); err != nil {
		return err
	}

	logrus.WithField("email", admin.Email).Info("Bootstrap admin account created")
	return nil
}

// runTokenCleanup purges expired refresh tokens once a day. Expired
// tokens are already unusable; this only keeps the table from growing
// without bound.
func (app *App) runTokenCleanup() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deleted, err := app.refreshRepo.DeleteExpired(app.DB)
			if err != nil {
				logrus.Warnf("Failed to purge expired refresh tokens: %v", err)
				continue
			}
			if deleted > 0 {
				logrus.Infof("Purged %d expired refresh tokens", deleted)
			}
		case <-app.stopCleanup:
			return
		}
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go app.runTokenCleanup()

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	close(app.stopCleanup)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
