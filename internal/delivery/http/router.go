package http

import (
	"net/http"

	"clinisys-school/internal/delivery/http/handler"
	"clinisys-school/internal/delivery/http/middleware"
	"clinisys-school/internal/domain/entity"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	authHandler       *handler.AuthHandler
	userHandler       *handler.UserHandler
	clinicHandler     *handler.ClinicHandler
	patientHandler    *handler.PatientHandler
	attendanceHandler *handler.AttendanceHandler
	auditHandler      *handler.AuditHandler
	authMiddleware    *middleware.AuthMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	clinicHandler *handler.ClinicHandler,
	patientHandler *handler.PatientHandler,
	attendanceHandler *handler.AttendanceHandler,
	auditHandler *handler.AuditHandler,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		authHandler:       authHandler,
		userHandler:       userHandler,
		clinicHandler:     clinicHandler,
		patientHandler:    patientHandler,
		attendanceHandler: attendanceHandler,
		auditHandler:      auditHandler,
		authMiddleware:    authMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh", r.authHandler.Refresh).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)

	// User and clinic administration (admin only)
	admin := api.NewRoute().Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/users", r.userHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/users", r.userHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", r.userHandler.Get).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", r.userHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}", r.userHandler.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/users/{id}/deactivate", r.userHandler.Deactivate).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}/reactivate", r.userHandler.Reactivate).Methods(http.MethodPost)

	admin.HandleFunc("/audit-logs", r.auditHandler.List).Methods(http.MethodGet)

	admin.HandleFunc("/clinics", r.clinicHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/clinics/{id}", r.clinicHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/clinics/{id}", r.clinicHandler.Delete).Methods(http.MethodDelete)

	// Password change is self-service; the usecase enforces that only
	// admins may target other accounts.
	selfService := api.NewRoute().Subrouter()
	selfService.Use(r.authMiddleware.Authenticate)
	selfService.HandleFunc("/users/{id}/password", r.userHandler.ChangePassword).Methods(http.MethodPut)

	// Reads open to any authenticated role
	authenticated := api.NewRoute().Subrouter()
	authenticated.Use(r.authMiddleware.Authenticate)
	authenticated.HandleFunc("/clinics", r.clinicHandler.List).Methods(http.MethodGet)
	authenticated.HandleFunc("/clinics/{id}", r.clinicHandler.Get).Methods(http.MethodGet)
	authenticated.HandleFunc("/patients", r.patientHandler.List).Methods(http.MethodGet)
	authenticated.HandleFunc("/patients/{id}", r.patientHandler.Get).Methods(http.MethodGet)

	// Patient record writes and queue intake (admin and reception desk)
	staff := api.NewRoute().Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireStaff)

	staff.HandleFunc("/patients", r.patientHandler.Create).Methods(http.MethodPost)
	staff.HandleFunc("/patients/{id}", r.patientHandler.Update).Methods(http.MethodPut)
	staff.HandleFunc("/patients/{id}", r.patientHandler.Delete).Methods(http.MethodDelete)

	staff.HandleFunc("/attendance/queue", r.attendanceHandler.Enqueue).Methods(http.MethodPost)

	// Clinical roles also read and advance the queue
	clinical := api.NewRoute().Subrouter()
	clinical.Use(r.authMiddleware.Authenticate)
	clinical.Use(middleware.RequireRole(
		entity.RoleAdmin,
		entity.RoleReceptionist,
		entity.RoleInstructor,
		entity.RoleStudent,
	))
	clinical.HandleFunc("/attendance/queue", r.attendanceHandler.List).Methods(http.MethodGet)
	clinical.HandleFunc("/attendance/queue/call-next", r.attendanceHandler.CallNext).Methods(http.MethodPost)
	clinical.HandleFunc("/attendance/queue/{id}/status", r.attendanceHandler.UpdateStatus).Methods(http.MethodPut)

	r.router.Use(middleware.CORS)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
