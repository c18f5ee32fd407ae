package http

import (
	"net/http"

	"beauty-center-backend/internal/delivery/http/handler"
	"beauty-center-backend/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Company     *handler.CompanyHandler
	Location    *handler.LocationHandler
	Service     *handler.ServiceHandler
	Employee    *handler.EmployeeHandler
	Customer    *handler.CustomerHandler
	Appointment *handler.AppointmentHandler
	User        *handler.UserHandler
	AuditLog    *handler.AuditLogHandler
}

type Router struct {
	router            *mux.Router
	handlers          Handlers
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	metricsMiddleware *middleware.MetricsMiddleware
	metricsHandler    http.Handler
	metricsPath       string
}

// NewRouter wires the API. metricsMiddleware and metricsHandler may be nil
// when metrics are disabled.
func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metricsMiddleware *middleware.MetricsMiddleware,
	metricsHandler http.Handler,
	metricsPath string,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		handlers:          handlers,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		metricsMiddleware: metricsMiddleware,
		metricsHandler:    metricsHandler,
		metricsPath:       metricsPath,
	}
}

func (r *Router) Setup() *mux.Router {
	h := r.handlers

	r.router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	if r.metricsHandler != nil {
		r.router.Handle(r.metricsPath, r.metricsHandler).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", h.Auth.GetCurrentUser).Methods(http.MethodGet)

	// Everything below requires a valid access token.
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	// Password changes are open to the account owner; the usecase checks ownership.
	protected.HandleFunc("/users/{id}/password", h.User.ChangePassword).Methods(http.MethodPut)

	staff := protected.NewRoute().Subrouter()
	staff.Use(middleware.RequireStaff)

	manager := protected.NewRoute().Subrouter()
	manager.Use(middleware.RequireManager)

	admin := protected.NewRoute().Subrouter()
	admin.Use(middleware.RequireAdmin)

	// Companies (staff read, admin write)
	staff.HandleFunc("/companies", h.Company.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/companies/{id}", h.Company.GetByID).Methods(http.MethodGet)
	staff.HandleFunc("/companies/{companyId}/locations", h.Location.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/companies/{companyId}/services", h.Service.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/companies/{companyId}/employees", h.Employee.GetAll).Methods(http.MethodGet)
	admin.HandleFunc("/companies", h.Company.Create).Methods(http.MethodPost)
	admin.HandleFunc("/companies/{id}", h.Company.Update).Methods(http.MethodPut)
	admin.HandleFunc("/companies/{id}", h.Company.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/companies/{id}/activate", h.Company.Activate).Methods(http.MethodPatch)
	admin.HandleFunc("/companies/{id}/deactivate", h.Company.Deactivate).Methods(http.MethodPatch)

	// Catalog (staff read, manager write)
	staff.HandleFunc("/locations", h.Location.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/locations/{id}", h.Location.GetByID).Methods(http.MethodGet)
	manager.HandleFunc("/locations", h.Location.Create).Methods(http.MethodPost)
	manager.HandleFunc("/locations/{id}", h.Location.Update).Methods(http.MethodPut)
	manager.HandleFunc("/locations/{id}", h.Location.Delete).Methods(http.MethodDelete)

	staff.HandleFunc("/services", h.Service.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/services/{id}", h.Service.GetByID).Methods(http.MethodGet)
	manager.HandleFunc("/services", h.Service.Create).Methods(http.MethodPost)
	manager.HandleFunc("/services/{id}", h.Service.Update).Methods(http.MethodPut)
	manager.HandleFunc("/services/{id}", h.Service.Delete).Methods(http.MethodDelete)

	staff.HandleFunc("/employees", h.Employee.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/employees/{id}", h.Employee.GetByID).Methods(http.MethodGet)
	manager.HandleFunc("/employees", h.Employee.Create).Methods(http.MethodPost)
	manager.HandleFunc("/employees/{id}", h.Employee.Update).Methods(http.MethodPut)
	manager.HandleFunc("/employees/{id}", h.Employee.Delete).Methods(http.MethodDelete)

	// Customers
	staff.HandleFunc("/customers", h.Customer.Create).Methods(http.MethodPost)
	staff.HandleFunc("/customers", h.Customer.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/customers/{id}", h.Customer.GetByID).Methods(http.MethodGet)
	staff.HandleFunc("/customers/{id}", h.Customer.Update).Methods(http.MethodPut)
	manager.HandleFunc("/customers/{id}", h.Customer.Delete).Methods(http.MethodDelete)

	// Appointments; fixed paths are registered before /{id}.
	staff.HandleFunc("/appointments/availability", h.Appointment.Availability).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/by-date/{date}", h.Appointment.GetByDate).Methods(http.MethodGet)
	staff.HandleFunc("/appointments", h.Appointment.Create).Methods(http.MethodPost)
	staff.HandleFunc("/appointments", h.Appointment.GetAll).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}", h.Appointment.GetByID).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}", h.Appointment.Update).Methods(http.MethodPut)
	manager.HandleFunc("/appointments/{id}", h.Appointment.Delete).Methods(http.MethodDelete)
	staff.HandleFunc("/appointments/{id}/confirm", h.Appointment.Confirm).Methods(http.MethodPost)
	staff.HandleFunc("/appointments/{id}/start", h.Appointment.Start).Methods(http.MethodPost)
	staff.HandleFunc("/appointments/{id}/complete", h.Appointment.Complete).Methods(http.MethodPost)
	staff.HandleFunc("/appointments/{id}/cancel", h.Appointment.Cancel).Methods(http.MethodPost)
	staff.HandleFunc("/appointments/{id}/no-show", h.Appointment.MarkNoShow).Methods(http.MethodPost)
	staff.HandleFunc("/appointments/{id}/services/{serviceId}", h.Appointment.AddService).Methods(http.MethodPost)
	staff.HandleFunc("/appointments/{id}/services/{serviceId}", h.Appointment.RemoveService).Methods(http.MethodDelete)

	// User management (admin)
	admin.HandleFunc("/users", h.User.Create).Methods(http.MethodPost)
	admin.HandleFunc("/users", h.User.GetAll).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", h.User.GetByID).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", h.User.Update).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}", h.User.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/users/{id}/activate", h.User.Activate).Methods(http.MethodPatch)
	admin.HandleFunc("/users/{id}/deactivate", h.User.Deactivate).Methods(http.MethodPatch)
	admin.HandleFunc("/users/{id}/roles/{roleId}", h.User.AddRole).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}/roles/{roleId}", h.User.RemoveRole).Methods(http.MethodDelete)

	// Audit trail (admin)
	admin.HandleFunc("/audit-logs", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	if r.metricsMiddleware != nil {
		r.router.Use(r.metricsMiddleware.Handle)
	}
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}
