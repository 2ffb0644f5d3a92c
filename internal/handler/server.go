// Package handler implements the HTTP handlers for the ELD API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (status.go, clocks.go, certification.go, ...) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
)

// StatusServicer defines the duty-status operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type StatusServicer interface {
	RequestStatusChange(ctx context.Context, driverID uuid.UUID, status domain.DutyStatus,
		reason string, location *domain.Location) (domain.StatusChangeEvent, error)
	GetCurrentStatus(ctx context.Context, driverID uuid.UUID) (domain.DutyStatus, error)
}

// ClockServicer defines the HOS read-model operations the handlers depend on.
type ClockServicer interface {
	GetClockState(ctx context.Context, driverID uuid.UUID) (domain.HOSClockState, error)
	GetViolations(ctx context.Context, driverID uuid.UUID) ([]domain.Violation, error)
}

// CertificationServicer defines the daily-log operations the handlers depend on.
type CertificationServicer interface {
	CertifyDay(ctx context.Context, driverID uuid.UUID, year int, month time.Month,
		dayOfMonth int, signature string) (domain.DailyLog, error)
	CertifyAllUncertified(ctx context.Context, driverID uuid.UUID, signature string) (int, error)
	UncertifyDay(ctx context.Context, driverID uuid.UUID, year int, month time.Month,
		dayOfMonth int) (domain.DailyLog, error)
	GetDailyLog(ctx context.Context, driverID uuid.UUID, year int, month time.Month,
		dayOfMonth int) (domain.DailyLog, error)
	GetEventsForDate(ctx context.Context, driverID uuid.UUID, year int, month time.Month,
		dayOfMonth int) ([]domain.StatusChangeEvent, error)
	AuditTrail(ctx context.Context, driverID uuid.UUID, limit int) ([]domain.AuditEvent, error)
}

// SettingsServicer defines the driver-settings operations the handlers depend on.
type SettingsServicer interface {
	Get(ctx context.Context, driverID uuid.UUID) (domain.DriverSettings, error)
	SetSplitSleeper(ctx context.Context, driverID uuid.UUID, enabled bool,
		additionalHours int) (domain.DriverSettings, error)
}

// Server holds all API handlers and their dependencies.
type Server struct {
	status   StatusServicer
	clocks   ClockServicer
	certs    CertificationServicer
	settings SettingsServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(status StatusServicer, clocks ClockServicer, certs CertificationServicer, settings SettingsServicer) *Server {
	return &Server{status: status, clocks: clocks, certs: certs, settings: settings}
}

// Routes returns the API route tree. Mount it on the application router after
// the shared middleware stack.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.Health)

	r.Route("/drivers/{driverID}", func(r chi.Router) {
		r.Post("/status", s.ChangeStatus)
		r.Get("/status", s.CurrentStatus)
		r.Get("/clocks", s.ClockState)
		r.Get("/violations", s.Violations)
		r.Get("/audit", s.AuditTrail)

		r.Route("/logs", func(r chi.Router) {
			r.Post("/certify-all", s.CertifyAll)
			r.Route("/{date}", func(r chi.Router) {
				r.Get("/", s.DailyLog)
				r.Get("/events", s.DayEvents)
				r.Post("/certify", s.CertifyDay)
				r.Delete("/certification", s.UncertifyDay)
			})
		})

		r.Get("/settings", s.Settings)
		r.Put("/settings/split-sleeper", s.SetSplitSleeper)
	})

	return r
}
