package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/edsonnoyola12/sara-crm/internal/appointments"
	httpmiddleware "github.com/edsonnoyola12/sara-crm/internal/http/middleware"
	"github.com/edsonnoyola12/sara-crm/internal/leads"
	"github.com/edsonnoyola12/sara-crm/internal/reminders"
	"github.com/edsonnoyola12/sara-crm/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	LeadsHandler        *leads.Handler
	AppointmentsHandler *appointments.Handler
	RemindersHandler    *reminders.Handler
	AdminAuthSecret     string
	MetricsHandler      http.Handler
	RateLimitPerSecond  float64
	RateLimitBurst      int
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Admin API, JWT protected.
	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))

		if cfg.LeadsHandler != nil {
			api.Post("/leads", cfg.LeadsHandler.UpsertLead)
			api.Get("/leads", cfg.LeadsHandler.ListLeads)
			api.Get("/leads/{phone}", cfg.LeadsHandler.GetLead)
			api.Put("/leads/{phone}/category", cfg.LeadsHandler.SetCategory)
		}

		if cfg.AppointmentsHandler != nil {
			api.Post("/appointments", cfg.AppointmentsHandler.CreateAppointment)
			api.Get("/appointments", cfg.AppointmentsHandler.ListAppointments)
			api.Post("/appointments/{id}/cancel", cfg.AppointmentsHandler.CancelAppointment)
			api.Post("/appointments/{id}/complete", cfg.AppointmentsHandler.CompleteAppointment)
		}

		if cfg.RemindersHandler != nil {
			api.Get("/policies", cfg.RemindersHandler.ListPolicies)
			api.Get("/policies/{category}", cfg.RemindersHandler.GetPolicy)
			api.Put("/policies/{category}", cfg.RemindersHandler.UpdatePolicy)
			api.Post("/sweep", cfg.RemindersHandler.TriggerSweep)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
