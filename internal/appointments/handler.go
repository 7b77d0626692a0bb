package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edsonnoyola12/sara-crm/pkg/logging"
)

// Lifecycle is the service surface the handler needs.
type Lifecycle interface {
	Create(ctx context.Context, draft Draft) (*Appointment, []string, error)
	Cancel(ctx context.Context, id uuid.UUID, cancelledBy string) ([]string, error)
	Complete(ctx context.Context, id uuid.UUID) error
}

// Lister reads appointments for the CRM views.
type Lister interface {
	ListByStatus(ctx context.Context, status Status, limit int) ([]Appointment, error)
}

// Handler handles HTTP requests for appointments.
type Handler struct {
	svc    Lifecycle
	lister Lister
	logger *logging.Logger
}

// NewHandler creates a new appointments handler.
func NewHandler(svc Lifecycle, lister Lister, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, lister: lister, logger: logger}
}

// CreateAppointmentRequest is the booking payload.
type CreateAppointmentRequest struct {
	LeadPhone       string    `json:"lead_phone"`
	LeadName        string    `json:"lead_name"`
	PropertyID      string    `json:"property_id"`
	PropertyName    string    `json:"property_name"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Type            string    `json:"appointment_type"`
	AgentID         string    `json:"agent_id"`
	AgentName       string    `json:"agent_name"`
	AdvisorID       string    `json:"advisor_id"`
	AdvisorName     string    `json:"advisor_name"`
}

// AppointmentResponse wraps an appointment with any sync warnings.
type AppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
	Warnings    []string     `json:"warnings,omitempty"`
}

// CreateAppointment handles POST /api/appointments.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.LeadPhone == "" || req.PropertyName == "" || req.ScheduledAt.IsZero() {
		http.Error(w, "lead_phone, property_name and scheduled_at are required", http.StatusBadRequest)
		return
	}

	a, warnings, err := h.svc.Create(r.Context(), Draft{
		LeadPhone:       req.LeadPhone,
		LeadName:        req.LeadName,
		PropertyID:      req.PropertyID,
		PropertyName:    req.PropertyName,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Type:            req.Type,
		AgentID:         req.AgentID,
		AgentName:       req.AgentName,
		AdvisorID:       req.AdvisorID,
		AdvisorName:     req.AdvisorName,
	})
	if err != nil {
		h.writeError(w, "create appointment", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(AppointmentResponse{Appointment: a, Warnings: warnings})
}

// ListAppointmentsResponse is the response for listing appointments.
type ListAppointmentsResponse struct {
	Appointments []Appointment `json:"appointments"`
	Count        int           `json:"count"`
}

// ListAppointments handles GET /api/appointments.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	status := Status(r.URL.Query().Get("status"))
	if status != "" && status != StatusScheduled && status != StatusCancelled && status != StatusCompleted {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}
	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	appts, err := h.lister.ListByStatus(r.Context(), status, limit)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListAppointmentsResponse{Appointments: appts, Count: len(appts)})
}

// CancelRequest identifies who asked for the cancellation.
type CancelRequest struct {
	CancelledBy string `json:"cancelled_by"`
}

// CancelResponse reports cancellation outcome and sync warnings.
type CancelResponse struct {
	Status   string   `json:"status"`
	Warnings []string `json:"warnings,omitempty"`
}

// CancelAppointment handles POST /api/appointments/{id}/cancel.
func (h *Handler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}

	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.CancelledBy == "" {
		req.CancelledBy = "CRM"
	}

	warnings, err := h.svc.Cancel(r.Context(), id, req.CancelledBy)
	if err != nil {
		h.writeError(w, "cancel appointment", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CancelResponse{Status: string(StatusCancelled), Warnings: warnings})
}

// CompleteAppointment handles POST /api/appointments/{id}/complete.
func (h *Handler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}
	if err := h.svc.Complete(r.Context(), id); err != nil {
		h.writeError(w, "complete appointment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrScheduleConflict), errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrLeadBusy):
		w.Header().Set("Retry-After", "1")
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrPastSchedule):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("appointment request failed", "op", op, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
