package reminders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edsonnoyola12/sara-crm/internal/leads"
	"github.com/edsonnoyola12/sara-crm/pkg/logging"
)

// PolicyRepository is the persistence surface the handler needs.
type PolicyRepository interface {
	GetAll(ctx context.Context) (map[leads.Category]Policy, error)
	GetByCategory(ctx context.Context, category leads.Category) (*Policy, error)
	Update(ctx context.Context, p *Policy) error
}

// Sweeper runs a single nurture pass on demand.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Handler exposes reminder policy administration and a manual sweep trigger.
type Handler struct {
	policies PolicyRepository
	sweeper  Sweeper
	logger   *logging.Logger
}

// NewHandler creates a new reminders handler.
func NewHandler(policies PolicyRepository, sweeper Sweeper, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{policies: policies, sweeper: sweeper, logger: logger}
}

// ListPolicies handles GET /api/policies.
func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.policies.GetAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list policies", "error", err)
		http.Error(w, "failed to list policies", http.StatusInternalServerError)
		return
	}
	out := make([]Policy, 0, len(policies))
	for _, cat := range []leads.Category{leads.CategoryHot, leads.CategoryWarm, leads.CategoryCold} {
		if p, ok := policies[cat]; ok {
			out = append(out, p)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"policies": out})
}

// GetPolicy handles GET /api/policies/{category}.
func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	category := leads.Category(chi.URLParam(r, "category"))
	if !category.Valid() {
		http.Error(w, "unknown category", http.StatusBadRequest)
		return
	}
	p, err := h.policies.GetByCategory(r.Context(), category)
	if err != nil {
		if errors.Is(err, ErrPolicyNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get policy", "category", category, "error", err)
		http.Error(w, "failed to get policy", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// UpdatePolicyRequest is the policy edit payload.
type UpdatePolicyRequest struct {
	IntervalHours   int    `json:"reminder_hours"`
	Active          bool   `json:"active"`
	MessageTemplate string `json:"message_template"`
	SendStartHour   int    `json:"send_start_hour"`
	SendEndHour     int    `json:"send_end_hour"`
}

// UpdatePolicy handles PUT /api/policies/{category}. The new cadence and
// window apply on the next sweep tick; no restart is needed.
func (h *Handler) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	category := leads.Category(chi.URLParam(r, "category"))
	if !category.Valid() {
		http.Error(w, "unknown category", http.StatusBadRequest)
		return
	}
	var req UpdatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.IntervalHours <= 0 {
		http.Error(w, "reminder_hours must be positive", http.StatusBadRequest)
		return
	}

	p := &Policy{
		Category:        category,
		IntervalHours:   req.IntervalHours,
		Active:          req.Active,
		MessageTemplate: req.MessageTemplate,
		SendStartHour:   req.SendStartHour,
		SendEndHour:     req.SendEndHour,
	}
	if err := h.policies.Update(r.Context(), p); err != nil {
		switch {
		case errors.Is(err, ErrInvalidWindow):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrPolicyNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			h.logger.Error("failed to update policy", "category", category, "error", err)
			http.Error(w, "failed to update policy", http.StatusInternalServerError)
		}
		return
	}

	h.logger.Info("reminder policy updated",
		"category", category, "reminder_hours", req.IntervalHours, "active", req.Active)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// TriggerSweep handles POST /api/sweep for operators who do not want to
// wait for the next scheduled tick.
func (h *Handler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	sent, err := h.sweeper.Sweep(r.Context())
	if err != nil {
		h.logger.Error("manual sweep failed", "error", err)
		http.Error(w, "sweep failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"sent": sent})
}
