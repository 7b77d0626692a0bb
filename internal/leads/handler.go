package leads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/edsonnoyola12/sara-crm/pkg/logging"
)

// Repository is the persistence surface the handler needs.
type Repository interface {
	Upsert(ctx context.Context, l *Lead) error
	GetByPhone(ctx context.Context, phone string) (*Lead, error)
	List(ctx context.Context, limit int) ([]Lead, error)
	SetCategory(ctx context.Context, phone string, category Category) error
}

// Handler handles HTTP requests for leads.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new leads handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// UpsertLeadRequest is the lead create-or-update payload.
type UpsertLeadRequest struct {
	Phone    string   `json:"phone"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Score    int      `json:"score"`
}

// UpsertLead handles POST /api/leads.
func (h *Handler) UpsertLead(w http.ResponseWriter, r *http.Request) {
	var req UpsertLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Phone == "" {
		http.Error(w, "phone is required", http.StatusBadRequest)
		return
	}
	if req.Category == "" {
		req.Category = CategoryCold
	}

	lead := &Lead{Phone: req.Phone, Name: req.Name, Category: req.Category, Score: req.Score}
	if err := h.repo.Upsert(r.Context(), lead); err != nil {
		if errors.Is(err, ErrInvalidCategory) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to upsert lead", "phone", req.Phone, "error", err)
		http.Error(w, "failed to save lead", http.StatusInternalServerError)
		return
	}

	h.logger.Info("lead saved", "phone", lead.Phone, "category", lead.Category)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(lead)
}

// GetLead handles GET /api/leads/{phone}.
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	lead, err := h.repo.GetByPhone(r.Context(), phone)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get lead", "phone", phone, "error", err)
		http.Error(w, "failed to get lead", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}

// ListLeadsResponse is the response for listing leads.
type ListLeadsResponse struct {
	Leads []Lead `json:"leads"`
	Count int    `json:"count"`
}

// ListLeads handles GET /api/leads.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	all, err := h.repo.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListLeadsResponse{Leads: all, Count: len(all)})
}

// SetCategoryRequest is the re-categorization payload.
type SetCategoryRequest struct {
	Category Category `json:"category"`
}

// SetCategory handles PUT /api/leads/{phone}/category. The new category is
// picked up by the next nurture sweep.
func (h *Handler) SetCategory(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	var req SetCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.SetCategory(r.Context(), phone, req.Category); err != nil {
		switch {
		case errors.Is(err, ErrInvalidCategory):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			h.logger.Error("failed to set category", "phone", phone, "error", err)
			http.Error(w, "failed to set category", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
