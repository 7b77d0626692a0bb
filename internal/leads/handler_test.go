package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	leads map[string]*Lead
}

func newStubRepo() *stubRepo {
	return &stubRepo{leads: make(map[string]*Lead)}
}

func (s *stubRepo) Upsert(ctx context.Context, l *Lead) error {
	if !l.Category.Valid() {
		return ErrInvalidCategory
	}
	copied := *l
	s.leads[l.Phone] = &copied
	return nil
}

func (s *stubRepo) GetByPhone(ctx context.Context, phone string) (*Lead, error) {
	l, ok := s.leads[phone]
	if !ok {
		return nil, ErrNotFound
	}
	return l, nil
}

func (s *stubRepo) List(ctx context.Context, limit int) ([]Lead, error) {
	var out []Lead
	for _, l := range s.leads {
		out = append(out, *l)
	}
	return out, nil
}

func (s *stubRepo) SetCategory(ctx context.Context, phone string, category Category) error {
	if !category.Valid() {
		return ErrInvalidCategory
	}
	l, ok := s.leads[phone]
	if !ok {
		return ErrNotFound
	}
	l.Category = category
	return nil
}

func newLeadRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/leads", h.UpsertLead)
	r.Get("/api/leads", h.ListLeads)
	r.Get("/api/leads/{phone}", h.GetLead)
	r.Put("/api/leads/{phone}/category", h.SetCategory)
	return r
}

func TestUpsertLeadEndpoint(t *testing.T) {
	repo := newStubRepo()
	router := newLeadRouter(NewHandler(repo, nil))

	body, _ := json.Marshal(UpsertLeadRequest{Phone: "+5215551234567", Name: "Laura", Category: CategoryHot, Score: 85})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	saved, err := repo.GetByPhone(context.Background(), "+5215551234567")
	require.NoError(t, err)
	assert.Equal(t, CategoryHot, saved.Category)
	assert.Equal(t, 85, saved.Score)
}

func TestUpsertLeadDefaultsToCold(t *testing.T) {
	repo := newStubRepo()
	router := newLeadRouter(NewHandler(repo, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/leads",
		bytes.NewReader([]byte(`{"phone":"+5215551234567","name":"Laura"}`))))

	require.Equal(t, http.StatusCreated, rec.Code)
	saved, err := repo.GetByPhone(context.Background(), "+5215551234567")
	require.NoError(t, err)
	assert.Equal(t, CategoryCold, saved.Category)
}

func TestUpsertLeadRejectsBadCategory(t *testing.T) {
	router := newLeadRouter(NewHandler(newStubRepo(), nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/leads",
		bytes.NewReader([]byte(`{"phone":"+5215551234567","category":"boiling"}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLeadNotFound(t *testing.T) {
	router := newLeadRouter(NewHandler(newStubRepo(), nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leads/+5215550000000", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListLeadsEndpoint(t *testing.T) {
	repo := newStubRepo()
	now := time.Now().UTC()
	repo.leads["+5215551"] = &Lead{Phone: "+5215551", Category: CategoryHot, LastContactAt: now}
	repo.leads["+5215552"] = &Lead{Phone: "+5215552", Category: CategoryWarm, LastContactAt: now}
	router := newLeadRouter(NewHandler(repo, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leads", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListLeadsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestSetCategoryEndpoint(t *testing.T) {
	repo := newStubRepo()
	repo.leads["+5215551"] = &Lead{Phone: "+5215551", Category: CategoryCold}
	router := newLeadRouter(NewHandler(repo, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/leads/+5215551/category",
		bytes.NewReader([]byte(`{"category":"hot"}`))))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, CategoryHot, repo.leads["+5215551"].Category)
}

func TestSetCategoryUnknownLead(t *testing.T) {
	router := newLeadRouter(NewHandler(newStubRepo(), nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/leads/+5215559/category",
		bytes.NewReader([]byte(`{"category":"hot"}`))))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
