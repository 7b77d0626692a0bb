package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edsonnoyola12/sara-crm/internal/leads"
)

const testSecret = "test-secret"

type fakeLeadRepo struct{}

func (fakeLeadRepo) Upsert(ctx context.Context, l *leads.Lead) error { return nil }
func (fakeLeadRepo) GetByPhone(ctx context.Context, phone string) (*leads.Lead, error) {
	return nil, leads.ErrNotFound
}
func (fakeLeadRepo) List(ctx context.Context, limit int) ([]leads.Lead, error) { return nil, nil }
func (fakeLeadRepo) SetCategory(ctx context.Context, phone string, category leads.Category) error {
	return nil
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	return New(&Config{
		LeadsHandler:    leads.NewHandler(fakeLeadRepo{}, nil),
		AdminAuthSecret: testSecret,
	})
}

func signToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestHealthIsPublic(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestAPIRequiresToken(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/leads", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIRejectsWrongSecret(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret"))
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIAcceptsValidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret))
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
