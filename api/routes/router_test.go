package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/printhub/printhub-backend/internal/pricing"
	pkgAuth "github.com/printhub/printhub-backend/pkg/auth"
	"github.com/printhub/printhub-backend/pkg/config"
	"github.com/printhub/printhub-backend/pkg/enums"
	"github.com/printhub/printhub-backend/pkg/logger"
)

type staticChecker struct{ active bool }

func (s staticChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.active, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "development", Port: "8080"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "printhub", ExpirationMinutes: 30},
	}
}

func testRouter(t *testing.T, active bool) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "routes-test", Output: io.Discard})
	return NewRouter(
		testConfig(),
		logg,
		nil,
		nil,
		staticChecker{active: active},
		prometheus.NewRegistry(),
		Services{Pricing: pricing.NewService()},
	)
}

func bearerFor(t *testing.T, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{
		Email: "demo@example.com",
		Name:  "Иван Иванов",
		Role:  role,
		JTI:   "session-1",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestPublicEndpoints(t *testing.T) {
	router := testRouter(t, true)

	cases := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/health/live", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/v1/catalog/products", "", http.StatusOK},
		{http.MethodPost, "/api/v1/pricing/quote",
			`{"productType":"flyer","params":{"paperType":"coated","paperWeight":"170","colorType":"4+4","circulation":100}}`,
			http.StatusOK},
	}
	for _, tc := range cases {
		var body io.Reader
		if tc.body != "" {
			body = strings.NewReader(tc.body)
		}
		req := httptest.NewRequest(tc.method, tc.path, body)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Fatalf("%s %s: expected %d, got %d (%s)", tc.method, tc.path, tc.status, rec.Code, rec.Body.String())
		}
	}
}

func TestCabinetRequiresToken(t *testing.T) {
	router := testRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestManagerPanelRejectsCustomers(t *testing.T) {
	router := testRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/statistics", nil)
	req.Header.Set("Authorization", bearerFor(t, enums.RoleClient))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestExportIsAdminOnly(t *testing.T) {
	router := testRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/export", nil)
	req.Header.Set("Authorization", bearerFor(t, enums.RoleManager))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for manager, got %d", rec.Code)
	}
}

func TestRevokedSessionIsRejected(t *testing.T) {
	router := testRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	req.Header.Set("Authorization", bearerFor(t, enums.RoleClient))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
