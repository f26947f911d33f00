package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Valeamar/tidal2025/internal/db"
	"github.com/Valeamar/tidal2025/internal/marketdata"
	"github.com/Valeamar/tidal2025/internal/migrations"
	"github.com/Valeamar/tidal2025/internal/seed"
	"github.com/Valeamar/tidal2025/internal/store"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "harvest-2025"
)

func testNow() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}

func newTestServer(t *testing.T) *server {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "server-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := seed.Run(database, seed.Config{AdminEmail: testAdminEmail, AdminPassword: testAdminPassword}); err != nil {
		t.Fatalf("seed database: %v", err)
	}

	market := marketdata.NewService(
		[]marketdata.Source{marketdata.NewMockSource(testNow)},
		store.NewMarketCache(database, testNow),
		24*time.Hour,
		testNow,
	)
	auth := newAuthService(store.NewUsers(database), "test-secret")
	auth.now = testNow

	s := &server{
		auth:     auth,
		market:   market,
		analyses: store.NewAnalyses(database),
		taxRates: store.NewTaxRates(database),
		now:      testNow,
		rebuild:  agentBuilder(market, nil, 4, testNow),
	}
	s.agent.Store(s.rebuild(nil))
	return s
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var body errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	rr := httptest.NewRecorder()
	srv.handleHealth(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var body struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "healthy" || !body.Timestamp.Equal(testNow()) {
		t.Fatalf("unexpected health body: %+v", body)
	}
}

func TestRouterUnknownAnalysisReturnsErrorEnvelope(t *testing.T) {
	srv := newTestServer(t)
	router := newRouter(srv, []string{"http://localhost:3000"})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/analyses/missing", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	body := decodeError(t, rr)
	if body.Error.Code != codeNotFound || body.Error.Retryable {
		t.Fatalf("unexpected error body: %+v", body)
	}
	if body.RequestID == "" {
		t.Fatalf("expected request id from middleware")
	}
}

func TestHandleAvailability(t *testing.T) {
	srv := newTestServer(t)

	rr := httptest.NewRecorder()
	srv.handleAvailability(rr, httptest.NewRequest(http.MethodGet, "/api/market/availability?product=corn+seed&state=IA&city=Ames", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var got marketdata.Availability
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalQuotes != 6 || got.SourcesWithData != 1 || got.Location != "Ames, IA" {
		t.Fatalf("unexpected availability: %+v", got)
	}
}

func TestHandleAvailabilityRequiresProductAndState(t *testing.T) {
	srv := newTestServer(t)

	for _, target := range []string{
		"/api/market/availability?state=IA",
		"/api/market/availability?product=urea&state=Iowa",
	} {
		rr := httptest.NewRecorder()
		srv.handleAvailability(rr, httptest.NewRequest(http.MethodGet, target, nil))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", target, rr.Code)
		}
		if body := decodeError(t, rr); body.Error.Code != codeValidation {
			t.Fatalf("%s: unexpected code %q", target, body.Error.Code)
		}
	}
}
