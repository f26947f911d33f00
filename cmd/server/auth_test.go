package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func login(t *testing.T, h http.Handler, email, password string) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(loginRequest{Email: email, Password: password})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(string(body))))
	return rr
}

func adminToken(t *testing.T, h http.Handler) string {
	t.Helper()

	rr := login(t, h, testAdminEmail, testAdminPassword)
	if rr.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Token     string `json:"token"`
		TokenType string `json:"token_type"`
		ExpiresAt string `json:"expires_at"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if body.Token == "" || body.TokenType != "Bearer" {
		t.Fatalf("unexpected login body: %+v", body)
	}
	if want := testNow().Add(tokenTTL).Format(time.RFC3339); body.ExpiresAt != want {
		t.Fatalf("expires_at = %q, want %q", body.ExpiresAt, want)
	}
	return body.Token
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := newRouter(newTestServer(t), nil)

	for _, creds := range [][2]string{
		{testAdminEmail, "wrong"},
		{"nobody@example.com", testAdminPassword},
	} {
		rr := login(t, router, creds[0], creds[1])
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected status 401, got %d", creds[0], rr.Code)
		}
		if body := decodeError(t, rr); body.Error.Code != codeUnauthorized {
			t.Fatalf("unexpected code %q", body.Error.Code)
		}
	}

	if rr := login(t, router, "", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty credentials, got %d", rr.Code)
	}
}

func TestAdminRoutesRequireBearerToken(t *testing.T) {
	srv := newTestServer(t)
	router := newRouter(srv, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/tax-rates", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/tax-rates", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 with bad token, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/tax-rates", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, router))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 with token, got %d", rr.Code)
	}
	var body struct {
		TaxRates []struct {
			State string  `json:"state"`
			Rate  float64 `json:"rate"`
		} `json:"tax_rates"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.TaxRates) != 20 {
		t.Fatalf("expected 20 seeded tax rates, got %d", len(body.TaxRates))
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	srv := newTestServer(t)
	token, _, err := srv.auth.issueToken(testAdminEmail)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	srv.auth.now = func() time.Time { return testNow().Add(tokenTTL + time.Minute) }
	if _, ok := srv.auth.verifyToken(token); ok {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestUpdateTaxRateReloadsAgent(t *testing.T) {
	srv := newTestServer(t)
	router := newRouter(srv, nil)
	token := adminToken(t, router)
	before := srv.agent.Load()

	put := func(state, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/tax-rates/"+state, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	if rr := put("ia", `{"rate": 0.35}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for out-of-range rate, got %d", rr.Code)
	}
	if rr := put("ia", `{}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for missing rate, got %d", rr.Code)
	}
	if srv.agent.Load() != before {
		t.Fatalf("agent must not be rebuilt on rejected updates")
	}

	rr := put("ia", `{"rate": 0.05}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	table, err := srv.taxRates.Table(context.Background())
	if err != nil {
		t.Fatalf("load table: %v", err)
	}
	if table["IA"] != 0.05 {
		t.Fatalf("IA rate = %v", table["IA"])
	}
	if srv.agent.Load() == before {
		t.Fatalf("expected agent to be rebuilt with the new tax table")
	}
}
