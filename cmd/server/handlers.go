package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Valeamar/tidal2025/internal/agent"
	"github.com/Valeamar/tidal2025/internal/models"
	"github.com/Valeamar/tidal2025/internal/report"
	"github.com/Valeamar/tidal2025/internal/store"
)

const (
	appName    = "Farm Input Budget Optimizer"
	appVersion = "1.0.0"
	maxTaxRate = 0.2

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (s *server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    appName,
		"version": appVersion,
		"endpoints": map[string]string{
			"health":       "GET /api/health",
			"analyze":      "POST /api/analyze",
			"analyses":     "GET /api/analyses?q=",
			"analysis":     "GET /api/analyses/{id}",
			"export_xlsx":  "GET /api/analyses/{id}/export.xlsx",
			"export_pdf":   "GET /api/analyses/{id}/export.pdf",
			"availability": "GET /api/market/availability?product=&state=&city=",
			"login":        "POST /api/login",
			"tax_rates":    "GET /api/admin/tax-rates",
			"tax_rate":     "PUT /api/admin/tax-rates/{state}",
		},
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": s.now().UTC(),
	})
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidation, "invalid JSON body", false)
		return
	}
	req.normalize()
	if err := req.validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidation, err.Error(), false)
		return
	}

	resp := s.agent.Load().AnalyzeAll(r.Context(), req.Products, req.FarmLocation)

	body, err := json.Marshal(resp)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, codeInternal, "failed to encode analysis", false)
		return
	}

	names := make([]string, len(req.Products))
	for i, p := range req.Products {
		names[i] = p.Name
	}
	run := store.AnalysisRun{
		ID:           resp.AnalysisID,
		CreatedAt:    resp.GeneratedAt,
		FarmState:    req.FarmLocation.StateCode(),
		FarmCity:     req.FarmLocation.City,
		ProductNames: names,
		TotalTarget:  resp.OverallBudget.Target,
		Response:     body,
	}
	if err := s.analyses.Save(r.Context(), run); err != nil {
		log.Printf("warning: save analysis %s: %v", resp.AnalysisID, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *server) handleAnalysesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	runs, err := s.analyses.List(r.Context(), query)
	if err != nil {
		log.Printf("list analyses: %v", err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, "failed to load analyses", true)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":    query,
		"analyses": runs,
	})
}

func (s *server) handleAnalysisDetail(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(run.Response)
}

func (s *server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, xlsxContentType, "xlsx", report.WriteXLSX)
}

func (s *server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "application/pdf", "pdf", report.WritePDF)
}

func (s *server) export(w http.ResponseWriter, r *http.Request, contentType, ext string, render func(io.Writer, report.Run) error) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}

	var resp agent.Response
	if err := json.Unmarshal(run.Response, &resp); err != nil {
		log.Printf("decode analysis %s: %v", run.ID, err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, "stored analysis is unreadable", false)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, report.Run{CreatedAt: run.CreatedAt, Response: &resp}); err != nil {
		log.Printf("render %s export for %s: %v", ext, run.ID, err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, "failed to render export", false)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="analysis-`+run.ID+`.`+ext+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *server) loadRun(w http.ResponseWriter, r *http.Request) (store.AnalysisRun, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, codeValidation, "invalid analysis id", false)
		return store.AnalysisRun{}, false
	}

	run, err := s.analyses.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, codeNotFound, "analysis not found", false)
		return store.AnalysisRun{}, false
	}
	if err != nil {
		log.Printf("get analysis %s: %v", id, err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, "failed to load analysis", true)
		return store.AnalysisRun{}, false
	}
	return run, true
}

func (s *server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	product := strings.TrimSpace(q.Get("product"))
	state := strings.TrimSpace(q.Get("state"))
	if product == "" {
		writeError(w, r, http.StatusBadRequest, codeValidation, "product is required", false)
		return
	}
	if len(state) != 2 {
		writeError(w, r, http.StatusBadRequest, codeValidation, "state must be a 2-letter code", false)
		return
	}

	loc := models.FarmLocation{City: strings.TrimSpace(q.Get("city")), State: state, Country: defaultCountry}
	availability, err := s.market.Availability(r.Context(), product, loc)
	if err != nil {
		writeError(w, r, http.StatusServiceUnavailable, codeInternal, "market data lookup was interrupted", true)
		return
	}
	writeJSON(w, http.StatusOK, availability)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidation, "invalid JSON body", false)
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, codeValidation, "email and password are required", false)
		return
	}

	valid, err := s.auth.validateCredentials(r.Context(), email, req.Password)
	if err != nil {
		log.Printf("validate credentials: %v", err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, "authentication error", true)
		return
	}
	if !valid {
		writeError(w, r, http.StatusUnauthorized, codeUnauthorized, "invalid credentials", false)
		return
	}

	token, expires, err := s.auth.issueToken(email)
	if err != nil {
		log.Printf("issue token: %v", err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, "authentication error", false)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"token_type": "Bearer",
		"expires_at": expires.UTC().Format(time.RFC3339),
	})
}

func (s *server) handleTaxRatesList(w http.ResponseWriter, r *http.Request) {
	rates, err := s.taxRates.List(r.Context())
	if err != nil {
		log.Printf("list tax rates: %v", err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, "failed to load tax rates", true)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tax_rates": rates})
}

type taxRateRequest struct {
	Rate *float64 `json:"rate"`
}

func (s *server) handleTaxRateUpdate(w http.ResponseWriter, r *http.Request) {
	state := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "state")))
	if len(state) != 2 {
		writeError(w, r, http.StatusBadRequest, codeValidation, "state must be a 2-letter code", false)
		return
	}

	var req taxRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidation, "invalid JSON body", false)
		return
	}
	rate, err := parseTaxRate(req.Rate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, codeValidation, err.Error(), false)
		return
	}

	saved, err := s.taxRates.Set(r.Context(), state, rate)
	if err != nil {
		log.Printf("set tax rate %s: %v", state, err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, "failed to save tax rate", true)
		return
	}
	if err := s.reloadTaxRates(r); err != nil {
		log.Printf("warning: reload tax rates: %v", err)
	}

	writeJSON(w, http.StatusOK, saved)
}

// reloadTaxRates swaps in an agent priced with the current tax table.
func (s *server) reloadTaxRates(r *http.Request) error {
	if s.rebuild == nil {
		return nil
	}
	table, err := s.taxRates.Table(r.Context())
	if err != nil {
		return err
	}
	s.agent.Store(s.rebuild(table))
	log.Printf("tax table reloaded by %v (%d states)", r.Context().Value(adminEmailKey), len(table))
	return nil
}
