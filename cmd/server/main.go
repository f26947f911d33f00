package main

import (
	"context"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Valeamar/tidal2025/internal/agent"
	"github.com/Valeamar/tidal2025/internal/analysis"
	"github.com/Valeamar/tidal2025/internal/config"
	"github.com/Valeamar/tidal2025/internal/db"
	"github.com/Valeamar/tidal2025/internal/insights"
	"github.com/Valeamar/tidal2025/internal/marketdata"
	"github.com/Valeamar/tidal2025/internal/migrations"
	"github.com/Valeamar/tidal2025/internal/pricing"
	"github.com/Valeamar/tidal2025/internal/seed"
	"github.com/Valeamar/tidal2025/internal/store"
)

type server struct {
	auth     *authService
	agent    atomic.Pointer[agent.Agent]
	rebuild  func(taxTable map[string]float64) *agent.Agent
	market   *marketdata.Service
	analyses *store.Analyses
	taxRates *store.TaxRates
	now      func() time.Time
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
	}

	stats, err := seed.Run(database, seed.Config{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword})
	if err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}
	log.Printf("seed complete: %d inserts, %d updates", stats.Inserts, stats.Updates)

	cache := store.NewMarketCache(database, time.Now)
	market := marketdata.NewService(buildSources(cfg), cache, cfg.CacheTTL, time.Now)
	log.Printf("market data sources: %v", market.SourceNames())

	provider := buildInsights(cfg)
	srv := &server{
		auth:     newAuthService(store.NewUsers(database), cfg.SessionSecret),
		market:   market,
		analyses: store.NewAnalyses(database),
		taxRates: store.NewTaxRates(database),
		now:      time.Now,
		rebuild:  agentBuilder(market, provider, cfg.MaxConcurrentRequests, time.Now),
	}

	table, err := srv.taxRates.Table(context.Background())
	if err != nil {
		log.Printf("warning: load tax rates, using built-in table: %v", err)
	}
	srv.agent.Store(srv.rebuild(table))

	cleanup := &cacheCleanup{cache: cache, ttl: cfg.CacheTTL}
	scheduler, err := startScheduler(cfg.CacheCleanupSchedule, cleanup.run)
	if err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, newRouter(srv, cfg.CORSOrigins)); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newRouter(s *server, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.handleRoot)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/login", s.handleLogin)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/analyses", s.handleAnalysesList)
		r.Get("/analyses/{id}", s.handleAnalysisDetail)
		r.Get("/analyses/{id}/export.xlsx", s.handleExportXLSX)
		r.Get("/analyses/{id}/export.pdf", s.handleExportPDF)
		r.Get("/market/availability", s.handleAvailability)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.auth.requireAdmin)
			r.Get("/tax-rates", s.handleTaxRatesList)
			r.Put("/tax-rates/{state}", s.handleTaxRateUpdate)
		})
	})
	return r
}

// agentBuilder returns a constructor for agents priced with a given state
// tax table. An empty table keeps the built-in rates.
func agentBuilder(quotes agent.Quoter, provider insights.Provider, maxConcurrent int, now func() time.Time) func(map[string]float64) *agent.Agent {
	return func(taxTable map[string]float64) *agent.Agent {
		rates := pricing.DefaultRates()
		if len(taxTable) > 0 {
			rates = rates.WithSalesTax(taxTable)
		}
		calc := pricing.NewCalculator(rates, nil)
		return agent.New(quotes, analysis.New(calc, nil, now), agent.Options{
			Insights:      provider,
			MaxConcurrent: maxConcurrent,
			Now:           now,
		})
	}
}

func buildSources(cfg config.Config) []marketdata.Source {
	var sources []marketdata.Source
	if cfg.UseMockData {
		sources = append(sources, marketdata.NewMockSource(time.Now))
	}
	if cfg.USDAAPIKey != "" {
		sources = append(sources, marketdata.NewUSDASource(cfg.USDAAPIKey, cfg.USDABaseURL, cfg.RequestTimeout))
	}
	if cfg.EnableScraping {
		sources = append(sources, marketdata.NewScrapeSource(nil, "", cfg.RequestTimeout))
	}
	if len(sources) == 0 {
		log.Print("warning: no market data sources configured, analyses will report no data")
	}
	return sources
}

func buildInsights(cfg config.Config) insights.Provider {
	switch {
	case !cfg.EnableInsights:
		return nil
	case cfg.InsightsURL != "":
		return insights.NewHTTPProvider(cfg.InsightsURL, cfg.RequestTimeout)
	default:
		return insights.NewMock(time.Now)
	}
}
