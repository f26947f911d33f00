package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"DB_PATH", "PORT", "APP_ENV", "USE_MOCK_DATA", "REQUEST_TIMEOUT",
		"MAX_CONCURRENT_REQUESTS", "CACHE_TTL", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.DBPath != defaultDBPath || cfg.Port != defaultPort {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.IsDev() || !cfg.UseMockData {
		t.Fatalf("expected development with mock data, got %+v", cfg)
	}
	if cfg.RequestTimeout != 30*time.Second || cfg.CacheTTL != 24*time.Hour {
		t.Fatalf("unexpected durations: %v %v", cfg.RequestTimeout, cfg.CacheTTL)
	}
	if cfg.MaxConcurrentRequests != 10 {
		t.Fatalf("max concurrent = %d", cfg.MaxConcurrentRequests)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://127.0.0.1:3000" {
		t.Fatalf("cors origins = %v", cfg.CORSOrigins)
	}
}

func TestLoadOverridesAndInvalidValues(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("USE_MOCK_DATA", "false")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("MAX_CONCURRENT_REQUESTS", "-2")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()

	if cfg.IsDev() {
		t.Fatalf("production must not be dev")
	}
	if cfg.UseMockData {
		t.Fatalf("expected mock data disabled")
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("timeout = %v", cfg.RequestTimeout)
	}
	if cfg.CacheTTL != defaultCacheTTL || cfg.MaxConcurrentRequests != defaultMaxConcurrent {
		t.Fatalf("invalid values should fall back: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://a.example" {
		t.Fatalf("cors origins = %v", cfg.CORSOrigins)
	}
}
