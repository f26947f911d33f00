package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDBPath          = "./dev.db"
	defaultPort            = "8080"
	defaultAppEnv          = "development"
	defaultUSDABaseURL     = "https://quickstats.nass.usda.gov/api"
	defaultRequestTimeout  = 30 * time.Second
	defaultMaxConcurrent   = 10
	defaultCacheTTL        = 24 * time.Hour
	defaultCleanupSchedule = "@every 1h"
	defaultCORSOrigins     = "http://localhost:3000,http://127.0.0.1:3000"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	DBPath        string
	Port          string
	AppEnv        string

	UseMockData    bool
	USDAAPIKey     string
	USDABaseURL    string
	EnableScraping bool
	EnableInsights bool
	InsightsURL    string

	RequestTimeout        time.Duration
	MaxConcurrentRequests int
	CacheTTL              time.Duration
	CacheCleanupSchedule  string
	CORSOrigins           []string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// A missing .env is fine; production injects real env vars.
	_ = godotenv.Load()

	cfg := Config{
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBPath:        getEnv("DB_PATH", defaultDBPath),
		Port:          getEnv("PORT", defaultPort),
		AppEnv:        getEnv("APP_ENV", defaultAppEnv),

		UseMockData:    getEnvBool("USE_MOCK_DATA", true),
		USDAAPIKey:     os.Getenv("USDA_API_KEY"),
		USDABaseURL:    getEnv("USDA_BASE_URL", defaultUSDABaseURL),
		EnableScraping: getEnvBool("ENABLE_SCRAPING", false),
		EnableInsights: getEnvBool("ENABLE_INSIGHTS", false),
		InsightsURL:    os.Getenv("INSIGHTS_URL"),

		RequestTimeout:        getEnvDuration("REQUEST_TIMEOUT", defaultRequestTimeout),
		MaxConcurrentRequests: getEnvInt("MAX_CONCURRENT_REQUESTS", defaultMaxConcurrent),
		CacheTTL:              getEnvDuration("CACHE_TTL", defaultCacheTTL),
		CacheCleanupSchedule:  getEnv("CACHE_CLEANUP_SCHEDULE", defaultCleanupSchedule),
		CORSOrigins:           splitList(getEnv("CORS_ORIGINS", defaultCORSOrigins)),
	}

	if cfg.AdminEmail == "" {
		log.Print("warning: ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		log.Print("warning: ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		log.Print("warning: SESSION_SECRET is not set")
	}

	return cfg
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	env := strings.ToLower(c.AppEnv)
	return env == "" || env == "development" || env == "dev"
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		log.Printf("warning: invalid %s=%q, using %d", key, val, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		log.Printf("warning: invalid %s=%q, using %t", key, val, fallback)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		log.Printf("warning: invalid %s=%q, using %s", key, val, fallback)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
