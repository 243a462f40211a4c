package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	DBMaxConns       int32
	DBMinConns       int32
	DBConnectTimeout time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerSec  float64
	RateLimitBurst   int
	AllowedOrigins   []string

	CacheTTL            time.Duration
	CacheWarmThreshold  float64
	CacheComputeTimeout time.Duration

	BackfillConcurrency    int64
	BackfillJobTimeout     time.Duration
	BackfillDatesPerSecond float64

	AdsBaseURL            string
	AdsDeveloperToken     string
	AdsTimeout            time.Duration
	AnalyticsBaseURL      string
	AnalyticsToken        string
	AnalyticsTimeout      time.Duration
	GBPBaseURL            string
	GBPToken              string
	GBPTimeout            time.Duration
	SearchConsoleBaseURL  string
	SearchConsoleToken    string
	SearchConsoleTimeout  time.Duration
	CallRailBaseURL       string
	CallRailAPIKey        string
	CallRailTimeout       time.Duration
	ProviderBreakerEnable bool
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		DBMaxConns:       int32(getEnvInt("DB_MAX_CONNS", 10)),
		DBMinConns:       int32(getEnvInt("DB_MIN_CONNS", 1)),
		DBConnectTimeout: time.Second * time.Duration(getEnvInt("DB_CONNECT_TIMEOUT_SECONDS", 10)),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerSec:  getEnvFloat("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:   getEnvInt("RATE_LIMIT_BURST", 10),
		AllowedOrigins:   splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		CacheTTL:            time.Second * time.Duration(getEnvInt("CACHE_TTL_SECONDS", 900)),
		CacheWarmThreshold:  getEnvFloat("CACHE_WARM_THRESHOLD", 0.8),
		CacheComputeTimeout: time.Second * time.Duration(getEnvInt("CACHE_COMPUTE_TIMEOUT_SECONDS", 60)),

		BackfillConcurrency:    int64(getEnvInt("BACKFILL_CONCURRENCY", 4)),
		BackfillJobTimeout:     time.Second * time.Duration(getEnvInt("BACKFILL_JOB_TIMEOUT_SECONDS", 180)),
		BackfillDatesPerSecond: getEnvFloat("BACKFILL_DATES_PER_SECOND", 1),

		AdsBaseURL:            getEnv("ADS_BASE_URL", "https://googleads.googleapis.com/v17"),
		AdsDeveloperToken:     os.Getenv("ADS_DEVELOPER_TOKEN"),
		AdsTimeout:            time.Second * time.Duration(getEnvInt("ADS_TIMEOUT_SECONDS", 45)),
		AnalyticsBaseURL:      getEnv("ANALYTICS_BASE_URL", "https://analyticsdata.googleapis.com/v1beta"),
		AnalyticsToken:        os.Getenv("ANALYTICS_TOKEN"),
		AnalyticsTimeout:      time.Second * time.Duration(getEnvInt("ANALYTICS_TIMEOUT_SECONDS", 30)),
		GBPBaseURL:            getEnv("GBP_BASE_URL", "https://businessprofileperformance.googleapis.com/v1"),
		GBPToken:              os.Getenv("GBP_TOKEN"),
		GBPTimeout:            time.Second * time.Duration(getEnvInt("GBP_TIMEOUT_SECONDS", 45)),
		SearchConsoleBaseURL:  getEnv("SEARCH_CONSOLE_BASE_URL", "https://searchconsole.googleapis.com/webmasters/v3"),
		SearchConsoleToken:    os.Getenv("SEARCH_CONSOLE_TOKEN"),
		SearchConsoleTimeout:  time.Second * time.Duration(getEnvInt("SEARCH_CONSOLE_TIMEOUT_SECONDS", 30)),
		CallRailBaseURL:       getEnv("CALLRAIL_BASE_URL", "https://api.callrail.com/v3"),
		CallRailAPIKey:        os.Getenv("CALLRAIL_API_KEY"),
		CallRailTimeout:       time.Second * time.Duration(getEnvInt("CALLRAIL_TIMEOUT_SECONDS", 20)),
		ProviderBreakerEnable: getEnvBool("PROVIDER_BREAKER_ENABLED", true),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.CacheWarmThreshold <= 0 || cfg.CacheWarmThreshold >= 1 {
		return nil, fmt.Errorf("CACHE_WARM_THRESHOLD must be between 0 and 1 exclusive")
	}

	if cfg.BackfillConcurrency < 1 {
		return nil, fmt.Errorf("BACKFILL_CONCURRENCY must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
