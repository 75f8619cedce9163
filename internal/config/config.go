// Package config loads runtime settings from the environment.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"

	"itbudget/internal/logging"
)

// Config holds the application configuration.
type Config struct {
	Logging logging.Config

	// CatalogFile is an optional YAML overlay applied on top of the
	// compiled-in catalog defaults.
	CatalogFile string

	// Currency is the display currency for formatted amounts.
	Currency string

	// CashflowDistribution is "year_end" or "even".
	CashflowDistribution string

	// RecordSubmissions stores each receipt in the submissions collection.
	RecordSubmissions bool

	// SessionCookie names the cookie carrying the questionnaire session id.
	SessionCookie string

	// SessionIdleTTL evicts questionnaire sessions left untouched this long.
	// Zero keeps sessions until restart.
	SessionIdleTTL time.Duration
}

const defaultSessionIdleTTL = 12 * time.Hour

// Load reads configuration from environment variables.
func Load() *Config {
	logCfg := logging.DefaultConfig()
	logCfg.Level = getEnvOrDefault("LOG_LEVEL", logCfg.Level)
	logCfg.Format = getEnvOrDefault("LOG_FORMAT", logCfg.Format)
	logCfg.Output = getEnvOrDefault("LOG_OUTPUT", logCfg.Output)

	// DEBUG flag overrides log level
	if cast.ToBool(os.Getenv("DEBUG")) {
		logCfg.Level = "debug"
		logCfg.Development = true
	}

	distribution := strings.ToLower(getEnvOrDefault("CASHFLOW_DISTRIBUTION", "year_end"))
	if distribution != "year_end" && distribution != "even" {
		distribution = "year_end"
	}

	ttl := defaultSessionIdleTTL
	if raw := os.Getenv("SESSION_IDLE_TTL"); raw != "" {
		if d, err := cast.ToDurationE(raw); err == nil && d >= 0 {
			ttl = d
		}
	}

	return &Config{
		Logging:              logCfg,
		CatalogFile:          os.Getenv("CATALOG_FILE"),
		Currency:             getEnvOrDefault("CURRENCY", "SAR"),
		CashflowDistribution: distribution,
		RecordSubmissions:    cast.ToBool(os.Getenv("RECORD_SUBMISSIONS")),
		SessionCookie:        getEnvOrDefault("SESSION_COOKIE", "budget_session"),
		SessionIdleTTL:       ttl,
	}
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
