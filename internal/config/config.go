package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment
// variables. It is injected explicitly into every handler and job so a
// multi-tenant deployment never needs code edits.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string // Public base URL of the site hosting the intro pages

	// Database
	DatabaseURL string

	// Session storage (in-memory when RedisURL is empty)
	RedisURL      string
	SessionSecret string // Used for cookie encryption (min 32 chars)

	// TLS/mTLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // CA for verifying client certs (mTLS)

	// OIDC (admin dashboard auth)
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
	AdminEmails      []string // Emails granted the admin role at first login

	// CORS (tracking endpoints are called cross-origin from intro pages)
	CORSOrigins string // Comma-separated allowed origins; empty allows BaseURL only

	// Stats
	StatsWindowDays int // Range bound for per-variant aggregation queries

	// Background variant path checker
	EnablePathChecker bool
	PathCheckInterval time.Duration
	PathCheckMaxAge   time.Duration

	// Development
	SeedDev bool // Seed a sample experiment at startup
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:         getEnv("ENV", "development"),
		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/splitpath?sslmode=disable"),

		RedisURL:      getEnv("REDIS_URL", ""),
		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),

		TLSEnabled:  getEnv("TLS_ENABLED", "") != "",
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:   getEnv("TLS_CA_FILE", ""),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		AdminEmails:      splitList(getEnv("ADMIN_EMAILS", "")),

		CORSOrigins: getEnv("CORS_ORIGINS", ""),

		StatsWindowDays: getEnvInt("STATS_WINDOW_DAYS", 90),

		EnablePathChecker: getEnv("ENABLE_PATH_CHECKER", "") != "",
		PathCheckInterval: getEnvDuration("PATH_CHECK_INTERVAL", 15*time.Minute),
		PathCheckMaxAge:   getEnvDuration("PATH_CHECK_MAX_AGE", 6*time.Hour),

		SeedDev: getEnv("SEED_DEV", "") != "",
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsMTLSEnabled returns true if mTLS is configured with a CA file.
func (c *Config) IsMTLSEnabled() bool {
	return c.TLSEnabled && c.TLSCAFile != ""
}

// IsAdminEmail returns true if the email is on the configured admin list.
func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

// StatsWindow returns the aggregation range bound as a duration.
func (c *Config) StatsWindow() time.Duration {
	days := c.StatsWindowDays
	if days <= 0 {
		days = 90
	}
	return time.Duration(days) * 24 * time.Hour
}
