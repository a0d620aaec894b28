package config

import (
	"os"
	"strings"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Session storage (optional Redis backend)
	RedisURL string

	// OIDC
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Bootstrap admins: comma-separated emails granted the admin role on login
	AdminEmails string

	// SMTP for run-failure notifications
	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPPassword string
	NotifyEmails string // Comma-separated recipients for failure alerts

	// Site Branding
	SiteTitle string // env: SITE_TITLE, default: "Content Radar"
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:              getEnv("ENV", "development"),
		ServerAddr:       getEnv("SERVER_ADDR", ":3000"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL:      getEnv("DATABASE_URL", "postgres://localhost:5432/contentradar?sslmode=disable"),
		RedisURL:         getEnv("REDIS_URL", ""),
		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		SessionSecret:    getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:      getEnv("CORS_ORIGINS", ""),
		AdminEmails:      getEnv("ADMIN_EMAILS", ""),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		SMTPFrom:         getEnv("SMTP_FROM", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		NotifyEmails:     getEnv("NOTIFY_EMAILS", ""),
		SiteTitle:        getEnv("SITE_TITLE", "Content Radar"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsEmailEnabled returns true if SMTP is configured.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// IsAdminEmail checks the bootstrap admin list for the given address.
func (c *Config) IsAdminEmail(email string) bool {
	if email == "" {
		return false
	}
	for _, a := range strings.Split(c.AdminEmails, ",") {
		if strings.EqualFold(strings.TrimSpace(a), email) {
			return true
		}
	}
	return false
}

// NotifyRecipients returns the parsed failure-alert recipient list.
func (c *Config) NotifyRecipients() []string {
	var out []string
	for _, a := range strings.Split(c.NotifyEmails, ",") {
		if addr := strings.TrimSpace(a); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
