package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName       string
	AppEnv        string
	AppURL        string
	Port          string
	SupportEmail  string
	DefaultLocale string
	PostsPerPage  int

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Sessions
	SessionSecret string
	SessionTTL    time.Duration
	RedisURL      string // Empty: in-memory sessions and rate limits

	// Security
	TokenPasswordResetExpiry time.Duration
	AuthRateLimit            int
	AuthRateWindow           time.Duration
	TrustedProxyHeader       string // Empty: rate limits key on the connection address

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Storage: "local" or "s3"
	StorageDriver    string
	FilesStoragePath string
	FilesPublicURL   string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services
	S3PublicURL string // Optional: CDN or public bucket domain used in post links
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:       envString("APP_NAME", "Fanaberia"),
		AppEnv:        envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:        envRequired("APP_URL"), // Required: base URL for email links and OAuth redirects
		Port:          envString("PORT", "8090"),
		SupportEmail:  envString("SUPPORT_EMAIL", "hello@example.com"),
		DefaultLocale: envString("DEFAULT_LOCALE", "en"),
		PostsPerPage:  envInt("POSTS_PER_PAGE", 9),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/fanaberia.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Sessions
		SessionSecret: envRequired("SESSION_SECRET"),
		SessionTTL:    envDuration("SESSION_TTL", 720*time.Hour), // 30 days
		RedisURL:      envString("REDIS_URL", ""),

		// Security
		TokenPasswordResetExpiry: envDuration("TOKEN_PASSWORD_RESET_EXPIRY", 1*time.Hour),
		AuthRateLimit:            envInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow:           envDuration("AUTH_RATE_WINDOW", 15*time.Minute),
		TrustedProxyHeader:       envString("TRUSTED_PROXY_HEADER", ""), // e.g. CF-Connecting-IP

		// OAuth
		GoogleClientID:     envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: envString("GOOGLE_CLIENT_SECRET", ""),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		StorageDriver:    envString("STORAGE_DRIVER", "local"),
		FilesStoragePath: envString("FILES_STORAGE_PATH", "./data/uploads"),
		FilesPublicURL:   envString("FILES_PUBLIC_URL", "/uploads"),

		S3Region:    envString("S3_REGION", ""),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
		S3PublicURL: envString("S3_PUBLIC_URL", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}
	if cfg.StorageDriver == "s3" {
		validateS3(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows email to use log mode for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
}

func validateS3(cfg *Config) {
	for key, value := range map[string]string{
		"S3_REGION":     cfg.S3Region,
		"S3_BUCKET":     cfg.S3Bucket,
		"S3_ACCESS_KEY": cfg.S3AccessKey,
		"S3_SECRET_KEY": cfg.S3SecretKey,
	} {
		if value == "" {
			slog.Error("config required env var missing", "key", key, "storage_driver", "s3")
			os.Exit(1)
		}
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// SecureCookies reports whether cookies should carry the Secure flag.
// Based on APP_ENV rather than r.TLS, which is unreliable behind load balancers.
func (c *Config) SecureCookies() bool {
	return c.IsProduction() && !envBool("INSECURE_COOKIES", false)
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx, templates and client-facing contexts.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:       c.AppName,
		AppEnv:        c.AppEnv,
		AppURL:        c.AppURL,
		Port:          c.Port,
		SupportEmail:  c.SupportEmail,
		DefaultLocale: c.DefaultLocale,
		PostsPerPage:  c.PostsPerPage,

		EmailFrom: c.EmailFrom,

		GoogleClientID: c.GoogleClientID,

		FilesPublicURL: c.FilesPublicURL,
		S3Endpoint:     c.S3Endpoint, // Needed for CSP policies
	}
}
