// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// It is loaded once at startup and passed by pointer; nothing mutates it afterwards.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Stripe   StripeConfig
	Media    MediaConfig
	Auth     AuthConfig
	Worker   WorkerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port of the Redis server
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port           int
	MaxRequestSize int64
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// SMTPConfig holds SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// StripeConfig holds payment provider settings
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	SuccessURL    string
	CancelURL     string
}

// Enabled reports whether payment credentials are configured
func (s StripeConfig) Enabled() bool {
	return s.SecretKey != "" && s.WebhookSecret != ""
}

// MediaConfig holds local media storage settings
type MediaConfig struct {
	BasePath     string
	BaseURL      string
	MaxImageSize int64
	MaxVideoSize int64
}

// AuthConfig holds registration and password recovery settings
type AuthConfig struct {
	OTPExpiry        time.Duration
	ResetTokenExpiry time.Duration
	ResetPasswordURL string
}

// WorkerConfig holds background worker settings
type WorkerConfig struct {
	Concurrency       int
	CleanupSchedule   string
	ReconcileSchedule string
	WebhookEventTTL   time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	l := &loader{}
	cfg := &Config{}

	cfg.Database.Host = l.required("DB_HOST")
	cfg.Database.Port = l.int("DB_PORT", 3306)
	cfg.Database.User = l.required("DB_USER")
	cfg.Database.Password = l.required("DB_PASSWORD")
	cfg.Database.DBName = l.required("DB_NAME")

	cfg.Server.Port = l.int("SERVER_PORT", 8080)
	cfg.Server.MaxRequestSize = int64(l.int("SERVER_MAX_REQUEST_SIZE", 1<<20))

	cfg.Logging.Level = l.string("LOG_LEVEL", "info")

	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	cfg.JWT.Secret = l.required("JWT_SECRET")
	cfg.JWT.AccessTokenExpiry = l.duration("JWT_ACCESS_TOKEN_EXPIRY", time.Hour)
	cfg.JWT.RefreshTokenExpiry = l.duration("JWT_REFRESH_TOKEN_EXPIRY", 7*24*time.Hour)

	cfg.Redis.Host = l.string("REDIS_HOST", "localhost")
	cfg.Redis.Port = l.int("REDIS_PORT", 6379)
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.DB = l.int("REDIS_DB", 0)

	cfg.SMTP.Host = l.string("SMTP_HOST", "localhost")
	cfg.SMTP.Port = l.int("SMTP_PORT", 587)
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.SMTP.From = l.string("SMTP_FROM", "noreply@skillbridge.dev")

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.Stripe.Currency = strings.ToLower(l.string("STRIPE_CURRENCY", "inr"))
	cfg.Stripe.SuccessURL = l.string("STRIPE_SUCCESS_URL", "http://localhost:3000/success")
	cfg.Stripe.CancelURL = l.string("STRIPE_CANCEL_URL", "http://localhost:3000/cancel")

	cfg.Media.BasePath = l.string("MEDIA_BASE_PATH", "./media")
	cfg.Media.BaseURL = strings.TrimRight(l.string("MEDIA_BASE_URL", "http://localhost:8080/api/media"), "/")
	cfg.Media.MaxImageSize = int64(l.int("MEDIA_MAX_IMAGE_SIZE", 5<<20))
	cfg.Media.MaxVideoSize = int64(l.int("MEDIA_MAX_VIDEO_SIZE", 500<<20))

	cfg.Auth.OTPExpiry = l.duration("AUTH_OTP_EXPIRY", 5*time.Minute)
	cfg.Auth.ResetTokenExpiry = l.duration("AUTH_RESET_TOKEN_EXPIRY", 15*time.Minute)
	cfg.Auth.ResetPasswordURL = l.string("AUTH_RESET_PASSWORD_URL", "http://localhost:3000/reset-password/")

	cfg.Worker.Concurrency = l.int("WORKER_CONCURRENCY", 10)
	cfg.Worker.CleanupSchedule = l.string("WORKER_CLEANUP_SCHEDULE", "*/15 * * * *")
	cfg.Worker.ReconcileSchedule = l.string("WORKER_RECONCILE_SCHEDULE", "0 3 * * *")
	cfg.Worker.WebhookEventTTL = l.duration("WEBHOOK_EVENT_TTL", 72*time.Hour)

	if l.err != nil {
		return nil, l.err
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// loader reads typed environment variables and keeps the first error
type loader struct {
	err error
}

func (l *loader) fail(err error) {
	if l.err == nil {
		l.err = err
	}
}

func (l *loader) required(key string) string {
	value := os.Getenv(key)
	if value == "" {
		l.fail(fmt.Errorf("%s is required", key))
	}
	return value
}

func (l *loader) string(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

func (l *loader) int(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		l.fail(fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return n
}

func (l *loader) duration(key string, def time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		l.fail(fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return d
}

// parseOrigins splits a comma-separated origin list, defaulting to "*"
func parseOrigins(raw string) []string {
	origins := make([]string, 0)
	for origin := range strings.SplitSeq(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
