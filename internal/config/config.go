package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppEnv      string
	Port        string
	AppTimeZone string
	Location    *time.Location // Loaded from AppTimeZone

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string
	AutoMigrate  bool // Apply pending migrations on start

	// Security
	JWTSecret    string
	JWTExpiry    time.Duration
	IngestSecret string // Shared key for automated meal ingestion

	// Rate limiting
	RedisURL        string // Optional: shared counters across instances
	RateLimitWindow time.Duration
	RateLimitMax    int

	// Dashboard
	LowConfidenceThreshold float64
	CORSAllowedOrigins     []string

	// Daily summary maintenance
	SummaryRebuildSchedule string // Cron spec, empty disables
	SummaryRebuildDays     int

	// Observability (optional)
	SentryDSN string

	// Export storage (optional, S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppEnv:      envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:        envString("PORT", "8090"),
		AppTimeZone: envString("APP_TIME_ZONE", "Europe/Paris"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/macrotrack.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_time_format=sqlite"),
		AutoMigrate:  envBool("AUTO_MIGRATE", true),

		// Security
		JWTSecret:    envRequired("JWT_SECRET"),
		JWTExpiry:    envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days
		IngestSecret: envString("INGEST_SECRET", ""),

		// Rate limiting
		RedisURL:        envString("REDIS_URL", ""),
		RateLimitWindow: envDuration("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitMax:    envInt("RATE_LIMIT_MAX", 60),

		// Dashboard
		LowConfidenceThreshold: envFloat("LOW_CONFIDENCE_THRESHOLD", 0.7),
		CORSAllowedOrigins:     envList("CORS_ALLOWED_ORIGINS", nil),

		// Daily summary maintenance
		SummaryRebuildSchedule: envString("SUMMARY_REBUILD_SCHEDULE", "15 3 * * *"),
		SummaryRebuildDays:     envInt("SUMMARY_REBUILD_DAYS", 7),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Export storage
		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),
	}

	loc, err := time.LoadLocation(cfg.AppTimeZone)
	if err != nil {
		slog.Error("config invalid time zone", "key", "APP_TIME_ZONE", "value", cfg.AppTimeZone, "error", err)
		os.Exit(1)
	}
	cfg.Location = loc

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures ingestion is locked down outside development.
func validateProduction(cfg *Config) {
	if cfg.IngestSecret == "" {
		slog.Error("production deployment requires INGEST_SECRET",
			"hint", "set APP_ENV=development to run without automated ingestion")
		os.Exit(1)
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
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("config invalid float, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
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

// envList splits a comma separated value, dropping blanks.
func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
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

// CORSEnabled reports whether cross-origin browser access is configured.
func (c *Config) CORSEnabled() bool {
	return len(c.CORSAllowedOrigins) > 0
}
