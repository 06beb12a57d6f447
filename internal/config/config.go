package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Single-user mode: requests without an X-User header act as this user
	DefaultUsername string

	// Mutating requests allowed per user per minute (0 disables the limit)
	WriteRateLimit int

	// Goals
	GoalsTimezone  string
	GoalsWeekStart int // 0=Monday .. 6=Sunday
	location       *time.Location

	// Observability (optional)
	SentryDSN string

	// Reflection archive. S3 is used when a bucket is configured, the
	// local directory otherwise.
	ArchiveDir  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services (MinIO, R2, etc.)
}

const (
	DefaultTimezone     = "America/New_York"
	DefaultDBConnection = "./data/pps.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_txlock=immediate"
)

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Productivity"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", DefaultDBConnection),

		DefaultUsername: envString("DEFAULT_USERNAME", ""),
		WriteRateLimit:  envInt("WRITE_RATE_LIMIT", 120),

		// Goals
		GoalsTimezone:  envString("GOALS_TIMEZONE", DefaultTimezone),
		GoalsWeekStart: envInt("GOALS_WEEK_START", 0),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Archive
		ArchiveDir:  envString("ARCHIVE_DIR", "data/daily_review"),
		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
	}

	if cfg.GoalsWeekStart < 0 || cfg.GoalsWeekStart > 6 {
		slog.Warn("config week start out of range, using monday", "value", cfg.GoalsWeekStart)
		cfg.GoalsWeekStart = 0
	}

	err = cfg.SetTimezone(cfg.GoalsTimezone)
	if err != nil {
		slog.Error("config invalid timezone", "key", "GOALS_TIMEZONE", "value", cfg.GoalsTimezone, "error", err)
		os.Exit(1)
	}

	return cfg
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
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

// UseS3 reports whether reflections are archived to S3.
func (c *Config) UseS3() bool {
	return c.S3Bucket != ""
}

// SetTimezone sets the zone goal periods are computed in.
func (c *Config) SetTimezone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	c.GoalsTimezone = name
	c.location = loc
	return nil
}

// Location is the zone goal periods are computed in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Sanitized returns a copy of the config with only public/safe fields.
// Credentials and connection strings are excluded.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:         c.AppName,
		AppEnv:          c.AppEnv,
		Port:            c.Port,
		DBDriver:        c.DBDriver,
		DefaultUsername: c.DefaultUsername,
		WriteRateLimit:  c.WriteRateLimit,
		GoalsTimezone:   c.GoalsTimezone,
		GoalsWeekStart:  c.GoalsWeekStart,
		location:        c.location,
		ArchiveDir:      c.ArchiveDir,
		S3Bucket:        c.S3Bucket,
		S3Endpoint:      c.S3Endpoint,
	}
}
