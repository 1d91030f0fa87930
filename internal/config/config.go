package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration.
// It is populated from environment variables (optionally seeded by a .env file).
type Config struct {
	App    AppConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Loan   LoanConfig
	Report ReportConfig
	Worker WorkerConfig
	MinIO  MinIOConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
	CORSOrigins []string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// LoanConfig drives due-date defaults and overdue fines.
type LoanConfig struct {
	DefaultDays int
	DailyFine   decimal.Decimal
	MaxFine     decimal.Decimal // zero means uncapped
}

type ReportConfig struct {
	CacheTTL time.Duration
}

type WorkerConfig struct {
	RedisAddr     string
	Concurrency   int
	ReconcileCron string
	OverdueCron   string
	HealthPort    string
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dailyFine, err := decimal.NewFromString(getEnv("LOAN_DAILY_FINE", "0.50"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOAN_DAILY_FINE: %w", err)
	}
	maxFine, err := decimal.NewFromString(getEnv("LOAN_MAX_FINE", "20.00"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOAN_MAX_FINE: %w", err)
	}

	redisHost := getEnv("REDIS_HOST", "localhost:6379")

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Library API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Host:     redisHost,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvDuration("JWT_ACCESS_EXPIRY", 12*time.Hour),
		},
		Loan: LoanConfig{
			DefaultDays: getEnvInt("LOAN_DEFAULT_DAYS", 14),
			DailyFine:   dailyFine,
			MaxFine:     maxFine,
		},
		Report: ReportConfig{
			CacheTTL: getEnvDuration("REPORT_CACHE_TTL", time.Minute),
		},
		Worker: WorkerConfig{
			RedisAddr:     getEnv("WORKER_REDIS_ADDR", redisHost),
			Concurrency:   getEnvInt("WORKER_CONCURRENCY", 5),
			ReconcileCron: getEnv("WORKER_RECONCILE_CRON", "*/15 * * * *"),
			OverdueCron:   getEnv("WORKER_OVERDUE_CRON", "0 8 * * *"),
			HealthPort:    getEnv("WORKER_HEALTH_PORT", "9999"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "library-reports"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks settings that would otherwise fail late at runtime
func (c *Config) Validate() error {
	if c.App.Environment == "production" && c.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.Loan.DefaultDays <= 0 {
		return fmt.Errorf("LOAN_DEFAULT_DAYS must be positive")
	}
	if c.Loan.DailyFine.IsNegative() {
		return fmt.Errorf("LOAN_DAILY_FINE cannot be negative")
	}
	if c.Loan.MaxFine.IsNegative() {
		return fmt.Errorf("LOAN_MAX_FINE cannot be negative")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRY must be positive")
	}
	return nil
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
