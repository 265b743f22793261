// Package config loads the process-wide configuration once at startup.
// The returned Config is passed by value to the components that need it;
// nothing reads the environment after Load returns.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMongo    = "mongo"
)

// minSecretLength is the shortest JWT secret accepted at startup.
const minSecretLength = 16

// ErrMissingSecret is returned when JWT_SECRET is not set.
var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Config holds runtime settings for the task service.
type Config struct {
	// Server
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration

	// Store
	DBDriver         string
	DatabaseURL      string
	MongoDatabase    string
	DBConnectTimeout time.Duration
	RunMigrations    bool

	// Tokens and passwords
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	// Cache (disabled when RedisAddr is empty)
	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	// CORSAllowedOrigins is empty when CORS headers should not be sent.
	CORSAllowedOrigins []string

	LogFormat string
	LogLevel  string
}

// Load reads .env (if present) and the environment, then validates the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables without validating it.
func FromEnv() Config {
	driver := strings.ToLower(getEnv("DB_DRIVER", DriverSQLite))
	return Config{
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DBDriver:         driver,
		DatabaseURL:      databaseURL(driver),
		MongoDatabase:    getEnv("MONGODB_DATABASE", "tasks"),
		DBConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 60*time.Second),
		RunMigrations:    getEnvBool("RUN_MIGRATIONS", true),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		TokenTTL:   getEnvDuration("TOKEN_TTL", time.Hour),
		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),

		CORSAllowedOrigins: parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS")),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks that the required settings are present and coherent.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres, DriverMySQL, DriverMongo:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for driver %q", c.DBDriver)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.DBConnectTimeout <= 0 {
		return errors.New("DB_CONNECT_TIMEOUT must be positive")
	}
	if c.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// CacheEnabled reports whether a Redis address was configured.
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// databaseURL resolves the connection string, accepting MONGODB_URL for the mongo driver.
func databaseURL(driver string) string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	switch driver {
	case DriverMongo:
		return os.Getenv("MONGODB_URL")
	case DriverSQLite:
		return "tasks.db"
	}
	return ""
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
