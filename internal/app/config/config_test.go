package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123"

// clearEnv blanks every variable FromEnv reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "GIN_MODE", "SHUTDOWN_TIMEOUT", "DB_DRIVER", "DATABASE_URL", "MONGODB_URL",
		"MONGODB_DATABASE", "DB_CONNECT_TIMEOUT", "RUN_MIGRATIONS", "JWT_SECRET", "TOKEN_TTL",
		"BCRYPT_COST", "REDIS_ADDR", "REDIS_PASSWORD", "CACHE_TTL", "CORS_ALLOWED_ORIGINS",
		"LOG_FORMAT", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "tasks.db", cfg.DatabaseURL)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 60*time.Second, cfg.DBConnectTimeout)
	assert.True(t, cfg.RunMigrations)
	assert.False(t, cfg.CacheEnabled())
	assert.Nil(t, cfg.CORSAllowedOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "5000")
	t.Setenv("DB_DRIVER", "MONGO")
	t.Setenv("MONGODB_URL", "mongodb://localhost:27017")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example ,,http://localhost:3000")
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, DriverMongo, cfg.DBDriver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.DatabaseURL)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.False(t, cfg.RunMigrations)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, []string{"https://a.example", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestFromEnv_DatabaseURLTakesPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "mongo")
	t.Setenv("DATABASE_URL", "mongodb://primary:27017")
	t.Setenv("MONGODB_URL", "mongodb://fallback:27017")

	assert.Equal(t, "mongodb://primary:27017", FromEnv().DatabaseURL)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		DBDriver:         DriverSQLite,
		DatabaseURL:      "tasks.db",
		JWTSecret:        testSecret,
		TokenTTL:         time.Hour,
		DBConnectTimeout: time.Minute,
		CacheTTL:         5 * time.Minute,
		ShutdownTimeout:  10 * time.Second,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET is required"},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, "at least"},
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }, "unsupported DB_DRIVER"},
		{"postgres without url", func(c *Config) { c.DBDriver = DriverPostgres; c.DatabaseURL = "" }, "DATABASE_URL is required"},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }, "TOKEN_TTL"},
		{"zero connect timeout", func(c *Config) { c.DBConnectTimeout = 0 }, "DB_CONNECT_TIMEOUT"},
		{"zero cache ttl", func(c *Config) { c.CacheTTL = 0 }, "CACHE_TTL"},
		{"negative shutdown timeout", func(c *Config) { c.ShutdownTimeout = -time.Second }, "SHUTDOWN_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_FailsFastWithoutSecret(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	_, err := Load()

	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already present, even when empty.
	require.NoError(t, os.Unsetenv("JWT_SECRET"))
	require.NoError(t, os.Unsetenv("PORT"))
	dir := t.TempDir()
	chdir(t, dir)
	env := "JWT_SECRET=" + testSecret + "\nPORT=9090\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, testSecret, cfg.JWTSecret)
	assert.Equal(t, "9090", cfg.Port)
}

// chdir changes the working directory for the duration of the test, like testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
