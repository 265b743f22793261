package db

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"task_backend/internal/app/config"
)

// TestDialector は各ドライバー名に対応するダイアレクターが選ばれることを検証します。
func TestDialector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		driver string
		name   string
	}{
		{config.DriverPostgres, "postgres"},
		{config.DriverMySQL, "mysql"},
		{config.DriverSQLite, "sqlite"},
	}
	for _, tt := range tests {
		d, err := Dialector(tt.driver, "dsn")
		require.NoError(t, err, tt.driver)
		assert.Equal(t, tt.name, d.Name())
	}

	_, err := Dialector(config.DriverMongo, "mongodb://localhost")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	opener := func(dsn string) (*gorm.DB, error) {
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attemptCount := 0

	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := connectWithRetry("test-dsn", time.Second, 10*time.Millisecond, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attemptCount != 3 {
		t.Errorf("expected 3 attempts, got %d", attemptCount)
	}
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, errors.New("connection refused")
	}

	_, err := connectWithRetry("test-dsn", 50*time.Millisecond, 10*time.Millisecond, opener)

	if err == nil {
		t.Fatal("expected error after timeout, got nil")
	}
	if attemptCount < 2 {
		t.Errorf("expected several connection attempts, got %d", attemptCount)
	}
}

// TestOpenDB_SQLiteMigrates はSQLiteで接続とマイグレーションが行われることを検証します。
func TestOpenDB_SQLiteMigrates(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		DBDriver:         config.DriverSQLite,
		DatabaseURL:      ":memory:",
		DBConnectTimeout: time.Second,
		RunMigrations:    true,
	}

	db, err := OpenDB(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasTable("tasks"))
	assert.True(t, db.Migrator().HasIndex("tasks", "idx_tasks_owner"))
}

// TestOpenDB_UnsupportedDriver はmongoなどSQL以外のドライバーで即座にエラーになることを検証します。
func TestOpenDB_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := OpenDB(config.Config{DBDriver: config.DriverMongo, DBConnectTimeout: time.Minute})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}
