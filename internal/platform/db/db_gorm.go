// Package db opens the SQL store through GORM and migrates its schema.
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task_backend/internal/app/config"
	authadapters "task_backend/internal/feature/auth/adapters"
	taskadapters "task_backend/internal/feature/tasks/adapters"
)

// retryInterval is the pause between connection attempts.
const retryInterval = 3 * time.Second

// Opener opens a database handle for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// ErrUnsupportedDriver is returned for a driver GORM cannot serve (including mongo).
var ErrUnsupportedDriver = errors.New("unsupported sql driver")

// Dialector returns the GORM dialector for driver.
// MySQL DSNs need parseTime=true so DATETIME columns scan into time.Time.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// NewOpener returns an Opener for driver. TranslateError is always on so
// unique-constraint violations surface as gorm.ErrDuplicatedKey.
func NewOpener(driver string) Opener {
	return func(dsn string) (*gorm.DB, error) {
		dialector, err := Dialector(driver, dsn)
		if err != nil {
			return nil, err
		}
		return gorm.Open(dialector, &gorm.Config{
			TranslateError: true,
			Logger:         logger.Default.LogMode(logger.Warn),
		})
	}
}

// OpenDB connects to the configured SQL store, retrying until cfg.DBConnectTimeout,
// and runs migrations when cfg.RunMigrations is set.
func OpenDB(cfg config.Config) (*gorm.DB, error) {
	if _, err := Dialector(cfg.DBDriver, cfg.DatabaseURL); err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(cfg.DatabaseURL, cfg.DBConnectTimeout, NewOpener(cfg.DBDriver))
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == config.DriverSQLite {
		// SQLite allows one writer; a single connection avoids "database is locked".
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate creates or updates the users and tasks tables with their indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&authadapters.UserModel{},
		&taskadapters.TaskModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	if err := taskadapters.BackfillTitleFolded(db); err != nil {
		return fmt.Errorf("failed to backfill task titles: %w", err)
	}
	return nil
}

// ConnectWithRetry calls open until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	return connectWithRetry(dsn, timeout, retryInterval, open)
}

func connectWithRetry(dsn string, timeout, interval time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if errors.Is(err, ErrUnsupportedDriver) {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "retry_in", interval)
		time.Sleep(interval)
	}
}
