// Package di assembles the application's object graph from configuration.
package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"

	"task_backend/internal/app/config"
	authadapters "task_backend/internal/feature/auth/adapters"
	authusecase "task_backend/internal/feature/auth/usecase"
	taskadapters "task_backend/internal/feature/tasks/adapters"
	taskusecase "task_backend/internal/feature/tasks/usecase"
	platformdb "task_backend/internal/platform/db"
	platformmongo "task_backend/internal/platform/mongo"
)

// Store bundles the repositories of one backend with its lifecycle hooks.
type Store struct {
	Users authusecase.UserRepository
	Tasks taskusecase.TaskRepository

	// Ping reports store reachability for /readyz.
	Ping func(ctx context.Context) error
	// Migrate creates tables or indexes.
	Migrate func(ctx context.Context) error
	// Close releases the connection.
	Close func(ctx context.Context) error

	// ensureRequired creates what the store needs to stay correct, independent of migrations.
	ensureRequired func(ctx context.Context) error
}

// NewGormStore builds a Store on an open GORM handle.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users: authadapters.NewUserGorm(db),
		Tasks: taskadapters.NewTaskGorm(db),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		Migrate: func(ctx context.Context) error {
			return platformdb.Migrate(db.WithContext(ctx))
		},
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// NewMongoStore builds a Store on the named database of client.
func NewMongoStore(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	users := authadapters.NewUserMongo(db)
	tasks := taskadapters.NewTaskMongo(db)
	return &Store{
		Users: users,
		Tasks: tasks,
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		Migrate: func(ctx context.Context) error {
			return errors.Join(users.EnsureIndexes(ctx), tasks.EnsureIndexes(ctx))
		},
		Close: client.Disconnect,
		// MongoDB creates collections lazily, so nothing else would reject duplicate usernames.
		ensureRequired: users.EnsureIndexes,
	}
}

// prepareStore ensures the required indexes and, when runMigrations is set, runs Migrate.
func prepareStore(ctx context.Context, s *Store, runMigrations bool) error {
	if s.ensureRequired != nil {
		if err := s.ensureRequired(ctx); err != nil {
			return fmt.Errorf("ensure unique username index: %w", err)
		}
	}
	if runMigrations && s.Migrate != nil {
		if err := s.Migrate(ctx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}
	return nil
}

// OpenStore connects to the backend selected by cfg.DBDriver.
// For mongo the unique username index is always ensured; OpenDB migrates SQL stores when enabled.
func OpenStore(ctx context.Context, cfg config.Config) (*Store, error) {
	if cfg.DBDriver == config.DriverMongo {
		client, err := platformmongo.Connect(ctx, cfg.DatabaseURL, cfg.DBConnectTimeout)
		if err != nil {
			return nil, err
		}
		store := NewMongoStore(client, cfg.MongoDatabase)
		if err := prepareStore(ctx, store, cfg.RunMigrations); err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}
		slog.Info("store ready", "driver", cfg.DBDriver, "database", cfg.MongoDatabase)
		return store, nil
	}

	db, err := platformdb.OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("store ready", "driver", cfg.DBDriver)
	return NewGormStore(db), nil
}
