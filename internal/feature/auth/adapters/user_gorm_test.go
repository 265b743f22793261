package adapters

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task_backend/internal/feature/auth/domain/entity"
	"task_backend/internal/feature/auth/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
// The pool is pinned to one connection because every :memory: connection is a separate database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(&UserModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func TestNewUserGorm(t *testing.T) {
	db := setupTestDB(t)

	repo := NewUserGorm(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestUserGorm_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		user := &entity.User{Username: "alice", PasswordHash: "hashed_password"}
		err := repo.Create(context.Background(), user)

		assert.NoError(t, err, "failed to create user")
		assert.Len(t, user.ID, 36, "ID is not a UUID")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
		assert.False(t, user.UpdatedAt.IsZero(), "UpdatedAt is not set")
	})

	t.Run("duplicate username error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserGorm(db)

		err := repo.Create(context.Background(), &entity.User{Username: "duplicate", PasswordHash: "p1"})
		require.NoError(t, err, "failed to create first user")

		err = repo.Create(context.Background(), &entity.User{Username: "duplicate", PasswordHash: "p2"})

		assert.ErrorIs(t, err, usecase.ErrUsernameTaken, "should return ErrUsernameTaken")

		var count int64
		require.NoError(t, db.Model(&UserModel{}).Where("username = ?", "duplicate").Count(&count).Error)
		assert.Equal(t, int64(1), count, "no second record may be created")
	})

	t.Run("concurrent registrations of one username yield exactly one user", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserGorm(db)

		const attempts = 8
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			success int
		)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := repo.Create(context.Background(), &entity.User{Username: "racer", PasswordHash: "p"})
				if err == nil {
					mu.Lock()
					success++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, success)
		var count int64
		require.NoError(t, db.Model(&UserModel{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("nil user error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		err := repo.Create(context.Background(), nil)

		assert.Error(t, err, "should return error for nil user")
	})
}

func TestUserGorm_FindByUsername(t *testing.T) {
	t.Run("find user by username successfully", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		expected := &entity.User{Username: "find-me", PasswordHash: "hashed_password"}
		require.NoError(t, repo.Create(context.Background(), expected), "failed to create test data")

		found, err := repo.FindByUsername(context.Background(), "find-me")

		require.NoError(t, err, "failed to find user")
		assert.Equal(t, expected.ID, found.ID, "ID does not match")
		assert.Equal(t, "find-me", found.Username, "username does not match")
		assert.Equal(t, "hashed_password", found.PasswordHash, "password hash does not match")
	})

	t.Run("username not found error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		found, err := repo.FindByUsername(context.Background(), "nobody")

		assert.Nil(t, found, "user should be nil")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound, "should return ErrUserNotFound")
	})

	t.Run("find correct user when multiple users exist", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		users := []*entity.User{
			{Username: "user1", PasswordHash: "pass1"},
			{Username: "user2", PasswordHash: "pass2"},
			{Username: "user3", PasswordHash: "pass3"},
		}
		for _, u := range users {
			require.NoError(t, repo.Create(context.Background(), u), "failed to create test data")
		}

		found, err := repo.FindByUsername(context.Background(), "user2")

		require.NoError(t, err, "failed to find user")
		assert.Equal(t, users[1].ID, found.ID, "ID does not match")
		assert.Equal(t, "pass2", found.PasswordHash, "password hash does not match")
	})
}

func TestUserGorm_FindByID(t *testing.T) {
	t.Run("find user by ID successfully", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		expected := &entity.User{Username: "by-id", PasswordHash: "hashed_password"}
		require.NoError(t, repo.Create(context.Background(), expected))

		found, err := repo.FindByID(context.Background(), expected.ID)

		require.NoError(t, err, "failed to find user")
		assert.Equal(t, expected.Username, found.Username)
	})

	t.Run("ID not found error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		found, err := repo.FindByID(context.Background(), "00000000-0000-0000-0000-000000000000")

		assert.Nil(t, found, "user should be nil")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound, "should return ErrUserNotFound")
	})
}

func TestUserGorm_Timestamps(t *testing.T) {
	repo := NewUserGorm(setupTestDB(t))

	beforeCreate := time.Now()
	user := &entity.User{Username: "timestamp", PasswordHash: "password"}
	require.NoError(t, repo.Create(context.Background(), user), "failed to create user")
	afterCreate := time.Now()

	assert.False(t, user.CreatedAt.Before(beforeCreate), "CreatedAt is before creation time")
	assert.False(t, user.CreatedAt.After(afterCreate), "CreatedAt is after creation time")

	found, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err, "failed to find user")
	assert.Equal(t, user.CreatedAt.Unix(), found.CreatedAt.Unix(), "CreatedAt does not match")
}
