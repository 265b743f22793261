// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/feature/tasks/usecase"
)

// CachingTaskRepository decorates a TaskRepository with a Redis cache of each owner's task list.
// Cached lists live under a key that embeds a per-owner version counter. Writes go to the
// inner repository first and then bump the counter, so a list loaded before a write can only
// land under a version nobody reads anymore. Redis failures are logged and never fail the call.
type CachingTaskRepository struct {
	inner     usecase.TaskRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.TaskRepository = (*CachingTaskRepository)(nil)

// NewCachingTaskRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "tasks".
// A nil rdb turns the decorator into a pass-through.
func NewCachingTaskRepository(rdb *redis.Client, ttl time.Duration, inner usecase.TaskRepository, namespace string) *CachingTaskRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "tasks"
	}
	return &CachingTaskRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

func (c *CachingTaskRepository) Create(ctx context.Context, task *entity.Task) error {
	if err := c.inner.Create(ctx, task); err != nil {
		return err
	}
	c.invalidate(ctx, task.OwnerID)
	return nil
}

// ListByOwner serves the owner's list from cache, falling back to the inner repository.
func (c *CachingTaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Task, error) {
	if c.rdb == nil {
		return c.inner.ListByOwner(ctx, ownerID)
	}

	// 1) Resolve the current version before touching the store
	ver, err := c.rdb.Get(ctx, c.versionKey(ownerID)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		ver = 0
	case err != nil:
		slog.Warn("task cache version read failed", "owner_id", ownerID, "error", err)
		return c.inner.ListByOwner(ctx, ownerID)
	}
	key := c.cacheKey(ownerID, ver)

	// 2) Check cache
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil && len(b) > 0:
		var out []entity.Task
		if err := json.Unmarshal(b, &out); err == nil && out != nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	case err != nil && !errors.Is(err, redis.Nil):
		slog.Warn("task cache read failed", "key", key, "error", err)
	}

	// 3) Fallback to the store
	out, err := c.inner.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	// 4) Store in cache (best effort); a concurrent write has already moved past ver
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Warn("task cache write failed", "key", key, "error", err)
		}
	}
	return out, nil
}

func (c *CachingTaskRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Task, error) {
	return c.inner.FindByID(ctx, ownerID, id)
}

func (c *CachingTaskRepository) Update(ctx context.Context, ownerID, id string, upd entity.TaskUpdate) (*entity.Task, error) {
	task, err := c.inner.Update(ctx, ownerID, id, upd)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, ownerID)
	return task, nil
}

func (c *CachingTaskRepository) Delete(ctx context.Context, ownerID, id string) error {
	if err := c.inner.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	c.invalidate(ctx, ownerID)
	return nil
}

// SearchByTitle is not cached; fragments are too varied to be worth it.
func (c *CachingTaskRepository) SearchByTitle(ctx context.Context, ownerID, fragment string) ([]entity.Task, error) {
	return c.inner.SearchByTitle(ctx, ownerID, fragment)
}

// invalidate bumps the owner's version so cached lists stop being read. Best effort.
// Superseded entries are left to expire with their TTL.
func (c *CachingTaskRepository) invalidate(ctx context.Context, ownerID string) {
	if c.rdb == nil {
		return
	}
	key := c.versionKey(ownerID)
	if err := c.rdb.Incr(ctx, key).Err(); err != nil {
		slog.Warn("task cache invalidation failed", "key", key, "error", err)
	}
}

// versionKey holds the owner's list version. It has no TTL: an expired counter would
// restart at 0 and could resurrect a list cached under a reused version.
func (c *CachingTaskRepository) versionKey(ownerID string) string {
	return c.namespace + ":owner:" + safe(ownerID) + ":ver"
}

// cacheKey generates the cache key for an owner's task list at version ver.
func (c *CachingTaskRepository) cacheKey(ownerID string, ver int64) string {
	return c.namespace + ":owner:" + safe(ownerID) + ":v" + strconv.FormatInt(ver, 10)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
