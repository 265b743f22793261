package di

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"task_backend/internal/app/config"
	"task_backend/internal/app/router"
	authhandler "task_backend/internal/feature/auth/transport/handler"
	authusecase "task_backend/internal/feature/auth/usecase"
	taskhandler "task_backend/internal/feature/tasks/transport/handler"
	taskusecase "task_backend/internal/feature/tasks/usecase"
	"task_backend/internal/platform/cache"
	"task_backend/internal/platform/http/handler"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/platform/password"
)

// NewTaskRepository wraps the store's task repository with the Redis list cache.
// With a nil rdb the decorator passes every call through.
func NewTaskRepository(rdb *redis.Client, cfg config.Config, store *Store) taskusecase.TaskRepository {
	return cache.NewCachingTaskRepository(rdb, cfg.CacheTTL, store.Tasks, "tasks")
}

// NewRouter builds usecases and handlers on store and returns the HTTP router.
func NewRouter(cfg config.Config, store *Store, rdb *redis.Client) *gin.Engine {
	tokens := jwtmw.NewTokenService([]byte(cfg.JWTSecret))
	hasher := password.NewBcrypt(cfg.BcryptCost)

	// Usecase
	authUC := authusecase.NewAuthUsecase(store.Users, hasher, tokens, cfg.TokenTTL)
	taskUC := taskusecase.NewTaskUsecase(NewTaskRepository(rdb, cfg, store))

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	taskH := taskhandler.NewTaskHandler(taskUC)
	var ping handler.Pinger
	if store.Ping != nil {
		ping = handler.PingFunc(store.Ping)
	}
	healthH := handler.NewHealthHandler(ping)

	return router.NewRouter(router.Options{CORSAllowedOrigins: cfg.CORSAllowedOrigins}, authH, taskH, healthH, tokens)
}
