package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "task_backend/internal/feature/auth/transport/handler"
	taskhandler "task_backend/internal/feature/tasks/transport/handler"
	"task_backend/internal/platform/http/handler"
	"task_backend/internal/platform/http/httperror"
	"task_backend/internal/platform/http/middleware"
	jwtmw "task_backend/internal/platform/jwt"
)

// Options tunes the router's cross-cutting behavior.
type Options struct {
	// CORSAllowedOrigins enables CORS for these origins; empty disables it.
	CORSAllowedOrigins []string
	// MaxBodyBytes limits request bodies; 0 uses middleware.DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// NewRouter wires every route. Task routes sit behind AuthRequired(verifier).
func NewRouter(opts Options, auth *authhandler.AuthHandler, tasks *taskhandler.TaskHandler,
	health *handler.HealthHandler, verifier jwtmw.Verifier) *gin.Engine {
	httperror.UseJSONFieldNames()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLog(),
		middleware.Recovery(),
		middleware.SecurityHeaders(),
		middleware.MaxBytes(opts.MaxBodyBytes),
	)
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CORSAllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders: []string{middleware.HeaderRequestID},
			MaxAge:        12 * time.Hour,
		}))
	}

	// 認証不要
	r.GET("/healthz", health.Live)
	r.HEAD("/healthz", health.Live)
	r.GET("/readyz", health.Ready)
	r.POST("/register", auth.Register)
	r.POST("/login", auth.Login)

	// 認証必須のルート
	authed := r.Group("/tasks")
	authed.Use(jwtmw.AuthRequired(verifier))
	{
		authed.POST("", tasks.Create)
		authed.GET("", tasks.List)
		authed.GET("/search", tasks.Search)
		authed.GET("/:taskId", tasks.Get)
		authed.PUT("/:taskId", tasks.Update)
		authed.DELETE("/:taskId", tasks.Delete)
	}

	return r
}
