// Package handler provides HTTP handlers for the auth feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"task_backend/internal/feature/auth/transport/http/dto"
	"task_backend/internal/platform/http/httperror"
)

// AuthUsecase defines the use cases for authentication operations.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	// Register creates a user and returns its ID.
	Register(ctx context.Context, username, password string) (string, error)
	// Login authenticates a user and returns a signed token on success.
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthHandler handles HTTP requests for authentication operations.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /register.
//   - 400 on a missing username or password
//   - 409 when the username is taken
//   - 201 with the new user's ID on success
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.CredentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperror.RespondBind(c, err)
		return
	}
	id, err := h.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		slog.Warn("register failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		httperror.Respond(c, err)
		return
	}
	slog.Info("user registered", "user_id", id, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.RegisterRes{Message: "User registered successfully.", ID: id})
}

// Login handles POST /login.
//   - 400 on a missing username or password
//   - 401 on bad credentials, without saying which part was wrong
//   - 200 with a signed token on success
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.CredentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperror.RespondBind(c, err)
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		slog.Warn("login failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		httperror.Respond(c, err)
		return
	}
	slog.Info("user login successful", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.TokenRes{Token: token})
}
