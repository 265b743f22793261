package jwtmw

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextIdentity is the gin context key under which AuthRequired stores the caller's Identity.
const ContextIdentity = "identity"

// Public messages written by AuthRequired.
const (
	MsgUnauthorized = "unauthorized access"
	MsgInvalidToken = "invalid token"
)

// Verifier resolves a bearer token to the user ID it was issued for.
type Verifier interface {
	Verify(token string) (string, error)
}

// Identity is the authenticated caller. It is produced only by AuthRequired.
type Identity struct {
	UserID string
}

// IdentityFrom returns the Identity attached by AuthRequired.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}

// AuthRequired returns a Gin middleware function that validates bearer tokens
// and restricts access to authenticated users only.
//
// The accepted header form is "Authorization: Bearer <token>" with a
// case-insensitive scheme. A missing header, another scheme or an empty token
// is answered with MsgUnauthorized; a token that fails verification with MsgInvalidToken.
func AuthRequired(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": MsgUnauthorized})
			return
		}

		userID, err := v.Verify(tokenStr)
		if err != nil {
			slog.Warn("token rejected", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": MsgInvalidToken})
			return
		}

		c.Set(ContextIdentity, Identity{UserID: userID})
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
