// Package jwtmw issues and verifies the signed bearer tokens used by the service,
// and provides the gin middleware that guards authenticated routes.
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"task_backend/internal/shared/apperr"
)

// ErrInvalidToken is the umbrella for every token verification failure.
var ErrInvalidToken = apperr.New(apperr.KindUnauthenticated, "invalid token")

// Token verification failures. Each one satisfies errors.Is(err, ErrInvalidToken).
var (
	ErrTokenMalformed = apperr.Wrap(apperr.KindUnauthenticated, "malformed token", ErrInvalidToken)
	ErrTokenSignature = apperr.Wrap(apperr.KindUnauthenticated, "token signature is invalid", ErrInvalidToken)
	ErrTokenExpired   = apperr.Wrap(apperr.KindUnauthenticated, "token has expired", ErrInvalidToken)
)

// signingMethod is the only algorithm issued or accepted.
var signingMethod = jwt.SigningMethodHS256

// TokenService signs and verifies HS256 tokens bound to a user ID.
// It is safe for concurrent use; its key never changes after construction.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// Option configures a TokenService.
type Option func(*TokenService)

// WithClock overrides the time source used for iat, exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a TokenService with the provided signing secret.
func NewTokenService(secret []byte, opts ...Option) *TokenService {
	s := &TokenService{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue creates a signed token for userID that expires after ttl.
func (s *TokenService) Issue(userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("cannot issue token without a user id")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and expiry and returns the user ID it carries.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &jwt.RegisteredClaims{}
	token, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", classify(err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}

// classify maps jwt parser errors onto the package's token errors.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenSignature
	default:
		return ErrTokenMalformed
	}
}
