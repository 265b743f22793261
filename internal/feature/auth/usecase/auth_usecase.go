package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"task_backend/internal/feature/auth/domain/entity"
)

// dummyHash is compared against when the username does not exist, so an unknown
// user costs the same bcrypt work as a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user and fills in its ID.
	// It returns ErrUsernameTaken if the username already exists.
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername returns ErrUserNotFound if no user has the username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByID returns ErrUserNotFound if no user has the ID.
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// PasswordHasher produces and checks salted one-way password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer mints signed session tokens.
type TokenIssuer interface {
	Issue(userID string, ttl time.Duration) (string, error)
}

// authUsecase implements registration and login.
type authUsecase struct {
	users    UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	tokenTTL time.Duration
}

// NewAuthUsecase creates a new instance of authUsecase. Tokens minted by Login are valid for tokenTTL.
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, tokens TokenIssuer, tokenTTL time.Duration) *authUsecase {
	return &authUsecase{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
	}
}

// Register stores a new user with a hashed password and returns its ID.
func (u *authUsecase) Register(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", ErrUsernameRequired
	}
	if password == "" {
		return "", ErrPasswordRequired
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("register %q: %w", username, err)
	}

	user := &entity.User{Username: username, PasswordHash: hashed}
	if err := u.users.Create(ctx, user); err != nil {
		return "", err
	}
	return user.ID, nil
}

// Login authenticates a user and returns a signed token on success.
// An unknown username and a wrong password both return ErrInvalidCredentials.
func (u *authUsecase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return "", fmt.Errorf("login lookup: %w", err)
	}

	passwordHash := dummyHash
	if user != nil {
		passwordHash = user.PasswordHash
	}

	// Always verify so both failure paths do the same work.
	match := u.hasher.Verify(password, passwordHash)
	if user == nil || !match {
		return "", ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(user.ID, u.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
