// Package password provides the one-way salted password hasher used by the auth feature.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"task_backend/internal/shared/apperr"
)

// ErrTooLong is returned when the plaintext exceeds bcrypt's 72 byte input limit.
var ErrTooLong = apperr.New(apperr.KindValidation, "password must be at most 72 bytes")

// Bcrypt hashes passwords with a random per-hash salt.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a hasher with the given cost, clamped to bcrypt's accepted range.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Bcrypt{cost: cost}
}

// Hash returns a bcrypt digest of plaintext. Two calls on the same input yield different digests.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrTooLong
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext produced hash.
func (b *Bcrypt) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
