// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account.
type User struct {
	// ID is the store-generated identifier. It is opaque to every layer above the adapters.
	ID string

	// Username is unique across all users and never changes after registration.
	Username string

	// PasswordHash is the output of the password hasher. Plaintext passwords are never stored.
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}
