// Package usecase implements the business logic for the auth feature.
package usecase

import "task_backend/internal/shared/apperr"

var (
	// ErrUserNotFound is returned by repositories when no user matches the lookup.
	ErrUserNotFound = apperr.New(apperr.KindNotFound, "user not found")

	// ErrUsernameTaken is returned when attempting to register a username that already exists.
	ErrUsernameTaken = apperr.New(apperr.KindDuplicate, "username already exists")

	// ErrInvalidCredentials is returned by Login for an unknown username and for a wrong
	// password alike, so callers cannot tell which one failed.
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthenticated, "invalid credentials")

	// ErrUsernameRequired and ErrPasswordRequired reject blank registration input.
	ErrUsernameRequired = apperr.New(apperr.KindValidation, "username is required")
	ErrPasswordRequired = apperr.New(apperr.KindValidation, "password is required")
)
