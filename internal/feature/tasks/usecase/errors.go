package usecase

import "task_backend/internal/shared/apperr"

var (
	// ErrTaskNotFound is returned when no task matches both the ID and the owner.
	// A task owned by someone else is reported the same way.
	ErrTaskNotFound = apperr.New(apperr.KindNotFound, "task not found")

	// ErrOwnerRequired means the call reached the usecase without an authenticated owner.
	ErrOwnerRequired = apperr.New(apperr.KindUnauthenticated, "unauthorized access")

	ErrTitleRequired       = apperr.New(apperr.KindValidation, "title is required")
	ErrDescriptionRequired = apperr.New(apperr.KindValidation, "description is required")
	ErrDueDateRequired     = apperr.New(apperr.KindValidation, "dueDate is required")
)
