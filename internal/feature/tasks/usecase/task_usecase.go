// Package usecase implements the business logic for task operations.
// Every operation takes the owner ID from the authenticated identity; it is never read from input.
package usecase

import (
	"context"
	"strings"
	"time"

	"task_backend/internal/feature/tasks/domain/entity"
)

// TaskRepository abstracts the persistence layer for tasks.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
// Every method except Create filters by ownerID; Create stores task.OwnerID.
type TaskRepository interface {
	// Create persists task and fills in its ID and timestamps.
	Create(ctx context.Context, task *entity.Task) error

	// ListByOwner returns all tasks of ownerID in insertion order.
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Task, error)

	// FindByID returns ErrTaskNotFound unless a task matches both id and ownerID.
	FindByID(ctx context.Context, ownerID, id string) (*entity.Task, error)

	// Update overwrites all mutable fields of the task matching id and ownerID.
	Update(ctx context.Context, ownerID, id string, upd entity.TaskUpdate) (*entity.Task, error)

	// Delete removes the task matching id and ownerID.
	Delete(ctx context.Context, ownerID, id string) error

	// SearchByTitle returns tasks of ownerID whose title contains fragment, ignoring case.
	// fragment is matched literally.
	SearchByTitle(ctx context.Context, ownerID, fragment string) ([]entity.Task, error)
}

// TaskUsecase provides business logic for task operations.
type TaskUsecase struct {
	repo TaskRepository
}

// NewTaskUsecase creates a new TaskUsecase with the given repository.
func NewTaskUsecase(r TaskRepository) *TaskUsecase {
	return &TaskUsecase{repo: r}
}

// Create stores a new not-done task owned by ownerID.
func (u *TaskUsecase) Create(ctx context.Context, ownerID string, in entity.NewTask) (*entity.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	if err := validate(in.Title, in.Description, in.DueDate); err != nil {
		return nil, err
	}

	task := &entity.Task{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Status:      false,
		OwnerID:     ownerID,
	}
	if err := u.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// List returns every task owned by ownerID.
func (u *TaskUsecase) List(ctx context.Context, ownerID string) ([]entity.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	return u.repo.ListByOwner(ctx, ownerID)
}

// Get returns one task owned by ownerID.
func (u *TaskUsecase) Get(ctx context.Context, ownerID, id string) (*entity.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	if id == "" {
		return nil, ErrTaskNotFound
	}
	return u.repo.FindByID(ctx, ownerID, id)
}

// Update replaces title, description, due date and status of a task owned by ownerID.
func (u *TaskUsecase) Update(ctx context.Context, ownerID, id string, upd entity.TaskUpdate) (*entity.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	if id == "" {
		return nil, ErrTaskNotFound
	}
	if err := validate(upd.Title, upd.Description, upd.DueDate); err != nil {
		return nil, err
	}
	return u.repo.Update(ctx, ownerID, id, upd)
}

// Delete removes a task owned by ownerID.
func (u *TaskUsecase) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return ErrOwnerRequired
	}
	if id == "" {
		return ErrTaskNotFound
	}
	return u.repo.Delete(ctx, ownerID, id)
}

// Search returns tasks owned by ownerID whose title contains fragment, ignoring case.
// An empty fragment matches every task.
func (u *TaskUsecase) Search(ctx context.Context, ownerID, fragment string) ([]entity.Task, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	if fragment == "" {
		return u.repo.ListByOwner(ctx, ownerID)
	}
	return u.repo.SearchByTitle(ctx, ownerID, fragment)
}

func validate(title, description string, due time.Time) error {
	switch {
	case strings.TrimSpace(title) == "":
		return ErrTitleRequired
	case strings.TrimSpace(description) == "":
		return ErrDescriptionRequired
	case due.IsZero():
		return ErrDueDateRequired
	}
	return nil
}
