// Package dto defines data transfer objects for the tasks feature's HTTP transport layer.
package dto

import (
	"strings"
	"time"

	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/shared/apperr"
)

// dateOnly is the calendar-date form accepted for dueDate besides RFC 3339.
const dateOnly = "2006-01-02"

// MsgTaskDeleted is the body message of a successful DELETE.
const MsgTaskDeleted = "Task deleted successfully."

// CreateTaskReq is the request body for POST /tasks. It has no owner field.
type CreateTaskReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	DueDate     string `json:"dueDate" binding:"required"`
}

// ToNewTask validates the due date and converts the request to domain input.
func (r CreateTaskReq) ToNewTask() (entity.NewTask, error) {
	due, err := ParseDueDate(r.DueDate)
	if err != nil {
		return entity.NewTask{}, err
	}
	return entity.NewTask{Title: r.Title, Description: r.Description, DueDate: due}, nil
}

// UpdateTaskReq is the request body for PUT /tasks/:taskId. Every field is replaced.
type UpdateTaskReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	DueDate     string `json:"dueDate" binding:"required"`
	Status      *bool  `json:"status" binding:"required"`
}

// ToTaskUpdate validates the due date and converts the request to domain input.
func (r UpdateTaskReq) ToTaskUpdate() (entity.TaskUpdate, error) {
	due, err := ParseDueDate(r.DueDate)
	if err != nil {
		return entity.TaskUpdate{}, err
	}
	upd := entity.TaskUpdate{Title: r.Title, Description: r.Description, DueDate: due}
	if r.Status != nil {
		upd.Status = *r.Status
	}
	return upd, nil
}

// ParseDueDate accepts an RFC 3339 timestamp or a YYYY-MM-DD date (midnight UTC).
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, apperr.Validation("dueDate must be an RFC 3339 timestamp or a YYYY-MM-DD date")
}

// TaskRes is the JSON representation of a task.
type TaskRes struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Status      bool      `json:"status"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskEnvelope wraps a single task as {"task": ...}.
type TaskEnvelope struct {
	Task TaskRes `json:"task"`
}

// TaskListRes wraps tasks as {"tasks": [...]}. Tasks is never nil.
type TaskListRes struct {
	Tasks []TaskRes `json:"tasks"`
}

// MessageRes is a body carrying only a human-readable message.
type MessageRes struct {
	Message string `json:"message"`
}

// FromEntity converts a domain task to its response shape.
func FromEntity(t *entity.Task) TaskRes {
	return TaskRes{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.UTC(),
		Status:      t.Status,
		UserID:      t.OwnerID,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

// FromEntities converts tasks, returning an empty non-nil slice for no tasks.
func FromEntities(tasks []entity.Task) []TaskRes {
	out := make([]TaskRes, 0, len(tasks))
	for i := range tasks {
		out = append(out, FromEntity(&tasks[i]))
	}
	return out
}
