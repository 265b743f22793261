// Package entity defines the domain models for the tasks feature.
package entity

import "time"

// Task is a to-do item owned by exactly one user.
// OwnerID is set from the authenticated identity at creation and never changes.
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     time.Time
	Status      bool
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTask holds the caller-supplied fields of a task being created.
type NewTask struct {
	Title       string
	Description string
	DueDate     time.Time
}

// TaskUpdate replaces all four mutable fields of a task.
type TaskUpdate struct {
	Title       string
	Description string
	DueDate     time.Time
	Status      bool
}
