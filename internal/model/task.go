package model

import (
	"time"

	"github.com/google/uuid"
)

// Task is a single to-do item owned by one user.
// DueDate is set at creation only; Completed is the one field mutated in place.
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	DueDate   *time.Time `json:"due_date"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewTask creates a Task with a fresh ID and creation timestamp.
func NewTask(title string, dueDate *time.Time) Task {
	return Task{
		ID:        uuid.NewString(),
		Title:     title,
		DueDate:   dueDate,
		Completed: false,
		CreatedAt: time.Now(),
	}
}
