package task

import "time"

// AddInput is the input for creating a task.
// UserID is carried in model.Scope, not here.
type AddInput struct {
	Title   string
	DueDate *time.Time
}

// ListInput filters the task listing.
type ListInput struct {
	IncludeCompleted bool
}
