package task

import "errors"

// Domain-specific errors for the task package.
var (
	ErrEmptyTitle = errors.New("task title is empty")
	ErrSaveFailed = errors.New("failed to persist tasks")
)
