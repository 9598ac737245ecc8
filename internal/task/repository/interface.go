package repository

import (
	"context"

	"kurisu-bot/internal/model"
)

// TaskRepository persists one task list per user.
type TaskRepository interface {
	// Load returns the user's tasks, or an empty list if none were ever saved.
	Load(ctx context.Context, userID int64) ([]model.Task, error)

	// Save rewrites the user's full task list. All-or-nothing: a failed save
	// must leave the previously stored list intact.
	Save(ctx context.Context, userID int64, tasks []model.Task) error
}
