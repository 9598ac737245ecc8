package task

import (
	"context"

	"kurisu-bot/internal/model"
)

// UseCase defines the business logic interface for the to-do domain.
// Every mutation is persisted before the call returns (write-through).
type UseCase interface {
	// Load reads the user's persisted tasks into memory. Safe to call repeatedly.
	Load(ctx context.Context, sc model.Scope) error

	// Add creates a task. Empty titles are rejected with ErrEmptyTitle.
	Add(ctx context.Context, sc model.Scope, input AddInput) (model.Task, error)

	// List returns the user's tasks in insertion order.
	List(ctx context.Context, sc model.Scope, input ListInput) ([]model.Task, error)

	// Complete marks the task at the given full-list index as done.
	// Out-of-range indexes return false and leave the list unchanged;
	// no error escapes to the caller.
	Complete(ctx context.Context, sc model.Scope, index int) bool

	// ClearCompleted removes completed tasks and returns how many were dropped.
	ClearCompleted(ctx context.Context, sc model.Scope) (int, error)

	// Summary formats the user's pending tasks as an LLM context block.
	// Empty string when there is nothing pending.
	Summary(ctx context.Context, sc model.Scope) string
}
