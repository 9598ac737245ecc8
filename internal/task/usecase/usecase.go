package usecase

import (
	"context"
	"fmt"
	"strings"

	"kurisu-bot/internal/model"
	"kurisu-bot/internal/task"
)

// Load reads the user's persisted tasks into the in-memory list.
func (uc *implUseCase) Load(ctx context.Context, sc model.Scope) error {
	tasks, err := uc.repo.Load(ctx, sc.UserID)
	if err != nil {
		return fmt.Errorf("failed to load tasks for user %d: %w", sc.UserID, err)
	}

	uc.mu.Lock()
	uc.lists[sc.UserID] = tasks
	uc.mu.Unlock()
	return nil
}

// Add creates a task and persists the updated list before returning.
func (uc *implUseCase) Add(ctx context.Context, sc model.Scope, input task.AddInput) (model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.Task{}, task.ErrEmptyTitle
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	t := model.NewTask(title, input.DueDate)
	updated := append(uc.lists[sc.UserID], t)

	if err := uc.repo.Save(ctx, sc.UserID, updated); err != nil {
		uc.l.Errorf(ctx, "task usecase: save after add failed for user %d: %v", sc.UserID, err)
		return model.Task{}, fmt.Errorf("%w: %v", task.ErrSaveFailed, err)
	}

	uc.lists[sc.UserID] = updated
	return t, nil
}

// List returns the user's tasks in insertion order.
func (uc *implUseCase) List(ctx context.Context, sc model.Scope, input task.ListInput) ([]model.Task, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var out []model.Task
	for _, t := range uc.lists[sc.UserID] {
		if !input.IncludeCompleted && t.Completed {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// Complete marks the task at the given full-list index as done.
// Out-of-range indexes and persistence failures both return false; the stored
// list is never left half-updated.
func (uc *implUseCase) Complete(ctx context.Context, sc model.Scope, index int) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	list := uc.lists[sc.UserID]
	if index < 0 || index >= len(list) {
		return false
	}

	list[index].Completed = true
	if err := uc.repo.Save(ctx, sc.UserID, list); err != nil {
		list[index].Completed = false
		uc.l.Errorf(ctx, "task usecase: save after complete failed for user %d: %v", sc.UserID, err)
		return false
	}
	return true
}

// ClearCompleted removes completed tasks and returns how many were dropped.
func (uc *implUseCase) ClearCompleted(ctx context.Context, sc model.Scope) (int, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	list := uc.lists[sc.UserID]
	remaining := make([]model.Task, 0, len(list))
	for _, t := range list {
		if !t.Completed {
			remaining = append(remaining, t)
		}
	}

	removed := len(list) - len(remaining)
	if removed == 0 {
		return 0, nil
	}

	if err := uc.repo.Save(ctx, sc.UserID, remaining); err != nil {
		uc.l.Errorf(ctx, "task usecase: save after clear failed for user %d: %v", sc.UserID, err)
		return 0, fmt.Errorf("%w: %v", task.ErrSaveFailed, err)
	}

	uc.lists[sc.UserID] = remaining
	return removed, nil
}

// Summary formats pending tasks as an LLM context block.
func (uc *implUseCase) Summary(ctx context.Context, sc model.Scope) string {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var lines []string
	for _, t := range uc.lists[sc.UserID] {
		if t.Completed {
			continue
		}
		line := "- " + t.Title
		if t.DueDate != nil {
			line += fmt.Sprintf(" (Due: %s)", t.DueDate.Format("2006-01-02 15:04"))
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return ""
	}
	return "Current user tasks:\n" + strings.Join(lines, "\n")
}
