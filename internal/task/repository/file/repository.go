package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kurisu-bot/internal/model"
	"kurisu-bot/internal/task/repository"
)

// Repository stores each user's task list as data/tasks_<user_id>.json,
// a JSON array fully rewritten on every save.
type Repository struct {
	dir string
}

var _ repository.TaskRepository = (*Repository)(nil)

// New creates a file repository rooted at dir, creating it if needed.
func New(dir string) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %q: %w", dir, err)
	}
	return &Repository{dir: dir}, nil
}

// taskRecord is the on-disk task shape. Timestamps are ISO-8601.
type taskRecord struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	DueDate   *string `json:"due_date"`
	Completed bool    `json:"completed"`
	CreatedAt string  `json:"created_at"`
}

func (r *Repository) userFile(userID int64) string {
	return filepath.Join(r.dir, fmt.Sprintf("tasks_%d.json", userID))
}

// Load returns the user's tasks, or an empty list if the file does not exist.
func (r *Repository) Load(ctx context.Context, userID int64) ([]model.Task, error) {
	data, err := os.ReadFile(r.userFile(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	var records []taskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse task file: %w", err)
	}

	tasks := make([]model.Task, 0, len(records))
	for i, rec := range records {
		t, recErr := rec.toTask()
		if recErr != nil {
			return nil, fmt.Errorf("task %d in file: %w", i, recErr)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Save rewrites the user's task file atomically (temp file + rename) so a
// crashed save never leaves a truncated list behind.
func (r *Repository) Save(ctx context.Context, userID int64, tasks []model.Task) error {
	records := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, fromTask(t))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}

	target := r.userFile(userID)
	tmp, err := os.CreateTemp(r.dir, "tasks-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace task file: %w", err)
	}
	return nil
}

func fromTask(t model.Task) taskRecord {
	rec := taskRecord{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.Format(time.RFC3339Nano),
	}
	if t.DueDate != nil {
		due := t.DueDate.Format(time.RFC3339Nano)
		rec.DueDate = &due
	}
	return rec
}

func (rec taskRecord) toTask() (model.Task, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("invalid created_at %q: %w", rec.CreatedAt, err)
	}

	t := model.Task{
		ID:        rec.ID,
		Title:     rec.Title,
		Completed: rec.Completed,
		CreatedAt: createdAt,
	}
	if rec.DueDate != nil {
		due, dueErr := time.Parse(time.RFC3339Nano, *rec.DueDate)
		if dueErr != nil {
			return model.Task{}, fmt.Errorf("invalid due_date %q: %w", *rec.DueDate, dueErr)
		}
		t.DueDate = &due
	}
	return t, nil
}
