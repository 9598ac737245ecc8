package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"kurisu-bot/internal/model"
	"kurisu-bot/internal/task/repository/file"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Load Missing File Returns Empty List", func(t *testing.T) {
		repo, err := file.New(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create repository: %v", err)
		}

		tasks, err := repo.Load(ctx, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("expected empty list, got %d tasks", len(tasks))
		}
	})

	t.Run("Round Trip Preserves Content And Order", func(t *testing.T) {
		repo, _ := file.New(t.TempDir())

		due := time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC)
		saved := []model.Task{
			model.NewTask("write report", &due),
			model.NewTask("review code", nil),
			{ID: "fixed-id", Title: "completed one", Completed: true, CreatedAt: time.Now().Truncate(time.Second)},
		}

		if err := repo.Save(ctx, 42, saved); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		loaded, err := repo.Load(ctx, 42)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(loaded) != len(saved) {
			t.Fatalf("expected %d tasks, got %d", len(saved), len(loaded))
		}
		for i := range saved {
			if loaded[i].ID != saved[i].ID || loaded[i].Title != saved[i].Title || loaded[i].Completed != saved[i].Completed {
				t.Errorf("task %d mismatch: saved %+v loaded %+v", i, saved[i], loaded[i])
			}
			if !loaded[i].CreatedAt.Equal(saved[i].CreatedAt) {
				t.Errorf("task %d created_at mismatch: %v vs %v", i, saved[i].CreatedAt, loaded[i].CreatedAt)
			}
		}
		if loaded[0].DueDate == nil || !loaded[0].DueDate.Equal(due) {
			t.Errorf("due date not preserved: %v", loaded[0].DueDate)
		}
		if loaded[1].DueDate != nil {
			t.Errorf("expected nil due date, got %v", loaded[1].DueDate)
		}
	})

	t.Run("Save Rewrites Whole File", func(t *testing.T) {
		repo, _ := file.New(t.TempDir())

		repo.Save(ctx, 7, []model.Task{model.NewTask("a", nil), model.NewTask("b", nil)})
		repo.Save(ctx, 7, []model.Task{model.NewTask("only", nil)})

		loaded, err := repo.Load(ctx, 7)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(loaded) != 1 || loaded[0].Title != "only" {
			t.Errorf("expected full rewrite, got %+v", loaded)
		}
	})

	t.Run("Users Have Separate Files", func(t *testing.T) {
		dir := t.TempDir()
		repo, _ := file.New(dir)

		repo.Save(ctx, 1, []model.Task{model.NewTask("one", nil)})
		repo.Save(ctx, 2, []model.Task{model.NewTask("two", nil)})

		if _, err := os.Stat(filepath.Join(dir, "tasks_1.json")); err != nil {
			t.Errorf("missing tasks_1.json: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "tasks_2.json")); err != nil {
			t.Errorf("missing tasks_2.json: %v", err)
		}
	})

	t.Run("Corrupt File Surfaces Error", func(t *testing.T) {
		dir := t.TempDir()
		repo, _ := file.New(dir)
		os.WriteFile(filepath.Join(dir, "tasks_9.json"), []byte(`{"not": "an array"`), 0o644)

		if _, err := repo.Load(ctx, 9); err == nil {
			t.Errorf("expected parse error for corrupt file")
		}
	})
}
