package usecase

import (
	"sync"

	"kurisu-bot/internal/model"
	"kurisu-bot/internal/task"
	"kurisu-bot/internal/task/repository"
	pkgLog "kurisu-bot/pkg/log"
)

type implUseCase struct {
	l    pkgLog.Logger
	repo repository.TaskRepository

	mu    sync.Mutex
	lists map[int64][]model.Task
}

var _ task.UseCase = (*implUseCase)(nil)

// New creates a new task UseCase instance.
func New(l pkgLog.Logger, repo repository.TaskRepository) *implUseCase {
	return &implUseCase{
		l:     l,
		repo:  repo,
		lists: make(map[int64][]model.Task),
	}
}
