package orchestrator

import (
	"sync"
	"time"

	"kurisu-bot/internal/memory"
	"kurisu-bot/internal/task"
	pkgLog "kurisu-bot/pkg/log"
	"kurisu-bot/pkg/openrouter"
)

type implUseCase struct {
	l         pkgLog.Logger
	llm       openrouter.IOpenRouter
	mem       *memory.Memory
	tasks     task.UseCase
	workspace ContextProvider // nil when Google integration is disabled

	systemPrompt string
	loc          *time.Location

	mu     sync.Mutex
	guards map[int64]*sync.Mutex
}

var _ UseCase = (*implUseCase)(nil)

// New creates a new orchestrator UseCase instance. workspace may be nil,
// in which case the Google context layers are omitted entirely.
func New(l pkgLog.Logger, llm openrouter.IOpenRouter, mem *memory.Memory, tasks task.UseCase, workspace ContextProvider, systemPrompt string, loc *time.Location) *implUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &implUseCase{
		l:            l,
		llm:          llm,
		mem:          mem,
		tasks:        tasks,
		workspace:    workspace,
		systemPrompt: systemPrompt,
		loc:          loc,
		guards:       make(map[int64]*sync.Mutex),
	}
}

// guard returns the per-user turn mutex, creating it on first use.
func (uc *implUseCase) guard(userID int64) *sync.Mutex {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	g, ok := uc.guards[userID]
	if !ok {
		g = &sync.Mutex{}
		uc.guards[userID] = g
	}
	return g
}
