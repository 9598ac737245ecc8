package orchestrator

import (
	"context"

	"kurisu-bot/internal/model"
)

// UseCase runs one conversation turn per call.
type UseCase interface {
	// HandleMessage runs a user-driven turn and always returns reply text:
	// the model's answer on success, a fixed apology when the LLM call fails.
	HandleMessage(ctx context.Context, sc model.Scope, text string) string

	// ProactivePing runs a scheduler-driven turn. It returns ErrTurnInProgress
	// without doing anything when a live turn already holds the user's guard.
	ProactivePing(ctx context.Context, sc model.Scope) (string, error)
}

// ContextProvider supplies opaque summary strings for the context block.
// Each call is independently fallible.
type ContextProvider interface {
	CalendarSummary(ctx context.Context) (string, error)
	TasksSummary(ctx context.Context) (string, error)
	SleepSummary(ctx context.Context) (string, error)
}
