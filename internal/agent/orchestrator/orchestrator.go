package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kurisu-bot/internal/model"
	"kurisu-bot/pkg/openrouter"
)

// HandleMessage runs one user-driven turn. It waits for the user's turn
// guard, so a proactive ping never talks over a live exchange.
func (uc *implUseCase) HandleMessage(ctx context.Context, sc model.Scope, text string) string {
	g := uc.guard(sc.UserID)
	g.Lock()
	defer g.Unlock()

	now := time.Now().In(uc.loc)
	taggedText := fmt.Sprintf("%s - %s", now.Format(clockLayout), text)

	messages := uc.contextBlock(ctx, sc, now)
	messages = append(messages, uc.history(sc.UserID)...)
	messages = append(messages, openrouter.Message{Role: string(model.RoleUser), Content: taggedText})

	reply, err := uc.llm.CreateChatCompletion(ctx, messages)
	if err != nil {
		uc.l.Errorf(ctx, "orchestrator: completion failed for user %d: %v", sc.UserID, err)
		return ApologyMessage
	}

	reply = cleanReply(reply)
	uc.mem.AddMessage(sc.UserID, model.RoleUser, taggedText)
	uc.mem.AddMessage(sc.UserID, model.RoleAssistant, reply)
	return reply
}

// ProactivePing runs one scheduler-driven turn. If the user's guard is held
// by a live exchange the ping is dropped with ErrTurnInProgress.
func (uc *implUseCase) ProactivePing(ctx context.Context, sc model.Scope) (string, error) {
	g := uc.guard(sc.UserID)
	if !g.TryLock() {
		return "", ErrTurnInProgress
	}
	defer g.Unlock()

	now := time.Now().In(uc.loc)

	messages := uc.contextBlock(ctx, sc, now)
	messages = append(messages, uc.history(sc.UserID)...)
	messages = append(messages, openrouter.Message{Role: string(model.RoleSystem), Content: proactiveInstruction})

	reply, err := uc.llm.CreateChatCompletion(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("proactive completion failed: %w", err)
	}

	reply = cleanReply(reply)
	uc.mem.AddMessage(sc.UserID, model.RoleAssistant, reply)
	return reply, nil
}

// contextBlock assembles the layered system context: persona, timestamp,
// Google summaries, and the pending task list. Each Google layer degrades to
// its own placeholder when the fetch fails; none of them can abort the turn.
func (uc *implUseCase) contextBlock(ctx context.Context, sc model.Scope, now time.Time) []openrouter.Message {
	messages := []openrouter.Message{
		{Role: string(model.RoleSystem), Content: uc.systemPrompt},
		{Role: string(model.RoleSystem), Content: "Current date and time: " + now.Format(timestampLayout)},
	}

	if uc.workspace != nil {
		messages = append(messages,
			openrouter.Message{Role: string(model.RoleSystem), Content: uc.fetch(ctx, "calendar", uc.workspace.CalendarSummary, calendarUnavailable)},
			openrouter.Message{Role: string(model.RoleSystem), Content: uc.fetch(ctx, "google tasks", uc.workspace.TasksSummary, gtasksUnavailable)},
			openrouter.Message{Role: string(model.RoleSystem), Content: uc.fetch(ctx, "sleep", uc.workspace.SleepSummary, sleepUnavailable)},
		)
	}

	if summary := uc.tasks.Summary(ctx, sc); summary != "" {
		messages = append(messages, openrouter.Message{Role: string(model.RoleSystem), Content: summary})
	}
	return messages
}

func (uc *implUseCase) fetch(ctx context.Context, name string, fn func(context.Context) (string, error), fallback string) string {
	summary, err := fn(ctx)
	if err != nil {
		uc.l.Warnf(ctx, "orchestrator: %s context unavailable: %v", name, err)
		return fallback
	}
	return summary
}

func (uc *implUseCase) history(userID int64) []openrouter.Message {
	stored := uc.mem.History(userID)
	messages := make([]openrouter.Message, 0, len(stored))
	for _, msg := range stored {
		messages = append(messages, openrouter.Message{Role: string(msg.Role), Content: msg.Content})
	}
	return messages
}

// cleanReply drops the "HH:MM - " prefix when the model echoes it back.
func cleanReply(reply string) string {
	return timePrefixPattern.ReplaceAllString(strings.TrimSpace(reply), "")
}
