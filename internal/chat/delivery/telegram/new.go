package telegram

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"kurisu-bot/internal/agent/orchestrator"
	"kurisu-bot/internal/scheduler"
	"kurisu-bot/internal/task"
	"kurisu-bot/pkg/datemath"
	pkgLog "kurisu-bot/pkg/log"
)

// Handler is the public interface for the Telegram delivery layer.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

// Sender is the outbound Telegram surface the handler needs.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
}

// Notifier manages the per-user proactive message loops.
type Notifier interface {
	Start(userID int64, fn scheduler.Callback)
	Stop(userID int64)
}

type handler struct {
	l        pkgLog.Logger
	uc       orchestrator.UseCase
	tasks    task.UseCase
	bot      Sender
	notifier Notifier
	dates    *datemath.Parser

	// allowedChatID restricts the bot to one chat; 0 disables the guard.
	allowedChatID  int64
	processTimeout time.Duration
}

// New creates a new Telegram webhook handler.
func New(l pkgLog.Logger, uc orchestrator.UseCase, tasks task.UseCase, bot Sender, notifier Notifier, dates *datemath.Parser, allowedChatID int64) *handler {
	return &handler{
		l:              l,
		uc:             uc,
		tasks:          tasks,
		bot:            bot,
		notifier:       notifier,
		dates:          dates,
		allowedChatID:  allowedChatID,
		processTimeout: defaultProcessTimeout,
	}
}
