package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"kurisu-bot/internal/agent/orchestrator"
	"kurisu-bot/internal/model"
	"kurisu-bot/internal/scheduler"
	"kurisu-bot/internal/task"
	pkgResponse "kurisu-bot/pkg/response"
	pkgTelegram "kurisu-bot/pkg/telegram"
)

// HandleWebhook processes a Telegram update. Telegram redelivers updates that
// are not acknowledged quickly, so the update is acked first and processed in
// a background goroutine with its own deadline.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "telegram delivery: failed to parse update: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.From == nil || msg.Text == "" {
		pkgResponse.OK(c, gin.H{"status": "ignored", "reason": "not a text message"})
		return
	}

	if !h.authorized(msg.Chat.ID) {
		h.l.Warnf(ctx, "telegram delivery: ignoring message from unauthorized chat %d", msg.Chat.ID)
		pkgResponse.OK(c, gin.H{"status": "ignored", "reason": "unauthorized"})
		return
	}

	go h.process(update)

	pkgResponse.OK(c, gin.H{"status": "accepted"})
}

// authorized implements the single-user guard. A zero allowed chat id
// disables the restriction.
func (h *handler) authorized(chatID int64) bool {
	return h.allowedChatID == 0 || chatID == h.allowedChatID
}

func (h *handler) process(update pkgTelegram.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), h.processTimeout)
	defer cancel()

	msg := update.Message
	sc := model.Scope{
		UserID:   msg.From.ID,
		ChatID:   msg.Chat.ID,
		Username: msg.From.Username,
	}

	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "/") {
		h.handleCommand(ctx, sc, text)
		return
	}
	h.handleChat(ctx, sc, text)
}

func (h *handler) handleCommand(ctx context.Context, sc model.Scope, text string) {
	fields := strings.Fields(text)
	cmd := fields[0]
	// Group chats address commands as /cmd@botname.
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}
	args := fields[1:]

	switch cmd {
	case cmdStart:
		h.handleStart(ctx, sc)
	case cmdHelp:
		h.reply(ctx, sc, helpMessage)
	case cmdAddTask:
		h.handleAddTask(ctx, sc, args)
	case cmdListTasks:
		h.handleListTasks(ctx, sc)
	case cmdCompleteTask:
		h.handleCompleteTask(ctx, sc, args)
	case cmdClearTasks:
		h.handleClearTasks(ctx, sc)
	case cmdPauseNotifications:
		h.notifier.Stop(sc.UserID)
		h.reply(ctx, sc, pausedMessage)
	case cmdResumeNotifications:
		h.notifier.Start(sc.UserID, h.proactiveCallback(sc))
		h.reply(ctx, sc, resumedMessage)
	default:
		h.reply(ctx, sc, unknownCommandMessage)
	}
}

func (h *handler) handleStart(ctx context.Context, sc model.Scope) {
	if err := h.tasks.Load(ctx, sc); err != nil {
		h.l.Errorf(ctx, "telegram delivery: failed to load tasks for user %d: %v", sc.UserID, err)
	}
	h.notifier.Start(sc.UserID, h.proactiveCallback(sc))
	h.reply(ctx, sc, greetingMessage)
}

func (h *handler) handleAddTask(ctx context.Context, sc model.Scope, args []string) {
	if len(args) == 0 {
		h.reply(ctx, sc, addTaskUsageMessage)
		return
	}

	title, due := h.splitTitleAndDue(args)
	created, err := h.tasks.Add(ctx, sc, task.AddInput{Title: title, DueDate: due})
	if err != nil {
		if errors.Is(err, task.ErrEmptyTitle) {
			h.reply(ctx, sc, addTaskUsageMessage)
			return
		}
		h.l.Errorf(ctx, "telegram delivery: failed to add task for user %d: %v", sc.UserID, err)
		h.reply(ctx, sc, "Something went wrong saving that task. Try again.")
		return
	}

	response := fmt.Sprintf("Task added: %s", created.Title)
	if created.DueDate != nil {
		response += fmt.Sprintf("\nDue date: %s", created.DueDate.Format("2006-01-02 15:04"))
	}
	h.reply(ctx, sc, response)
}

// splitTitleAndDue finds the longest argument suffix that parses as a due
// date; everything before it is the title. With no parseable suffix the whole
// argument list is the title.
func (h *handler) splitTitleAndDue(args []string) (string, *time.Time) {
	now := time.Now()
	for i := 1; i < len(args); i++ {
		candidate := strings.Join(args[i:], " ")
		if due, err := h.dates.Parse(candidate, now); err == nil {
			return strings.Join(args[:i], " "), &due
		}
	}
	return strings.Join(args, " "), nil
}

func (h *handler) handleListTasks(ctx context.Context, sc model.Scope) {
	pending, err := h.tasks.List(ctx, sc, task.ListInput{})
	if err != nil {
		h.l.Errorf(ctx, "telegram delivery: failed to list tasks for user %d: %v", sc.UserID, err)
		return
	}
	if len(pending) == 0 {
		h.reply(ctx, sc, noPendingTasksMessage)
		return
	}

	var b strings.Builder
	b.WriteString("Your current tasks:\n")
	for i, t := range pending {
		fmt.Fprintf(&b, "\n%d. %s", i+1, t.Title)
		if t.DueDate != nil {
			fmt.Fprintf(&b, " (Due: %s)", t.DueDate.Format("2006-01-02 15:04"))
		}
	}
	h.reply(ctx, sc, b.String())
}

func (h *handler) handleCompleteTask(ctx context.Context, sc model.Scope, args []string) {
	if len(args) == 0 {
		h.reply(ctx, sc, completeUsageMessage)
		return
	}

	number, err := strconv.Atoi(args[0])
	if err != nil {
		h.reply(ctx, sc, invalidTaskNumberMessage)
		return
	}

	// /list_tasks numbers only the pending tasks, so translate the displayed
	// number back to a position in the full list.
	index := h.fullIndexForDisplayed(ctx, sc, number)
	if index < 0 || !h.tasks.Complete(ctx, sc, index) {
		h.reply(ctx, sc, badTaskNumberMessage)
		return
	}
	h.reply(ctx, sc, taskCompletedMessage)
}

func (h *handler) fullIndexForDisplayed(ctx context.Context, sc model.Scope, number int) int {
	if number < 1 {
		return -1
	}
	full, err := h.tasks.List(ctx, sc, task.ListInput{IncludeCompleted: true})
	if err != nil {
		return -1
	}

	seen := 0
	for i, t := range full {
		if t.Completed {
			continue
		}
		seen++
		if seen == number {
			return i
		}
	}
	return -1
}

func (h *handler) handleClearTasks(ctx context.Context, sc model.Scope) {
	removed, err := h.tasks.ClearCompleted(ctx, sc)
	if err != nil {
		h.l.Errorf(ctx, "telegram delivery: failed to clear tasks for user %d: %v", sc.UserID, err)
		h.reply(ctx, sc, "Something went wrong clearing your tasks. Try again.")
		return
	}
	if removed == 0 {
		h.reply(ctx, sc, noCompletedTasksMessage)
		return
	}
	h.reply(ctx, sc, fmt.Sprintf("Cleared %d completed tasks.", removed))
}

func (h *handler) handleChat(ctx context.Context, sc model.Scope, text string) {
	if err := h.bot.SendChatAction(ctx, sc.ChatID, pkgTelegram.ActionTyping); err != nil {
		h.l.Debugf(ctx, "telegram delivery: failed to send typing action: %v", err)
	}

	reply := h.uc.HandleMessage(ctx, sc, text)
	h.reply(ctx, sc, reply)
}

// proactiveCallback builds the scheduler callback for one user. A ping that
// collides with a live turn is dropped silently.
func (h *handler) proactiveCallback(sc model.Scope) scheduler.Callback {
	return func(ctx context.Context) error {
		reply, err := h.uc.ProactivePing(ctx, sc)
		if errors.Is(err, orchestrator.ErrTurnInProgress) {
			h.l.Debugf(ctx, "telegram delivery: skipping proactive ping for user %d, turn in progress", sc.UserID)
			return nil
		}
		if err != nil {
			return err
		}
		return h.bot.SendMessage(ctx, sc.ChatID, reply)
	}
}

func (h *handler) reply(ctx context.Context, sc model.Scope, text string) {
	if err := h.bot.SendMessage(ctx, sc.ChatID, text); err != nil {
		h.l.Errorf(ctx, "telegram delivery: failed to send message to chat %d: %v", sc.ChatID, err)
	}
}
