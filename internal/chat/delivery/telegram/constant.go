package telegram

import "time"

// defaultProcessTimeout bounds one background update, including LLM retries.
const defaultProcessTimeout = 2 * time.Minute

// Bot commands.
const (
	cmdStart               = "/start"
	cmdHelp                = "/help"
	cmdAddTask             = "/add_task"
	cmdListTasks           = "/list_tasks"
	cmdCompleteTask        = "/complete_task"
	cmdClearTasks          = "/clear_tasks"
	cmdPauseNotifications  = "/pause_notifications"
	cmdResumeNotifications = "/resume_notifications"
)

// Canned replies.
const (
	greetingMessage = "Christina here. I suppose I can help you stay on track with your tasks... " +
		"not that I particularly want to or anything! Use /help to see available commands."

	helpMessage = `Available commands:
/start - Start the bot
/help - Show this help message
/add_task <title> [due_date] - Add a new task (due_date format: YYYY-MM-DD HH:MM)
/list_tasks - List all incomplete tasks
/complete_task <number> - Mark a task as complete
/clear_tasks - Remove all completed tasks
/pause_notifications - Pause proactive messages
/resume_notifications - Resume proactive messages`

	addTaskUsageMessage      = "Please provide a task title. Format: /add_task <title> [due_date]"
	noPendingTasksMessage    = "You have no pending tasks."
	completeUsageMessage     = "Please specify the task number to complete."
	invalidTaskNumberMessage = "Please provide a valid task number."
	taskCompletedMessage     = "Task marked as complete!"
	badTaskNumberMessage     = "Invalid task number."
	noCompletedTasksMessage  = "No completed tasks to clear."

	pausedMessage  = "Fine! I'll stop checking up on you... but don't blame me if you fall behind!"
	resumedMessage = "I-it's not like I wanted to help you stay on track or anything..."

	unknownCommandMessage = "Unknown command. Use /help to see available commands."
)
