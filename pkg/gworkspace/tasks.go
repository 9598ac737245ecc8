package gworkspace

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TasksSummary returns the user's Google Tasks across every task list as a
// formatted block, one bullet per task with due date and completion status.
func (c *Client) TasksSummary(ctx context.Context) (string, error) {
	lists, err := c.tasks.Tasklists.List().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to list task lists: %w", err)
	}
	if len(lists.Items) == 0 {
		return NoTasksMessage, nil
	}

	var lines []string
	for _, list := range lists.Items {
		items, listErr := c.tasks.Tasks.List(list.Id).Context(ctx).Do()
		if listErr != nil {
			return "", fmt.Errorf("failed to list tasks in %q: %w", list.Title, listErr)
		}
		if len(items.Items) == 0 {
			continue
		}

		lines = append(lines, fmt.Sprintf("%s:", list.Title))
		for _, item := range items.Items {
			title := item.Title
			if title == "" {
				title = "Untitled"
			}

			due := "No due date"
			if item.Due != "" {
				if parsed, parseErr := time.Parse(time.RFC3339, item.Due); parseErr == nil {
					due = parsed.In(c.location).Format("2006-01-02")
				}
			}

			status := "(Not Completed)"
			if item.Status == "completed" {
				status = "(Completed)"
			}

			lines = append(lines, fmt.Sprintf("  - %s (Due: %s) %s", title, due, status))
		}
	}

	if len(lines) == 0 {
		return NoTasksMessage, nil
	}

	return strings.Join(lines, "\n"), nil
}
