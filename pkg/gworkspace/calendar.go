package gworkspace

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CalendarSummary returns a one-line description of the remaining events today,
// formatted for inclusion in an LLM context block.
func (c *Client) CalendarSummary(ctx context.Context) (string, error) {
	now := time.Now().In(c.location)
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.location).AddDate(0, 0, 1)

	events, err := c.calendar.Events.List(c.calendarID).
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(endOfDay.Format(time.RFC3339)).
		MaxResults(10).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to list calendar events: %w", err)
	}

	if len(events.Items) == 0 {
		return NoEventsMessage, nil
	}

	descriptions := make([]string, 0, len(events.Items))
	for _, event := range events.Items {
		start, startErr := parseEventTime(event.Start.DateTime, event.Start.Date, c.location)
		end, endErr := parseEventTime(event.End.DateTime, event.End.Date, c.location)
		if startErr != nil || endErr != nil {
			continue
		}

		descriptions = append(descriptions, fmt.Sprintf("%s on %s from %s to %s (Duration: %s)",
			event.Summary,
			start.Format("02-01-2006"),
			start.Format("03:04 PM"),
			end.Format("03:04 PM"),
			end.Sub(start),
		))
	}

	if len(descriptions) == 0 {
		return NoEventsMessage, nil
	}

	return "Today's events: " + strings.Join(descriptions, ", "), nil
}

// parseEventTime handles both timed (dateTime) and all-day (date) events.
func parseEventTime(dateTime, date string, loc *time.Location) (time.Time, error) {
	if dateTime != "" {
		t, err := time.Parse(time.RFC3339, dateTime)
		if err != nil {
			return time.Time{}, err
		}
		return t.In(loc), nil
	}
	return time.ParseInLocation("2006-01-02", date, loc)
}
