package gworkspace

import "time"

// Config holds Google Workspace client configuration.
type Config struct {
	CredentialsPath string
	TokenPath       string
	CalendarID      string // defaults to "primary"
	Timezone        string // IANA name used for event formatting
}

// SleepPeriod is a contiguous sleep span aggregated from fitness segments.
type SleepPeriod struct {
	Start time.Time
	End   time.Time
	Hours float64
}

// Fallback strings returned when a provider has nothing to report.
const (
	NoEventsMessage = "No events for today."
	NoTasksMessage  = "No tasks found in any list."
	NoSleepMessage  = "No sleep data for the last 24 hours."
)
