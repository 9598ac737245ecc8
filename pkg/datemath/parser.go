package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parser converts due-date strings (absolute or relative) to time.Time values.
type Parser struct {
	location *time.Location
}

// NewParser creates a new date parser for the given IANA timezone string.
// e.g. "America/Sao_Paulo"
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

var inDurationRe = regexp.MustCompile(`^in (\d+) (day|days|week|weeks|month|months)$`)

// Parse converts a due-date string to an absolute time.Time.
// Accepted forms: "2006-01-02", "2006-01-02 15:04", "today", "tomorrow",
// "in N days/weeks/months", "next <weekday>". The baseTime is the reference
// point for relative forms (usually time.Now()).
func (p *Parser) Parse(raw string, baseTime time.Time) (time.Time, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	// Absolute forms first
	if t, err := time.ParseInLocation("2006-01-02 15:04", normalized, p.location); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", normalized, p.location); err == nil {
		return t, nil
	}

	switch normalized {
	case "today":
		return p.startOfDay(baseTime), nil
	case "tomorrow":
		return p.startOfDay(baseTime.AddDate(0, 0, 1)), nil
	}

	if strings.HasPrefix(normalized, "in ") {
		return p.parseInDuration(normalized, baseTime)
	}
	if strings.HasPrefix(normalized, "next ") {
		return p.parseNextWeekday(normalized, baseTime)
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// parseInDuration handles patterns like "in 3 days", "in 2 weeks", "in 1 month".
func (p *Parser) parseInDuration(relative string, baseTime time.Time) (time.Time, error) {
	matches := inDurationRe.FindStringSubmatch(relative)
	if len(matches) != 3 {
		return time.Time{}, fmt.Errorf("invalid duration format: %q", relative)
	}

	amount, _ := strconv.Atoi(matches[1])

	switch {
	case strings.HasPrefix(matches[2], "day"):
		return p.startOfDay(baseTime.AddDate(0, 0, amount)), nil
	case strings.HasPrefix(matches[2], "week"):
		return p.startOfDay(baseTime.AddDate(0, 0, amount*7)), nil
	default:
		return p.startOfDay(baseTime.AddDate(0, amount, 0)), nil
	}
}

// parseNextWeekday handles patterns like "next monday", "next friday".
func (p *Parser) parseNextWeekday(relative string, baseTime time.Time) (time.Time, error) {
	weekdays := map[string]time.Weekday{
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
		"sunday":    time.Sunday,
	}

	dayName := strings.TrimPrefix(relative, "next ")
	targetWeekday, ok := weekdays[dayName]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown weekday: %q", dayName)
	}

	daysUntil := int(targetWeekday - baseTime.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}

	return p.startOfDay(baseTime.AddDate(0, 0, daysUntil)), nil
}

// startOfDay returns midnight at the start of the given day in the parser's timezone.
func (p *Parser) startOfDay(t time.Time) time.Time {
	t = t.In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.location)
}
