package gworkspace

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"google.golang.org/api/fitness/v1"
)

const (
	sleepDataType = "com.google.sleep.segment"

	// Segments closer together than this are stitched into one sleep period.
	sleepMergeGap = 30 * time.Minute
)

// SleepPeriods returns the user's sleep over the last 24 hours, with adjacent
// fitness segments merged into contiguous periods.
func (c *Client) SleepPeriods(ctx context.Context) ([]SleepPeriod, error) {
	end := time.Now()
	start := end.Add(-24 * time.Hour)

	resp, err := c.fitness.Users.Dataset.Aggregate("me", &fitness.AggregateRequest{
		AggregateBy:     []*fitness.AggregateBy{{DataTypeName: sleepDataType}},
		StartTimeMillis: start.UnixMilli(),
		EndTimeMillis:   end.UnixMilli(),
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sleep data: %w", err)
	}

	var segments []SleepPeriod
	for _, bucket := range resp.Bucket {
		for _, dataset := range bucket.Dataset {
			for _, point := range dataset.Point {
				segments = append(segments, SleepPeriod{
					Start: time.Unix(0, point.StartTimeNanos),
					End:   time.Unix(0, point.EndTimeNanos),
				})
			}
		}
	}

	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Start.Before(segments[j].Start)
	})

	var periods []SleepPeriod
	for _, seg := range segments {
		if len(periods) > 0 && seg.Start.Sub(periods[len(periods)-1].End) <= sleepMergeGap {
			last := &periods[len(periods)-1]
			if seg.End.After(last.End) {
				last.End = seg.End
			}
			continue
		}
		periods = append(periods, seg)
	}

	for i := range periods {
		periods[i].Hours = periods[i].End.Sub(periods[i].Start).Hours()
	}

	return periods, nil
}

// SleepSummary formats SleepPeriods as a context line for the LLM.
func (c *Client) SleepSummary(ctx context.Context) (string, error) {
	periods, err := c.SleepPeriods(ctx)
	if err != nil {
		return "", err
	}
	if len(periods) == 0 {
		return NoSleepMessage, nil
	}

	parts := make([]string, 0, len(periods))
	for _, p := range periods {
		parts = append(parts, fmt.Sprintf("%s to %s (%.1fh)",
			p.Start.In(c.location).Format("15:04"),
			p.End.In(c.location).Format("15:04"),
			p.Hours,
		))
	}

	return "Sleep in the last 24h: " + strings.Join(parts, ", "), nil
}
