// Package bulk expands a repetition pattern into an ordered list of task candidates.
package bulk

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"scheduling-assistant/internal/model"
)

// DefaultMaxCount caps a single pattern when no limit is configured.
const DefaultMaxCount = 50

var (
	ErrInvalidCount    = errors.New("count must be at least 1")
	ErrTooMany         = errors.New("too many tasks in one request")
	ErrMissingTitle    = errors.New("title is required")
	ErrMissingInterval = errors.New("interval is required when repeating within a day")
	ErrPastMidnight    = errors.New("pattern rolls past midnight")
	ErrSelfOverlap     = errors.New("duration is longer than the interval")
)

// Pattern describes count tasks either spaced by Interval within one day (time mode)
// or repeated every DayStep days at a fixed time (day mode).
type Pattern struct {
	Count       int
	Title       string
	Description string
	Priority    model.Priority
	StartDate   time.Time
	FirstStart  *model.Clock
	Interval    time.Duration
	Duration    time.Duration
	DayStep     int
}

// Expand returns exactly p.Count candidates, or an error and no candidates.
// maxCount <= 0 means DefaultMaxCount.
func Expand(p Pattern, maxCount int) ([]model.Candidate, error) {
	if maxCount <= 0 {
		maxCount = DefaultMaxCount
	}
	if err := validate(p, maxCount); err != nil {
		return nil, err
	}

	out := make([]model.Candidate, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		c := model.Candidate{
			Title:       strings.TrimSpace(p.Title),
			Description: p.Description,
			Priority:    p.Priority,
			Date:        p.StartDate,
		}

		if p.DayStep > 0 {
			c.Date = p.StartDate.AddDate(0, 0, i*p.DayStep)
			c.StartTime = p.FirstStart
		} else {
			start := p.FirstStart.Add(time.Duration(i) * p.Interval)
			c.StartTime = start.Ptr()
		}
		if c.StartTime != nil && p.Duration > 0 {
			c.EndTime = c.StartTime.Add(p.Duration).Ptr()
		}
		out = append(out, c)
	}
	return out, nil
}

func validate(p Pattern, maxCount int) error {
	if p.Count < 1 {
		return ErrInvalidCount
	}
	if p.Count > maxCount {
		return fmt.Errorf("%w: %d > %d", ErrTooMany, p.Count, maxCount)
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrMissingTitle
	}
	if p.DayStep > 0 {
		if p.FirstStart != nil && p.Duration > 0 && p.FirstStart.Add(p.Duration) > model.MinutesPerDay {
			return ErrPastMidnight
		}
		return nil
	}

	if p.FirstStart == nil {
		return fmt.Errorf("%w: a start time is needed", ErrMissingInterval)
	}
	if p.Count > 1 && p.Interval < time.Minute {
		return ErrMissingInterval
	}
	last := p.FirstStart.Add(time.Duration(p.Count-1) * p.Interval)
	if !last.Valid() {
		return fmt.Errorf("%w: task %d would start at %s", ErrPastMidnight, p.Count, clockLabel(last))
	}
	if p.Duration > 0 && last.Add(p.Duration) > model.MinutesPerDay {
		return fmt.Errorf("%w: task %d would end after 24:00", ErrPastMidnight, p.Count)
	}
	if p.Count > 1 && p.Duration > p.Interval {
		return ErrSelfOverlap
	}
	return nil
}

func clockLabel(c model.Clock) string {
	return fmt.Sprintf("%d:%02d", int(c)/60, int(c)%60)
}
