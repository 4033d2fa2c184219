// Package conflict classifies how a candidate task collides with the stored schedule.
package conflict

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/task/repository"
)

// Severity grades a conflict report.
type Severity string

const (
	SeverityNone           Severity = "none"
	SeverityOverlap        Severity = "overlap"
	SeverityExactDuplicate Severity = "exact_duplicate"
)

// Report describes the collisions of one candidate.
type Report struct {
	Candidate model.Candidate `json:"candidate"`
	Colliding []model.Task    `json:"colliding_tasks"`
	Severity  Severity        `json:"severity"`
}

// HasConflict reports whether the candidate needs a user decision.
func (r Report) HasConflict() bool {
	return r.Severity == SeverityOverlap
}

// Duplicate returns the stored task the candidate duplicates, if any.
func (r Report) Duplicate() (model.Task, bool) {
	if r.Severity != SeverityExactDuplicate || len(r.Colliding) != 1 {
		return model.Task{}, false
	}
	return r.Colliding[0], true
}

// Check looks up the tasks the candidate would overlap. Cancelled tasks never conflict.
// It only reads from store; run it inside Atomic to keep the result valid for a following write.
func Check(ctx context.Context, store repository.Reader, c model.Candidate, excludeIDs ...string) (Report, error) {
	hits, err := store.AllOverlapping(ctx, repository.OverlapOptions{
		Date:       c.Date,
		StartTime:  c.StartTime,
		EndTime:    c.EndTime,
		ExcludeIDs: excludeIDs,
	})
	if err != nil {
		return Report{}, fmt.Errorf("conflict check: %w", err)
	}

	colliding := make([]model.Task, 0, len(hits))
	for _, t := range hits {
		if t.Status == model.TaskStatusCancelled {
			continue
		}
		colliding = append(colliding, t)
	}
	sortByStart(colliding)

	return Report{
		Candidate: c,
		Colliding: colliding,
		Severity:  classify(c, colliding),
	}, nil
}

func classify(c model.Candidate, colliding []model.Task) Severity {
	switch len(colliding) {
	case 0:
		return SeverityNone
	case 1:
		t := colliding[0]
		if strings.EqualFold(strings.TrimSpace(t.Title), strings.TrimSpace(c.Title)) &&
			t.Interval() == c.Interval() {
			return SeverityExactDuplicate
		}
	}
	return SeverityOverlap
}

// sortByStart orders tasks by start time with all-day tasks first.
func sortByStart(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Interval().Start < tasks[j].Interval().Start
	})
}

// NextFreeSlot finds the earliest start at or after from where a span of length d fits on date
// without touching any non-cancelled task. ok is false when nothing fits before midnight.
func NextFreeSlot(ctx context.Context, store repository.Reader, date time.Time, from model.Clock, d time.Duration, excludeIDs ...string) (model.Clock, bool, error) {
	length := model.Clock(d / time.Minute)
	if length < 1 {
		length = 1
	}

	busy, err := store.AllOverlapping(ctx, repository.OverlapOptions{
		Date:       date,
		StartTime:  from.Ptr(),
		EndTime:    model.Clock(model.MinutesPerDay).Ptr(),
		ExcludeIDs: excludeIDs,
	})
	if err != nil {
		return 0, false, fmt.Errorf("next free slot: %w", err)
	}

	spans := make([]model.Interval, 0, len(busy))
	for _, t := range busy {
		if t.Status != model.TaskStatusCancelled {
			spans = append(spans, t.Interval())
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	start := from
	for _, s := range spans {
		if (model.Interval{Start: start, End: start + length}).Overlaps(s) {
			if s.End > start {
				start = s.End
			}
		}
	}
	if start+length > model.MinutesPerDay {
		return 0, false, nil
	}
	return start, true, nil
}
