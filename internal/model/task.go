package model

import (
	"strings"
	"time"
)

// TaskStatus is the lifecycle status of a task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// Priority is the user-facing importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority maps loose priority words to a Priority. Empty input yields medium.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityMedium, true
	case "low", "p3", "minor":
		return PriorityLow, true
	case "medium", "normal", "p2":
		return PriorityMedium, true
	case "high", "urgent", "important", "p1":
		return PriorityHigh, true
	}
	return "", false
}

// Task is a scheduled item owned by the task store.
type Task struct {
	ID          string
	Title       string
	Description string
	Date        time.Time // civil date at 00:00 UTC
	StartTime   *Clock    // nil for all-day tasks
	EndTime     *Clock    // only set together with StartTime
	Status      TaskStatus
	Priority    Priority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AllDay reports whether the task has no time of day.
func (t Task) AllDay() bool {
	return t.StartTime == nil
}

// Interval returns the occupied span of the task on its date.
func (t Task) Interval() Interval {
	return NewInterval(t.StartTime, t.EndTime)
}

// Candidate is a fully resolved, not yet persisted task specification.
type Candidate struct {
	Title       string
	Description string
	Date        time.Time
	StartTime   *Clock
	EndTime     *Clock
	Priority    Priority
}

// Interval returns the span the candidate would occupy.
func (c Candidate) Interval() Interval {
	return NewInterval(c.StartTime, c.EndTime)
}

// CandidateFromTask copies the schedulable fields of t.
func CandidateFromTask(t Task) Candidate {
	return Candidate{
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date,
		StartTime:   t.StartTime,
		EndTime:     t.EndTime,
		Priority:    t.Priority,
	}
}

// Duration returns the explicit length of the candidate, zero when it has no end.
func (c Candidate) Duration() time.Duration {
	if c.StartTime == nil || c.EndTime == nil {
		return 0
	}
	return time.Duration(*c.EndTime-*c.StartTime) * time.Minute
}

// CivilDate truncates t to its calendar day at 00:00 UTC, keeping the wall-clock date.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
