package task

import (
	"strings"
	"unicode/utf8"

	"scheduling-assistant/internal/model"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// Validate checks the record invariants of t.
func Validate(t model.Task) error {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return &ValidationError{Field: "title", Reason: "must be at most 200 characters"}
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Reason: "must be at most 1000 characters"}
	}
	if t.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "is required"}
	}
	if t.StartTime != nil && !t.StartTime.Valid() {
		return &ValidationError{Field: "start_time", Reason: "must be between 00:00 and 23:59"}
	}
	if t.EndTime != nil {
		if t.StartTime == nil {
			return &ValidationError{Field: "end_time", Reason: "requires a start time"}
		}
		if *t.EndTime > model.MinutesPerDay {
			return &ValidationError{Field: "end_time", Reason: "must not pass midnight"}
		}
		if *t.EndTime <= *t.StartTime {
			return &ValidationError{Field: "end_time", Reason: "must be after the start time"}
		}
	}
	if !t.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "must be pending, completed or cancelled"}
	}
	if !t.Priority.Valid() {
		return &ValidationError{Field: "priority", Reason: "must be low, medium or high"}
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return &ValidationError{Field: "updated_at", Reason: "must not precede created_at"}
	}
	return nil
}
