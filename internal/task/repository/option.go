package repository

import (
	"time"

	"scheduling-assistant/internal/model"
)

// CreateOptions holds the parameters for creating a task.
type CreateOptions struct {
	Title       string
	Description string
	Date        time.Time
	StartTime   *model.Clock
	EndTime     *model.Clock
	Status      model.TaskStatus // default: pending
	Priority    model.Priority   // default: medium
}

// UpdateOptions holds a partial update. Nil fields are left unchanged.
type UpdateOptions struct {
	Title       *string
	Description *string
	Date        *time.Time
	StartTime   *model.Clock
	EndTime     *model.Clock
	ClearTime   bool // make the task all-day
	ClearEnd    bool
	Status      *model.TaskStatus
	Priority    *model.Priority
}

// QueryOptions filters a query. Zero values mean no filter.
type QueryOptions struct {
	From   *time.Time
	To     *time.Time
	Status model.TaskStatus
	Text   string
	IDs    []string
	Limit  int
}

// OverlapOptions selects tasks intersecting a span on one date.
type OverlapOptions struct {
	Date       time.Time
	StartTime  *model.Clock
	EndTime    *model.Clock
	ExcludeIDs []string
}

// StatsOptions parameterises Stats.
type StatsOptions struct {
	Today time.Time
}
