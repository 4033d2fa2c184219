package repository

import (
	"context"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/task"
)

// Reader is the read side of the task store.
type Reader interface {
	Get(ctx context.Context, id string) (model.Task, error)
	Query(ctx context.Context, opt QueryOptions) ([]model.Task, error)
	// AllOverlapping returns the tasks on opt.Date whose occupied interval intersects the given one.
	AllOverlapping(ctx context.Context, opt OverlapOptions) ([]model.Task, error)
	Stats(ctx context.Context, opt StatsOptions) (task.Stats, error)
}

// Repository is the task store. Every mutation is atomic on its own; Atomic groups
// several reads and writes into one serialized unit.
type Repository interface {
	Reader
	Create(ctx context.Context, opt CreateOptions) (model.Task, error)
	Update(ctx context.Context, id string, opt UpdateOptions) (model.Task, error)
	Delete(ctx context.Context, id string) (bool, error)
	// Atomic runs fn under the store's writer lock inside one transaction.
	// fn must use the repository it is given. Nested calls reuse the outer transaction.
	Atomic(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
	Ping(ctx context.Context) error
}
