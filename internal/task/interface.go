package task

import (
	"context"

	"scheduling-assistant/internal/model"
)

// UseCase defines the read-side business logic of the task domain.
// Mutations go through the scheduler so they are conflict-checked.
type UseCase interface {
	// List returns tasks matching the filters, ordered by date and start time.
	List(ctx context.Context, sc model.Scope, input ListInput) (ListOutput, error)
	// Today returns the tasks scheduled for the current day in the configured timezone.
	Today(ctx context.Context, sc model.Scope) (ListOutput, error)
	// Search returns tasks whose title or description contains the query.
	Search(ctx context.Context, sc model.Scope, query string) (ListOutput, error)
	// Detail returns a single task.
	Detail(ctx context.Context, sc model.Scope, id string) (model.Task, error)
	// Stats counts tasks by status.
	Stats(ctx context.Context, sc model.Scope) (Stats, error)
}
