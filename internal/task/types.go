package task

import (
	"time"

	"scheduling-assistant/internal/model"
)

// ListInput filters a task listing. Zero values mean no filter.
type ListInput struct {
	From   *time.Time
	To     *time.Time
	Status model.TaskStatus
	Query  string
}

// ListOutput is the result of a listing.
type ListOutput struct {
	Tasks []model.Task
	Count int
}

// Stats summarises the store by status.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Today     int `json:"today"`
}
