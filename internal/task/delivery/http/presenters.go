package http

import (
	"time"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/task"
	"scheduling-assistant/pkg/response"
)

// --- Request DTOs ---

type listReq struct {
	From   string `form:"from"`
	To     string `form:"to"`
	Status string `form:"status"`
	Q      string `form:"q"`
}

func (r listReq) toInput() (task.ListInput, error) {
	from, err := parseDate(r.From)
	if err != nil {
		return task.ListInput{}, err
	}
	to, err := parseDate(r.To)
	if err != nil {
		return task.ListInput{}, err
	}
	return task.ListInput{
		From:   from,
		To:     to,
		Status: model.TaskStatus(r.Status),
		Query:  r.Q,
	}, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(response.DateFormat, s)
	if err != nil {
		return nil, errInvalidDate
	}
	return &d, nil
}

// --- Response DTOs ---

// TaskResp is the wire shape of a task.
type TaskResp struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Date        response.Date     `json:"date" swaggertype:"string" example:"2025-09-16"`
	StartTime   string            `json:"start_time,omitempty" example:"14:00"`
	EndTime     string            `json:"end_time,omitempty" example:"15:00"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	CreatedAt   response.DateTime `json:"created_at" swaggertype:"string"`
	UpdatedAt   response.DateTime `json:"updated_at" swaggertype:"string"`
}

// NewTaskResp converts a task to its wire shape.
func NewTaskResp(t model.Task) TaskResp {
	r := TaskResp{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Date:        response.Date(t.Date),
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedAt:   response.DateTime(t.CreatedAt),
		UpdatedAt:   response.DateTime(t.UpdatedAt),
	}
	if t.StartTime != nil {
		r.StartTime = t.StartTime.String()
	}
	if t.EndTime != nil {
		r.EndTime = t.EndTime.String()
	}
	return r
}

// NewTaskResps converts a slice of tasks, never returning nil.
func NewTaskResps(tasks []model.Task) []TaskResp {
	out := make([]TaskResp, len(tasks))
	for i, t := range tasks {
		out[i] = NewTaskResp(t)
	}
	return out
}

type listResp struct {
	Tasks []TaskResp `json:"tasks"`
	Count int        `json:"count"`
}

func (h *handler) newListResp(out task.ListOutput) listResp {
	return listResp{Tasks: NewTaskResps(out.Tasks), Count: out.Count}
}

type detailResp struct {
	Task TaskResp `json:"task"`
}

func (h *handler) newDetailResp(t model.Task) detailResp {
	return detailResp{Task: NewTaskResp(t)}
}
