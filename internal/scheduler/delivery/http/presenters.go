package http

import (
	"scheduling-assistant/internal/composer"
	"scheduling-assistant/internal/conflict"
	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/scheduler"
	taskHTTP "scheduling-assistant/internal/task/delivery/http"
	"scheduling-assistant/pkg/response"
)

// --- Request DTOs ---

type turnReq struct {
	UserText string           `json:"user_text"`
	Intent   scheduler.Intent `json:"intent"`
}

func (r turnReq) validate() error {
	if r.Intent.Operation == "" {
		return errMissingOperation
	}
	return nil
}

func (r turnReq) toInput() scheduler.TurnInput {
	return scheduler.TurnInput{UserText: r.UserText, Intent: r.Intent}
}

// --- Response DTOs ---

type candidateResp struct {
	Title     string        `json:"title"`
	Date      response.Date `json:"date" swaggertype:"string" example:"2025-09-16"`
	StartTime string        `json:"start_time,omitempty" example:"14:30"`
	EndTime   string        `json:"end_time,omitempty" example:"15:30"`
	Priority  string        `json:"priority,omitempty"`
}

type conflictResp struct {
	Candidate candidateResp       `json:"candidate"`
	Colliding []taskHTTP.TaskResp `json:"colliding_tasks"`
	Severity  string              `json:"severity"`
}

type outcomeResp struct {
	Kind          string                   `json:"kind"`
	Tasks         []taskHTTP.TaskResp      `json:"tasks,omitempty"`
	DeletedIDs    []string                 `json:"deleted_ids,omitempty"`
	Moved         []taskHTTP.TaskResp      `json:"moved,omitempty"`
	Existing      []taskHTTP.TaskResp      `json:"existing,omitempty"`
	Day           *response.Date           `json:"day,omitempty" swaggertype:"string"`
	Conflict      *conflictResp            `json:"conflict,omitempty"`
	Resolutions   []scheduler.Decision     `json:"offered_resolutions,omitempty"`
	BatchIndex    int                      `json:"batch_index,omitempty"`
	BatchSize     int                      `json:"batch_size,omitempty"`
	Clarification *scheduler.Clarification `json:"clarification,omitempty"`
	Reference     string                   `json:"reference,omitempty"`
	Reason        string                   `json:"reason,omitempty"`
	Retryable     bool                     `json:"retryable,omitempty"`
}

func newOutcomeResp(o scheduler.Outcome) outcomeResp {
	r := outcomeResp{
		Kind:          string(o.Kind),
		DeletedIDs:    o.DeletedIDs,
		Resolutions:   o.Resolutions,
		BatchIndex:    o.BatchIndex,
		BatchSize:     o.BatchSize,
		Clarification: o.Clarification,
		Reference:     o.Reference,
		Reason:        o.Reason,
		Retryable:     o.Retryable,
	}
	if len(o.Tasks) > 0 {
		r.Tasks = taskHTTP.NewTaskResps(o.Tasks)
	}
	if len(o.Moved) > 0 {
		r.Moved = taskHTTP.NewTaskResps(o.Moved)
	}
	if len(o.Existing) > 0 {
		r.Existing = taskHTTP.NewTaskResps(o.Existing)
	}
	if o.Day != nil {
		d := response.Date(*o.Day)
		r.Day = &d
	}
	if o.Conflict != nil {
		r.Conflict = newConflictResp(*o.Conflict)
	}
	return r
}

func newConflictResp(rep conflict.Report) *conflictResp {
	return &conflictResp{
		Candidate: newCandidateResp(rep.Candidate),
		Colliding: taskHTTP.NewTaskResps(rep.Colliding),
		Severity:  string(rep.Severity),
	}
}

func newCandidateResp(c model.Candidate) candidateResp {
	r := candidateResp{
		Title:    c.Title,
		Date:     response.Date(c.Date),
		Priority: string(c.Priority),
	}
	if c.StartTime != nil {
		r.StartTime = c.StartTime.String()
	}
	if c.EndTime != nil {
		r.EndTime = c.EndTime.String()
	}
	return r
}

type turnResp struct {
	State   string      `json:"state"`
	Outcome outcomeResp `json:"outcome"`
	Message string      `json:"message"`
}

func (h *handler) newTurnResp(out scheduler.TurnOutput) turnResp {
	return turnResp{
		State:   string(out.State),
		Outcome: newOutcomeResp(out.Outcome),
		Message: composer.Compose(out.Outcome),
	}
}

type sessionResp struct {
	SessionID            string                   `json:"session_id"`
	State                string                   `json:"state"`
	MostRecentTaskID     string                   `json:"most_recent_task_id,omitempty"`
	PendingClarification *scheduler.Clarification `json:"pending_clarification,omitempty"`
	PendingConflict      *outcomeResp             `json:"pending_conflict,omitempty"`
	Turns                []scheduler.TurnSummary  `json:"turns"`
}

func (h *handler) newSessionResp(s scheduler.SessionSnapshot) sessionResp {
	r := sessionResp{
		SessionID:            s.SessionID,
		State:                string(s.State),
		MostRecentTaskID:     s.MostRecentTaskID,
		PendingClarification: s.PendingClarification,
		Turns:                s.Turns,
	}
	if s.PendingConflict != nil {
		o := newOutcomeResp(*s.PendingConflict)
		r.PendingConflict = &o
	}
	return r
}
