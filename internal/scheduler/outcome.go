package scheduler

import (
	"time"

	"scheduling-assistant/internal/conflict"
	"scheduling-assistant/internal/model"
)

// OutcomeKind tags an Outcome.
type OutcomeKind string

const (
	OutcomeCreated             OutcomeKind = "created"
	OutcomeUpdated             OutcomeKind = "updated"
	OutcomeDeleted             OutcomeKind = "deleted"
	OutcomeConflictPending     OutcomeKind = "conflict_pending"
	OutcomeClarificationNeeded OutcomeKind = "clarification_needed"
	OutcomeNotFound            OutcomeKind = "not_found"
	OutcomeFailed              OutcomeKind = "failed"
	OutcomeFound               OutcomeKind = "found"
)

// Option is one selectable answer of a clarification.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Clarification is a question whose answer fills Slot of the stashed intent.
// A clarification with no options accepts free text.
type Clarification struct {
	Slot     string   `json:"slot"`
	Question string   `json:"question"`
	Options  []Option `json:"options,omitempty"`
}

// Outcome is the structured result of one turn. Only the fields of its Kind are set.
type Outcome struct {
	Kind OutcomeKind `json:"kind"`

	// Created, Updated, Found
	Tasks []model.Task `json:"tasks,omitempty"`
	// Deleted, and tasks removed while applying a conflict resolution
	DeletedIDs []string `json:"deleted_ids,omitempty"`
	// existing tasks moved out of the way by a conflict resolution
	Moved []model.Task `json:"moved,omitempty"`
	// stored tasks a create matched exactly, left untouched
	Existing []model.Task `json:"existing,omitempty"`
	// Found: the query covered a single day
	Day *time.Time `json:"day,omitempty"`

	// ConflictPending
	Conflict    *conflict.Report `json:"conflict,omitempty"`
	Resolutions []Decision       `json:"offered_resolutions,omitempty"`
	BatchIndex  int              `json:"batch_index,omitempty"`
	BatchSize   int              `json:"batch_size,omitempty"`

	// ClarificationNeeded
	Clarification *Clarification `json:"clarification,omitempty"`

	// NotFound
	Reference string `json:"reference,omitempty"`

	// Failed, NotFound
	Reason    string `json:"reason,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// IsDuplicate reports whether a create resolved to tasks that already existed.
func (o Outcome) IsDuplicate() bool {
	return o.Kind == OutcomeUpdated && len(o.Existing) > 0 && len(o.Existing) == len(o.Tasks)
}

// IsFailure reports whether the turn did not achieve its request.
func (o Outcome) IsFailure() bool {
	return o.Kind == OutcomeFailed || o.Kind == OutcomeNotFound
}

// SingleTask returns the only task the outcome names, if exactly one.
func (o Outcome) SingleTask() (model.Task, bool) {
	switch o.Kind {
	case OutcomeCreated, OutcomeUpdated, OutcomeFound:
		if len(o.Tasks) == 1 {
			return o.Tasks[0], true
		}
	}
	return model.Task{}, false
}

func Created(tasks ...model.Task) Outcome {
	return Outcome{Kind: OutcomeCreated, Tasks: tasks}
}

func Updated(tasks ...model.Task) Outcome {
	return Outcome{Kind: OutcomeUpdated, Tasks: tasks}
}

func Deleted(ids ...string) Outcome {
	return Outcome{Kind: OutcomeDeleted, DeletedIDs: ids}
}

func Found(tasks []model.Task) Outcome {
	return Outcome{Kind: OutcomeFound, Tasks: tasks}
}

func Failed(reason string) Outcome {
	return Outcome{Kind: OutcomeFailed, Reason: reason}
}

func NotFound(reference string) Outcome {
	return Outcome{Kind: OutcomeNotFound, Reference: reference, Reason: "no task matches " + quote(reference)}
}

func ClarificationNeeded(c Clarification) Outcome {
	return Outcome{Kind: OutcomeClarificationNeeded, Clarification: &c}
}

func quote(s string) string {
	return "\"" + s + "\""
}
