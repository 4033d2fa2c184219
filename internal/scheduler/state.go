package scheduler

import (
	"slices"

	"scheduling-assistant/internal/conflict"
	"scheduling-assistant/internal/model"
)

// State is where a session's conversation stands between turns.
type State string

const (
	StateIdle                     State = "idle"
	StateAwaitingClarification    State = "awaiting_clarification"
	StateAwaitingConflictDecision State = "awaiting_conflict_decision"
)

// BatchItem is one planned write: a new task when TaskID is empty, otherwise a move of TaskID.
type BatchItem struct {
	TaskID    string           `json:"task_id,omitempty"`
	Candidate model.Candidate  `json:"candidate"`
	Status    model.TaskStatus `json:"status,omitempty"`
}

// ConflictBatch is a set of planned writes halted on the conflict of Items[Index].
// The whole batch, with its accumulated resolutions, is re-applied in one unit once
// every item is clear.
type ConflictBatch struct {
	Operation Operation       `json:"operation"`
	Items     []BatchItem     `json:"items"`
	Index     int             `json:"index"`
	Report    conflict.Report `json:"report"`
	RemoveIDs []string        `json:"remove_ids,omitempty"` // existing tasks to delete (replace)
	Moves     []BatchItem     `json:"moves,omitempty"`      // existing tasks to move (move_existing)
}

// Current returns the item in conflict.
func (b ConflictBatch) Current() BatchItem {
	return b.Items[b.Index]
}

// Clone returns a deep copy so a stored batch is never mutated through a later turn.
func (b ConflictBatch) Clone() ConflictBatch {
	out := b
	out.Items = slices.Clone(b.Items)
	out.RemoveIDs = slices.Clone(b.RemoveIDs)
	out.Moves = slices.Clone(b.Moves)
	out.Report.Colliding = slices.Clone(b.Report.Colliding)
	return out
}
