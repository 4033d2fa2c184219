package scheduler

import (
	"maps"
	"strings"
)

// Operation is the closed set of intent kinds the engine dispatches on.
type Operation string

const (
	OpCreate              Operation = "create"
	OpCreateBulk          Operation = "create_bulk"
	OpUpdate              Operation = "update"
	OpDelete              Operation = "delete"
	OpReschedule          Operation = "reschedule"
	OpQuery               Operation = "query"
	OpDayShift            Operation = "day_shift"
	OpClarificationAnswer Operation = "clarification_answer"
	OpConflictDecision    Operation = "conflict_decision"
)

// Valid reports whether o is a known operation.
func (o Operation) Valid() bool {
	switch o {
	case OpCreate, OpCreateBulk, OpUpdate, OpDelete, OpReschedule, OpQuery, OpDayShift,
		OpClarificationAnswer, OpConflictDecision:
		return true
	}
	return false
}

// Slot names carried in Intent.Fields. Values are raw phrases, not yet resolved.
const (
	SlotTaskID      = "task_id"
	SlotTitle       = "title"
	SlotDescription = "description"
	SlotDate        = "date"
	SlotStartTime   = "start_time"
	SlotEndTime     = "end_time"
	SlotDuration    = "duration"
	SlotPriority    = "priority"
	SlotStatus      = "status"
	SlotCount       = "count"
	SlotInterval    = "interval"
	SlotDayStep     = "day_step"
	SlotNewDate     = "new_date"
	SlotNewTime     = "new_time"
	SlotShift       = "shift"
	SlotFromDate    = "from_date"
	SlotToDate      = "to_date"
	SlotDateFrom    = "date_from"
	SlotDateTo      = "date_to"
	SlotText        = "text"
	SlotKeyword     = "keyword"
	SlotAll         = "all"
	SlotAnswer      = "answer"
	SlotDecision    = "decision"
)

// Intent is one structured request produced by the language front end.
type Intent struct {
	Operation       Operation         `json:"operation"`
	Fields          map[string]string `json:"fields,omitempty"`
	ReferencePhrase string            `json:"reference_phrase,omitempty"`
}

// Field returns the trimmed value of a slot.
func (i Intent) Field(slot string) string {
	return strings.TrimSpace(i.Fields[slot])
}

// Has reports whether a slot carries a non-blank value.
func (i Intent) Has(slot string) bool {
	return i.Field(slot) != ""
}

// Flag reports whether a boolean-ish slot is set ("true", "yes", "1", "all").
func (i Intent) Flag(slot string) bool {
	switch strings.ToLower(i.Field(slot)) {
	case "true", "yes", "1", "all", "y":
		return true
	}
	return false
}

// With returns a copy of i with slot set to value.
func (i Intent) With(slot, value string) Intent {
	out := i
	out.Fields = maps.Clone(i.Fields)
	if out.Fields == nil {
		out.Fields = make(map[string]string, 1)
	}
	out.Fields[slot] = value
	return out
}

// WithReference returns a copy of i pointing at an explicit task.
func (i Intent) WithReference(taskID string) Intent {
	out := i.With(SlotTaskID, taskID)
	out.ReferencePhrase = ""
	return out
}

// Decision is the user's answer to a pending conflict.
type Decision string

const (
	DecisionReplace       Decision = "replace"
	DecisionRescheduleNew Decision = "reschedule_new"
	DecisionMoveExisting  Decision = "move_existing"
	DecisionCancel        Decision = "cancel"
)

// CanonicalResolutions are offered, in order, for every conflict.
var CanonicalResolutions = []Decision{DecisionReplace, DecisionRescheduleNew, DecisionMoveExisting}

// ParseDecision accepts a decision name, a dashed or spaced variant, or its 1-based position.
func ParseDecision(s string) (Decision, bool) {
	norm := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "1", "replace", "replace_existing":
		return DecisionReplace, true
	case "2", "reschedule_new", "reschedule", "reschedule_new_task":
		return DecisionRescheduleNew, true
	case "3", "move_existing", "move", "move_existing_task":
		return DecisionMoveExisting, true
	case "cancel", "abort", "never_mind", "nevermind", "no":
		return DecisionCancel, true
	}
	return "", false
}
