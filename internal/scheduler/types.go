package scheduler

import "time"

// TurnInput is one conversational turn.
type TurnInput struct {
	UserText string
	Intent   Intent
}

// TurnOutput is the structured result of a turn and the state it left the session in.
type TurnOutput struct {
	State   State
	Outcome Outcome
}

// TurnSummary is a recorded turn in a session snapshot.
type TurnSummary struct {
	UserText  string      `json:"user_text"`
	Operation Operation   `json:"operation"`
	Outcome   OutcomeKind `json:"outcome"`
	At        time.Time   `json:"at"`
}

// SessionSnapshot is a read-only view of a session's context.
type SessionSnapshot struct {
	SessionID            string         `json:"session_id"`
	State                State          `json:"state"`
	MostRecentTaskID     string         `json:"most_recent_task_id,omitempty"`
	PendingClarification *Clarification `json:"pending_clarification,omitempty"`
	PendingConflict      *Outcome       `json:"pending_conflict,omitempty"`
	Turns                []TurnSummary  `json:"turns"`
}
