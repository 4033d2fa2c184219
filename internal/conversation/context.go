// Package conversation holds the per-session short-term memory of the scheduling engine.
package conversation

import (
	"slices"
	"time"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/scheduler"
)

// Pending is an outstanding clarification together with the intent it will complete.
type Pending struct {
	Clarification scheduler.Clarification
	Stashed       scheduler.Intent
}

// Context is the conversation state of one session. It is a value: every method
// that changes it returns a new Context and leaves the receiver untouched.
type Context struct {
	sessionID  string
	ring       Ring
	mostRecent string
	recentSet  []string
	pending    *Pending
	batch      *scheduler.ConflictBatch
}

// New creates an empty context keeping at most maxTurns turns.
func New(sessionID string, maxTurns int) Context {
	return Context{sessionID: sessionID, ring: NewRing(maxTurns)}
}

func (c Context) SessionID() string { return c.sessionID }

// Turns returns the recorded turns, oldest first.
func (c Context) Turns() []Turn { return c.ring.Turns() }

// State derives the engine state from what is pending.
func (c Context) State() scheduler.State {
	switch {
	case c.batch != nil:
		return scheduler.StateAwaitingConflictDecision
	case c.pending != nil:
		return scheduler.StateAwaitingClarification
	}
	return scheduler.StateIdle
}

// MostRecentTaskRef returns the id of the last task created, updated or singled out by a query.
func (c Context) MostRecentTaskRef() (string, bool) {
	return c.mostRecent, c.mostRecent != ""
}

// RecentSet returns the ids named by the latest outcome that carried several tasks.
func (c Context) RecentSet() []string {
	return slices.Clone(c.recentSet)
}

// RecordTurn appends a turn and updates the task back-references from its outcome.
func (c Context) RecordTurn(userText string, intent scheduler.Intent, out scheduler.Outcome, at time.Time) Context {
	next := c
	next.ring = c.ring.Push(Turn{UserText: userText, Intent: intent, Outcome: out, At: at})

	if t, ok := out.SingleTask(); ok {
		next.mostRecent = t.ID
	}
	if len(out.Tasks) > 1 {
		next.recentSet = taskIDs(out.Tasks)
	}

	if out.Kind == scheduler.OutcomeDeleted || len(out.DeletedIDs) > 0 {
		if slices.Contains(out.DeletedIDs, next.mostRecent) {
			next.mostRecent = ""
		}
		next.recentSet = slices.DeleteFunc(slices.Clone(next.recentSet), func(id string) bool {
			return slices.Contains(out.DeletedIDs, id)
		})
	}
	return next
}

// SetPendingClarification records a question whose answer completes stashed.
func (c Context) SetPendingClarification(q scheduler.Clarification, stashed scheduler.Intent) Context {
	next := c
	next.pending = &Pending{Clarification: q, Stashed: stashed}
	next.batch = nil
	return next
}

// PendingClarification peeks at the outstanding question.
func (c Context) PendingClarification() (Pending, bool) {
	if c.pending == nil {
		return Pending{}, false
	}
	return *c.pending, true
}

// ConsumePendingClarification returns the outstanding question and a context without it.
func (c Context) ConsumePendingClarification() (Pending, bool, Context) {
	if c.pending == nil {
		return Pending{}, false, c
	}
	p := *c.pending
	next := c
	next.pending = nil
	return p, true, next
}

// SetPendingConflict records a batch awaiting a conflict decision.
func (c Context) SetPendingConflict(b scheduler.ConflictBatch) Context {
	next := c
	cloned := b.Clone()
	next.batch = &cloned
	next.pending = nil
	return next
}

// PendingConflict peeks at the batch under adjudication.
func (c Context) PendingConflict() (scheduler.ConflictBatch, bool) {
	if c.batch == nil {
		return scheduler.ConflictBatch{}, false
	}
	return c.batch.Clone(), true
}

// ConsumePendingConflict returns the pending batch and a context without it.
func (c Context) ConsumePendingConflict() (scheduler.ConflictBatch, bool, Context) {
	if c.batch == nil {
		return scheduler.ConflictBatch{}, false, c
	}
	b := c.batch.Clone()
	next := c
	next.batch = nil
	return b, true, next
}

// Touched returns ids of tasks named in recorded turns, most recent first, without repeats.
func (c Context) Touched() []string {
	turns := c.ring.Turns()
	seen := make(map[string]struct{})
	var out []string
	add := func(id string) {
		if _, ok := seen[id]; ok || id == "" {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	add(c.mostRecent)
	for i := len(turns) - 1; i >= 0; i-- {
		o := turns[i].Outcome
		for _, t := range o.Tasks {
			add(t.ID)
		}
		for _, t := range o.Moved {
			add(t.ID)
		}
		if o.Conflict != nil {
			for _, t := range o.Conflict.Colliding {
				add(t.ID)
			}
		}
	}
	return out
}

// Snapshot renders the context for display.
func (c Context) Snapshot() scheduler.SessionSnapshot {
	snap := scheduler.SessionSnapshot{
		SessionID:        c.sessionID,
		State:            c.State(),
		MostRecentTaskID: c.mostRecent,
		Turns:            make([]scheduler.TurnSummary, 0, c.ring.Len()),
	}
	for _, t := range c.ring.Turns() {
		snap.Turns = append(snap.Turns, scheduler.TurnSummary{
			UserText:  t.UserText,
			Operation: t.Intent.Operation,
			Outcome:   t.Outcome.Kind,
			At:        t.At,
		})
	}
	if c.pending != nil {
		q := c.pending.Clarification
		snap.PendingClarification = &q
	}
	if c.batch != nil {
		report := c.batch.Report
		snap.PendingConflict = &scheduler.Outcome{
			Kind:        scheduler.OutcomeConflictPending,
			Conflict:    &report,
			Resolutions: scheduler.CanonicalResolutions,
			BatchIndex:  c.batch.Index,
			BatchSize:   len(c.batch.Items),
		}
	}
	return snap
}

func taskIDs(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
