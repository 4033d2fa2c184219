package scheduler

import (
	"context"

	"scheduling-assistant/internal/model"
)

// UseCase is the intent resolution engine.
type UseCase interface {
	// ProcessTurn runs one intent for the session in sc. Turns of one session are processed
	// strictly one at a time. A returned error means the store failed; the session context was
	// not advanced and the same turn may be retried.
	ProcessTurn(ctx context.Context, sc model.Scope, input TurnInput) (TurnOutput, error)
	// Session returns a snapshot of the session's context.
	Session(ctx context.Context, sc model.Scope) (SessionSnapshot, error)
	// EndSession discards the session's context.
	EndSession(ctx context.Context, sc model.Scope) error
}

// Mirror receives task changes after they are committed. Implementations must return
// quickly; the turn never waits on them.
type Mirror interface {
	TasksChanged(ctx context.Context, upserted []model.Task, deletedIDs []string)
}
