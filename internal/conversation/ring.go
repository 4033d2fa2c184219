package conversation

import (
	"time"

	"scheduling-assistant/internal/scheduler"
)

// DefaultMaxTurns is the number of turns kept when no bound is configured.
const DefaultMaxTurns = 5

// Turn is one processed exchange.
type Turn struct {
	UserText string
	Intent   scheduler.Intent
	Outcome  scheduler.Outcome
	At       time.Time
}

// Ring is a bounded FIFO of turns. Push never mutates the receiver.
type Ring struct {
	turns []Turn
	size  int
}

// NewRing creates an empty ring holding at most size turns.
func NewRing(size int) Ring {
	if size < 1 {
		size = DefaultMaxTurns
	}
	return Ring{size: size}
}

// Push returns a ring with t appended, evicting the oldest turn beyond the bound.
func (r Ring) Push(t Turn) Ring {
	start := 0
	if len(r.turns) >= r.size {
		start = len(r.turns) - r.size + 1
	}
	next := make([]Turn, 0, r.size)
	next = append(next, r.turns[start:]...)
	next = append(next, t)
	return Ring{turns: next, size: r.size}
}

// Turns returns the turns oldest first.
func (r Ring) Turns() []Turn {
	out := make([]Turn, len(r.turns))
	copy(out, r.turns)
	return out
}

func (r Ring) Len() int { return len(r.turns) }
func (r Ring) Cap() int { return r.size }
