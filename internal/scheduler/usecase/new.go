package usecase

import (
	"time"

	"scheduling-assistant/internal/conversation"
	"scheduling-assistant/internal/scheduler"
	"scheduling-assistant/internal/task/repository"
	"scheduling-assistant/pkg/datemath"
	pkgLog "scheduling-assistant/pkg/log"
)

type implUseCase struct {
	l        pkgLog.Logger
	repo     repository.Repository
	dateMath *datemath.Parser
	sessions *conversation.Sessions
	mirror   scheduler.Mirror
	maxBulk  int
	now      func() time.Time
}

// Options tunes the engine. Zero values select defaults.
type Options struct {
	MaxBulkCount int
	Mirror       scheduler.Mirror
	Now          func() time.Time
}

// New creates a new scheduler UseCase instance.
func New(
	l pkgLog.Logger,
	repo repository.Repository,
	dateMath *datemath.Parser,
	sessions *conversation.Sessions,
	opts Options,
) *implUseCase {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &implUseCase{
		l:        l,
		repo:     repo,
		dateMath: dateMath,
		sessions: sessions,
		mirror:   opts.Mirror,
		maxBulk:  opts.MaxBulkCount,
		now:      now,
	}
}
