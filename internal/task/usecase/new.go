package usecase

import (
	"time"

	"scheduling-assistant/internal/task/repository"
	"scheduling-assistant/pkg/datemath"
	pkgLog "scheduling-assistant/pkg/log"
)

type implUseCase struct {
	l        pkgLog.Logger
	repo     repository.Reader
	dateMath *datemath.Parser
	now      func() time.Time
}

// New creates a new task UseCase instance. now may be nil.
func New(l pkgLog.Logger, repo repository.Reader, dateMath *datemath.Parser, now func() time.Time) *implUseCase {
	if now == nil {
		now = time.Now
	}
	return &implUseCase{
		l:        l,
		repo:     repo,
		dateMath: dateMath,
		now:      now,
	}
}
