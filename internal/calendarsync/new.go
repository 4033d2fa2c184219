package calendarsync

import (
	"fmt"
	"sync"
	"time"

	pkgLog "scheduling-assistant/pkg/log"
)

const (
	defaultMaxRetries  = 3
	defaultBackoff     = 2 * time.Second
	defaultTimeout     = 2 * time.Minute
	defaultParallelism = 4
	// defaultEventLength is the calendar length of a task with a start but no end.
	defaultEventLength = 30 * time.Minute
)

// Options tunes the mirror. Zero values select defaults.
type Options struct {
	Timezone    string
	MaxRetries  int
	Backoff     time.Duration
	Timeout     time.Duration
	Parallelism int
}

// Mirror copies committed task changes to a calendar in the background.
type Mirror struct {
	l        pkgLog.Logger
	cal      Calendar
	loc      *time.Location
	timezone string

	maxRetries  int
	backoff     time.Duration
	timeout     time.Duration
	parallelism int

	mu     sync.Mutex
	queue  []changeSet
	notify chan struct{}
	wg     sync.WaitGroup
}

// New creates a Mirror writing to cal and starts its worker.
func New(l pkgLog.Logger, cal Calendar, opts Options) (*Mirror, error) {
	tz := opts.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("calendarsync: load timezone %q: %w", tz, err)
	}

	m := &Mirror{
		l:           l,
		cal:         cal,
		loc:         loc,
		timezone:    tz,
		maxRetries:  opts.MaxRetries,
		backoff:     opts.Backoff,
		timeout:     opts.Timeout,
		parallelism: opts.Parallelism,
		notify:      make(chan struct{}, 1),
	}
	if m.maxRetries <= 0 {
		m.maxRetries = defaultMaxRetries
	}
	if m.backoff <= 0 {
		m.backoff = defaultBackoff
	}
	if m.timeout <= 0 {
		m.timeout = defaultTimeout
	}
	if m.parallelism <= 0 {
		m.parallelism = defaultParallelism
	}

	go m.drain()
	return m, nil
}
