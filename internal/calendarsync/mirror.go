package calendarsync

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/pkg/gcalendar"
)

// TasksChanged queues upserted and deleted tasks for mirroring without blocking the caller.
// Change sets are applied one after another in the order they were committed, so a later
// delete always lands after an earlier upsert of the same task. Cancelled tasks are removed
// from the calendar.
func (m *Mirror) TasksChanged(ctx context.Context, upserted []model.Task, deletedIDs []string) {
	if len(upserted) == 0 && len(deletedIDs) == 0 {
		return
	}

	deleted := make(map[string]struct{}, len(deletedIDs))
	for _, id := range deletedIDs {
		deleted[id] = struct{}{}
	}

	jobs := make([]job, 0, len(upserted)+len(deletedIDs))
	for _, t := range upserted {
		if _, gone := deleted[t.ID]; gone {
			continue
		}
		if t.Status == model.TaskStatusCancelled {
			jobs = append(jobs, m.deleteJob(t.ID))
			continue
		}
		jobs = append(jobs, m.upsertJob(t))
	}
	for _, id := range deletedIDs {
		jobs = append(jobs, m.deleteJob(id))
	}

	m.wg.Add(1)
	m.mu.Lock()
	m.queue = append(m.queue, changeSet{ctx: context.WithoutCancel(ctx), jobs: jobs})
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Wait blocks until every queued change set has been mirrored or given up on.
func (m *Mirror) Wait() {
	m.wg.Wait()
}

type changeSet struct {
	ctx  context.Context
	jobs []job
}

// drain runs queued change sets one at a time.
func (m *Mirror) drain() {
	for range m.notify {
		for {
			m.mu.Lock()
			if len(m.queue) == 0 {
				m.mu.Unlock()
				break
			}
			cs := m.queue[0]
			m.queue = m.queue[1:]
			m.mu.Unlock()

			ctx, cancel := context.WithTimeout(cs.ctx, m.timeout)
			m.run(ctx, cs.jobs)
			cancel()
			m.wg.Done()
		}
	}
}

type job struct {
	name string
	do   func(ctx context.Context) error
}

func (m *Mirror) upsertJob(t model.Task) job {
	req := m.eventRequest(t)
	return job{
		name: "upsert " + t.ID,
		do: func(ctx context.Context) error {
			_, err := m.cal.UpsertEvent(ctx, req)
			return err
		},
	}
}

func (m *Mirror) deleteJob(taskID string) job {
	eventID := gcalendar.EventID(taskID)
	return job{
		name: "delete " + taskID,
		do: func(ctx context.Context) error {
			return m.cal.DeleteEvent(ctx, eventID)
		},
	}
}

func (m *Mirror) run(ctx context.Context, jobs []job) {
	var (
		g      errgroup.Group
		failed atomic.Int32
	)
	g.SetLimit(m.parallelism)
	for _, j := range jobs {
		g.Go(func() error {
			if err := m.withRetry(ctx, j); err != nil {
				failed.Add(1)
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		m.l.Errorf(ctx, "calendarsync: %d of %d changes not mirrored, calendar drifted: %v", failed.Load(), len(jobs), err)
		return
	}
	m.l.Debugf(ctx, "calendarsync: mirrored %d changes", len(jobs))
}

// withRetry runs j with exponential backoff. Permanent API errors are not retried.
func (m *Mirror) withRetry(ctx context.Context, j job) error {
	backoff := m.backoff
	var err error
	for i := 0; i < m.maxRetries; i++ {
		if err = j.do(ctx); err == nil {
			return nil
		}
		if gcalendar.IsPermanent(err) {
			break
		}
		m.l.Warnf(ctx, "calendarsync: %s failed (retry %d/%d): %v", j.name, i+1, m.maxRetries, err)
		if i == m.maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	m.l.Errorf(ctx, "calendarsync: %s failed: %v", j.name, err)
	return err
}

func (m *Mirror) eventRequest(t model.Task) gcalendar.EventRequest {
	req := gcalendar.EventRequest{
		ID:          gcalendar.EventID(t.ID),
		Summary:     t.Title,
		Description: t.Description,
		Timezone:    m.timezone,
	}
	if t.Status == model.TaskStatusCompleted {
		req.Summary = "Done: " + t.Title
	}
	if t.AllDay() {
		req.AllDay = true
		req.Date = t.Date
		return req
	}

	day := time.Date(t.Date.Year(), t.Date.Month(), t.Date.Day(), 0, 0, 0, 0, m.loc)
	req.Start = day.Add(time.Duration(*t.StartTime) * time.Minute)
	if t.EndTime != nil {
		req.End = day.Add(time.Duration(*t.EndTime) * time.Minute)
	} else {
		req.End = req.Start.Add(defaultEventLength)
	}
	return req
}
