package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/task"
	"scheduling-assistant/internal/task/repository"
)

// Create inserts a new task with a fresh id and timestamps.
func (r *implRepository) Create(ctx context.Context, opt repository.CreateOptions) (model.Task, error) {
	var created model.Task
	err := r.write(ctx, func(tx *implRepository) error {
		now := tx.now()
		t := buildTask(opt, now)
		if err := task.Validate(t); err != nil {
			return err
		}

		_, err := tx.q.ExecContext(ctx,
			`INSERT INTO tasks (id, title, description, date, start_min, end_min, status, priority, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, t.Description, formatDate(t.Date), nullClock(t.StartTime), nullClock(t.EndTime),
			string(t.Status), string(t.Priority), t.CreatedAt.UnixNano(), t.UpdatedAt.UnixNano(),
		)
		if err != nil {
			tx.l.Errorf(ctx, "sqlite repository: insert task %q: %v", t.Title, err)
			return fmt.Errorf("%w: %v", repository.ErrFailedToInsert, err)
		}
		created = t
		return nil
	})
	return created, err
}

// Get retrieves a task by ID.
func (r *implRepository) Get(ctx context.Context, id string) (model.Task, error) {
	row := r.q.QueryRowContext(ctx, selectTaskSQL+` WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, repository.ErrNotFound
	}
	if err != nil {
		r.l.Errorf(ctx, "sqlite repository: get task %s: %v", id, err)
		return model.Task{}, fmt.Errorf("%w: %v", repository.ErrFailedToQuery, err)
	}
	return t, nil
}

// Update merges opt into the stored task, re-validates and bumps updated_at.
func (r *implRepository) Update(ctx context.Context, id string, opt repository.UpdateOptions) (model.Task, error) {
	var updated model.Task
	err := r.write(ctx, func(tx *implRepository) error {
		cur, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}

		t := mergeTask(cur, opt)
		t.UpdatedAt = tx.now()
		if t.UpdatedAt.Before(t.CreatedAt) {
			t.UpdatedAt = t.CreatedAt
		}
		if err := task.Validate(t); err != nil {
			return err
		}

		_, err = tx.q.ExecContext(ctx,
			`UPDATE tasks SET title = ?, description = ?, date = ?, start_min = ?, end_min = ?,
			 status = ?, priority = ?, updated_at = ? WHERE id = ?`,
			t.Title, t.Description, formatDate(t.Date), nullClock(t.StartTime), nullClock(t.EndTime),
			string(t.Status), string(t.Priority), t.UpdatedAt.UnixNano(), id,
		)
		if err != nil {
			tx.l.Errorf(ctx, "sqlite repository: update task %s: %v", id, err)
			return fmt.Errorf("%w: %v", repository.ErrFailedToUpdate, err)
		}
		updated = t
		return nil
	})
	return updated, err
}

// Delete removes a task. It reports whether a task existed.
func (r *implRepository) Delete(ctx context.Context, id string) (bool, error) {
	var existed bool
	err := r.write(ctx, func(tx *implRepository) error {
		res, err := tx.q.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
		if err != nil {
			tx.l.Errorf(ctx, "sqlite repository: delete task %s: %v", id, err)
			return fmt.Errorf("%w: %v", repository.ErrFailedToDelete, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %v", repository.ErrFailedToDelete, err)
		}
		existed = n > 0
		return nil
	})
	return existed, err
}

// Query returns tasks ordered by (date, start_time nulls last, created_at).
func (r *implRepository) Query(ctx context.Context, opt repository.QueryOptions) ([]model.Task, error) {
	query, args := buildQuery(opt)
	return r.list(ctx, query, args...)
}

// AllOverlapping returns tasks on the same date whose occupied interval intersects the requested one.
func (r *implRepository) AllOverlapping(ctx context.Context, opt repository.OverlapOptions) ([]model.Task, error) {
	sameDay, err := r.list(ctx, selectTaskSQL+` WHERE date = ?`+orderTaskSQL, formatDate(opt.Date))
	if err != nil {
		return nil, err
	}

	want := model.NewInterval(opt.StartTime, opt.EndTime)
	out := make([]model.Task, 0, len(sameDay))
	for _, t := range sameDay {
		if slices.Contains(opt.ExcludeIDs, t.ID) {
			continue
		}
		if t.Interval().Overlaps(want) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Stats counts tasks by status and those scheduled on opt.Today.
func (r *implRepository) Stats(ctx context.Context, opt repository.StatsOptions) (task.Stats, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		r.l.Errorf(ctx, "sqlite repository: stats: %v", err)
		return task.Stats{}, fmt.Errorf("%w: %v", repository.ErrFailedToQuery, err)
	}
	defer rows.Close()

	var stats task.Stats
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return task.Stats{}, fmt.Errorf("%w: %v", repository.ErrFailedToQuery, err)
		}
		stats.Total += n
		switch model.TaskStatus(status) {
		case model.TaskStatusPending:
			stats.Pending = n
		case model.TaskStatusCompleted:
			stats.Completed = n
		case model.TaskStatusCancelled:
			stats.Cancelled = n
		}
	}
	if err := rows.Err(); err != nil {
		return task.Stats{}, fmt.Errorf("%w: %v", repository.ErrFailedToQuery, err)
	}

	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE date = ?`, formatDate(opt.Today)).Scan(&stats.Today); err != nil {
		return task.Stats{}, fmt.Errorf("%w: %v", repository.ErrFailedToQuery, err)
	}
	return stats, nil
}

func (r *implRepository) list(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "sqlite repository: query tasks: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrFailedToQuery, err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %v", repository.ErrFailedToQuery, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrFailedToQuery, err)
	}
	return tasks, nil
}

// write runs fn inside a transaction, reusing the current one when already in Atomic.
func (r *implRepository) write(ctx context.Context, fn func(tx *implRepository) error) error {
	if r.inTx {
		return fn(r)
	}
	return r.Atomic(ctx, func(ctx context.Context, repo repository.Repository) error {
		return fn(repo.(*implRepository))
	})
}

func buildTask(opt repository.CreateOptions, now time.Time) model.Task {
	status := opt.Status
	if status == "" {
		status = model.TaskStatusPending
	}
	priority := opt.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	return model.Task{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(opt.Title),
		Description: strings.TrimSpace(opt.Description),
		Date:        model.CivilDate(opt.Date),
		StartTime:   opt.StartTime,
		EndTime:     opt.EndTime,
		Status:      status,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func mergeTask(t model.Task, opt repository.UpdateOptions) model.Task {
	if opt.Title != nil {
		t.Title = strings.TrimSpace(*opt.Title)
	}
	if opt.Description != nil {
		t.Description = strings.TrimSpace(*opt.Description)
	}
	if opt.Date != nil {
		t.Date = model.CivilDate(*opt.Date)
	}
	if opt.ClearTime {
		t.StartTime, t.EndTime = nil, nil
	}
	if opt.StartTime != nil {
		t.StartTime = opt.StartTime
	}
	if opt.ClearEnd {
		t.EndTime = nil
	}
	if opt.EndTime != nil {
		t.EndTime = opt.EndTime
	}
	if opt.Status != nil {
		t.Status = *opt.Status
	}
	if opt.Priority != nil {
		t.Priority = *opt.Priority
	}
	return t
}
