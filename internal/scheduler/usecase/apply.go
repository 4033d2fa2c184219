package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"scheduling-assistant/internal/conflict"
	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/scheduler"
	"scheduling-assistant/internal/task/repository"
)

// haltError rolls back a batch whose item at index is in conflict.
type haltError struct {
	index  int
	report conflict.Report
}

func (e *haltError) Error() string {
	return fmt.Sprintf("batch item %d conflicts with %d task(s)", e.index, len(e.report.Colliding))
}

// moveBlockedError rolls back a batch whose move_existing target is no longer free.
type moveBlockedError struct {
	move scheduler.BatchItem
}

func (e *moveBlockedError) Error() string {
	return fmt.Sprintf("move of %s is blocked", e.move.TaskID)
}

type applied struct {
	created  []model.Task
	updated  []model.Task
	existing []model.Task
	moved    []model.Task
	deleted  []string
}

// apply writes the whole batch in one atomic unit: replaced tasks are removed, existing tasks
// are moved aside, then every item is checked and written in order. The first item still in
// conflict rolls everything back and is returned as a halted batch.
func (uc *implUseCase) apply(ctx context.Context, b scheduler.ConflictBatch) (applied, *scheduler.ConflictBatch, error) {
	var res applied
	err := uc.repo.Atomic(ctx, func(ctx context.Context, tx repository.Repository) error {
		res = applied{}

		for _, id := range b.RemoveIDs {
			ok, err := tx.Delete(ctx, id)
			if err != nil {
				return err
			}
			if ok {
				res.deleted = append(res.deleted, id)
			}
		}

		for _, m := range b.Moves {
			exclude := append(unwrittenIDs(b.Items), m.TaskID)
			report, err := conflict.Check(ctx, tx, m.Candidate, exclude...)
			if err != nil {
				return err
			}
			if report.Severity != conflict.SeverityNone {
				return &moveBlockedError{move: m}
			}
			t, err := tx.Update(ctx, m.TaskID, scheduleOptions(m))
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			res.moved = append(res.moved, t)
		}

		for i, item := range b.Items {
			report, err := conflict.Check(ctx, tx, item.Candidate, unwrittenIDs(b.Items[i:])...)
			if err != nil {
				return err
			}

			switch report.Severity {
			case conflict.SeverityOverlap:
				return &haltError{index: i, report: report}
			case conflict.SeverityExactDuplicate:
				if item.TaskID != "" {
					return &haltError{index: i, report: report}
				}
				dup, _ := report.Duplicate()
				res.existing = append(res.existing, dup)
				continue
			}

			if item.TaskID == "" {
				t, err := tx.Create(ctx, repository.CreateOptions{
					Title:       item.Candidate.Title,
					Description: item.Candidate.Description,
					Date:        item.Candidate.Date,
					StartTime:   item.Candidate.StartTime,
					EndTime:     item.Candidate.EndTime,
					Priority:    item.Candidate.Priority,
				})
				if err != nil {
					return err
				}
				res.created = append(res.created, t)
				continue
			}

			t, err := tx.Update(ctx, item.TaskID, scheduleOptions(item))
			if errors.Is(err, repository.ErrNotFound) {
				// removed earlier in this batch
				continue
			}
			if err != nil {
				return err
			}
			res.updated = append(res.updated, t)
		}
		return nil
	})

	var halt *haltError
	if errors.As(err, &halt) {
		next := b.Clone()
		next.Index = halt.index
		next.Report = halt.report
		uc.l.Infof(ctx, "%s: %s halted at item %d/%d", LogPrefixApply, b.Operation, halt.index+1, len(b.Items))
		return applied{}, &next, nil
	}
	if err != nil {
		return applied{}, nil, err
	}
	return res, nil, nil
}

// run applies b and turns the result into an outcome.
func (uc *implUseCase) run(ctx context.Context, b scheduler.ConflictBatch) (result, error) {
	res, halted, err := uc.apply(ctx, b)
	var blocked *moveBlockedError
	if errors.As(err, &blocked) {
		next := b.Clone()
		next.Moves = slices.DeleteFunc(next.Moves, func(m scheduler.BatchItem) bool { return m.TaskID == blocked.move.TaskID })
		out := conflictOutcome(next)
		out.Reason = fmt.Sprintf(ReasonMoveBlocked, blocked.move.Candidate.Title)
		return result{outcome: out, batch: &next}, nil
	}
	if err != nil {
		return result{}, err
	}
	if halted != nil {
		return result{outcome: conflictOutcome(*halted), batch: halted}, nil
	}
	return result{outcome: res.outcome()}, nil
}

func (a applied) outcome() scheduler.Outcome {
	var out scheduler.Outcome
	switch {
	case len(a.created) > 0:
		out = scheduler.Created(a.created...)
	case len(a.updated) > 0:
		out = scheduler.Updated(a.updated...)
	default:
		out = scheduler.Updated(a.existing...)
	}
	out.Existing = a.existing
	out.Moved = a.moved
	out.DeletedIDs = a.deleted
	return out
}

func conflictOutcome(b scheduler.ConflictBatch) scheduler.Outcome {
	report := b.Report
	return scheduler.Outcome{
		Kind:        scheduler.OutcomeConflictPending,
		Conflict:    &report,
		Resolutions: slices.Clone(scheduler.CanonicalResolutions),
		BatchIndex:  b.Index,
		BatchSize:   len(b.Items),
	}
}

// scheduleOptions turns a planned move into an update of the stored task.
func scheduleOptions(item scheduler.BatchItem) repository.UpdateOptions {
	c := item.Candidate
	date := c.Date
	opt := repository.UpdateOptions{
		Title:       &c.Title,
		Description: &c.Description,
		Date:        &date,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		ClearTime:   c.StartTime == nil,
		ClearEnd:    c.EndTime == nil,
	}
	if c.Priority != "" {
		opt.Priority = &c.Priority
	}
	if item.Status != "" {
		status := item.Status
		opt.Status = &status
	}
	return opt
}

// unwrittenIDs returns the stored tasks the items will move; their current slots do not count.
func unwrittenIDs(items []scheduler.BatchItem) []string {
	var out []string
	for _, it := range items {
		if it.TaskID != "" {
			out = append(out, it.TaskID)
		}
	}
	return out
}
