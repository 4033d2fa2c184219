package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scheduling-assistant/internal/conversation"
	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/scheduler"
	"scheduling-assistant/internal/task/repository"
	"scheduling-assistant/pkg/datemath"
)

// changes is everything an update or reschedule intent asks for.
type changes struct {
	date        *time.Time
	start       *model.Clock
	end         *model.Clock
	duration    time.Duration
	shiftDays   int
	title       *string
	description *string
	status      *model.TaskStatus
	priority    *model.Priority
}

func (ch changes) schedule() bool {
	return ch.date != nil || ch.start != nil || ch.end != nil || ch.duration > 0 || ch.shiftDays != 0
}

func (ch changes) empty() bool {
	return !ch.schedule() && ch.title == nil && ch.description == nil && ch.status == nil && ch.priority == nil
}

func (uc *implUseCase) readChanges(in scheduler.Intent, now time.Time) (changes, error) {
	var ch changes
	var err error

	if ch.date, err = uc.firstDate(in, now, scheduler.SlotNewDate, scheduler.SlotDate); err != nil {
		return changes{}, err
	}
	if ch.start, err = firstTime(in, scheduler.SlotNewTime, scheduler.SlotStartTime); err != nil {
		return changes{}, err
	}
	if ch.end, err = resolveTime(in, scheduler.SlotEndTime); err != nil {
		return changes{}, err
	}
	if ch.duration, err = resolveDuration(in, scheduler.SlotDuration); err != nil {
		return changes{}, err
	}
	if in.Has(scheduler.SlotShift) {
		days, err := datemath.ParseDayOffset(in.Field(scheduler.SlotShift))
		if err != nil {
			return changes{}, failf("%s.", capitalize(err.Error()))
		}
		ch.shiftDays = days
	}
	if ch.status, err = resolveStatus(in); err != nil {
		return changes{}, err
	}
	if ch.priority, err = resolvePriority(in); err != nil {
		return changes{}, err
	}
	if in.Has(scheduler.SlotTitle) {
		title := in.Field(scheduler.SlotTitle)
		ch.title = &title
	}
	if in.Has(scheduler.SlotDescription) {
		desc := in.Field(scheduler.SlotDescription)
		ch.description = &desc
	}
	return ch, nil
}

// modify handles update and reschedule. Schedule changes go through the conflict check;
// everything else is written directly.
func (uc *implUseCase) modify(ctx context.Context, c conversation.Context, in scheduler.Intent, now time.Time) (result, error) {
	tasks, plural, err := uc.targetSet(ctx, c, in)
	if err != nil {
		return result{}, err
	}
	if plural {
		return uc.modifySet(ctx, in, tasks, now)
	}

	t, err := uc.target(ctx, c, in)
	if err != nil {
		return result{}, err
	}
	ch, err := uc.readChanges(in, now)
	if err != nil {
		return result{}, err
	}

	if in.Operation == scheduler.OpReschedule && !ch.schedule() {
		return result{}, clarifyWith(in.WithReference(t.ID), scheduler.SlotNewDate, fmt.Sprintf(QuestionNewSlot, t.Title))
	}
	if ch.empty() {
		return result{}, failf(ReasonNothingToChange, t.Title)
	}

	reopened := ch.status != nil && *ch.status != model.TaskStatusCancelled && t.Status == model.TaskStatusCancelled
	if ch.schedule() || reopened {
		item, err := plannedChange(t, ch, now)
		if err != nil {
			return result{}, err
		}
		return uc.run(ctx, scheduler.ConflictBatch{Operation: in.Operation, Items: []scheduler.BatchItem{item}})
	}

	updated, err := uc.repo.Update(ctx, t.ID, repository.UpdateOptions{
		Title:       ch.title,
		Description: ch.description,
		Status:      ch.status,
		Priority:    ch.priority,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return result{}, notFound(t.ID)
	}
	if err != nil {
		return result{}, err
	}
	return result{outcome: scheduler.Updated(updated)}, nil
}

// plannedChange builds the batch item moving t according to ch.
func plannedChange(t model.Task, ch changes, now time.Time) (scheduler.BatchItem, error) {
	c := model.CandidateFromTask(t)
	date := t.Date
	if ch.date != nil {
		date = *ch.date
	}
	date = date.AddDate(0, 0, ch.shiftDays)
	c = withSchedule(c, date, ch.start)

	switch {
	case ch.end != nil:
		if c.StartTime == nil {
			return scheduler.BatchItem{}, failf(ReasonEndWithoutStart)
		}
		c.EndTime = ch.end
	case ch.duration > 0:
		if c.StartTime == nil {
			return scheduler.BatchItem{}, failf(ReasonEndWithoutStart)
		}
		c.EndTime = c.StartTime.Add(ch.duration).Ptr()
	}
	if ch.title != nil {
		c.Title = *ch.title
	}
	if ch.description != nil {
		c.Description = *ch.description
	}
	if ch.priority != nil {
		c.Priority = *ch.priority
	}
	if err := validateCandidate(c, now); err != nil {
		return scheduler.BatchItem{}, err
	}

	item := scheduler.BatchItem{TaskID: t.ID, Candidate: c}
	if ch.status != nil {
		item.Status = *ch.status
	}
	return item, nil
}

// modifySet applies one change to a group of tasks. Groups move by whole days only.
func (uc *implUseCase) modifySet(ctx context.Context, in scheduler.Intent, tasks []model.Task, now time.Time) (result, error) {
	ch, err := uc.readChanges(in, now)
	if err != nil {
		return result{}, err
	}
	if ch.start != nil || ch.end != nil || ch.duration > 0 {
		return result{}, failf(ReasonSetTimeChange)
	}
	if ch.empty() {
		return result{}, failf(ReasonNothingToChange, in.ReferencePhrase)
	}

	if ch.schedule() {
		days := ch.shiftDays
		if ch.date != nil {
			days += daysBetween(earliest(tasks), *ch.date)
		}
		return uc.run(ctx, scheduler.ConflictBatch{Operation: in.Operation, Items: shiftItems(tasks, days, ch.status)})
	}

	var updated []model.Task
	err = uc.repo.Atomic(ctx, func(ctx context.Context, tx repository.Repository) error {
		updated = updated[:0]
		for _, t := range tasks {
			u, err := tx.Update(ctx, t.ID, repository.UpdateOptions{
				Title:       ch.title,
				Description: ch.description,
				Status:      ch.status,
				Priority:    ch.priority,
			})
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			updated = append(updated, u)
		}
		return nil
	})
	if err != nil {
		return result{}, err
	}
	if len(updated) == 0 {
		return result{}, notFound(in.ReferencePhrase)
	}
	return result{outcome: scheduler.Updated(updated...)}, nil
}
