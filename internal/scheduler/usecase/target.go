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
)

const defaultReference = "it"

// target finds the single task an intent is about: an explicit task_id, or its reference phrase.
func (uc *implUseCase) target(ctx context.Context, c conversation.Context, in scheduler.Intent) (model.Task, error) {
	if id := in.Field(scheduler.SlotTaskID); id != "" {
		t, err := uc.repo.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return model.Task{}, notFound(id)
		}
		return t, err
	}

	phrase := referencePhrase(in)
	ref, err := c.ResolveReference(ctx, uc.repo, phrase)
	if err != nil {
		return model.Task{}, err
	}
	switch ref.Kind {
	case conversation.Resolved:
		return ref.Task, nil
	case conversation.Ambiguous:
		options := make([]scheduler.Option, 0, len(ref.Candidates))
		for _, t := range ref.Candidates {
			options = append(options, scheduler.Option{Label: taskLabel(t), Value: t.ID})
		}
		return model.Task{}, clarify(scheduler.SlotTaskID, fmt.Sprintf(QuestionWhichTask, phrase), options...)
	}
	return model.Task{}, notFound(phrase)
}

// targetSet returns the group a plural reference points at. ok is false when the reference is singular.
func (uc *implUseCase) targetSet(ctx context.Context, c conversation.Context, in scheduler.Intent) ([]model.Task, bool, error) {
	if in.Has(scheduler.SlotTaskID) || !conversation.IsPlural(in.ReferencePhrase) {
		return nil, false, nil
	}
	tasks, err := c.ResolveSet(ctx, uc.repo, in.ReferencePhrase)
	if err != nil {
		return nil, true, err
	}
	if len(tasks) == 0 {
		return nil, true, notFound(in.ReferencePhrase)
	}
	return tasks, true, nil
}

// selectOnDay returns the non-cancelled tasks on date, narrowed by keyword when given.
func (uc *implUseCase) selectOnDay(ctx context.Context, date *time.Time, keyword string) ([]model.Task, error) {
	opt := repository.QueryOptions{From: date, To: date}
	tasks, err := uc.repo.Query(ctx, opt)
	if err != nil {
		return nil, err
	}

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == model.TaskStatusCancelled {
			continue
		}
		if keyword != "" && !conversation.Matches(t, keyword) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func referencePhrase(in scheduler.Intent) string {
	if p := in.ReferencePhrase; p != "" {
		return p
	}
	return defaultReference
}

// shiftItems plans moving every task by days, keeping its times.
func shiftItems(tasks []model.Task, days int, status *model.TaskStatus) []scheduler.BatchItem {
	items := make([]scheduler.BatchItem, 0, len(tasks))
	for _, t := range tasks {
		c := model.CandidateFromTask(t)
		c.Date = t.Date.AddDate(0, 0, days)
		item := scheduler.BatchItem{TaskID: t.ID, Candidate: c}
		if status != nil {
			item.Status = *status
		}
		items = append(items, item)
	}
	return items
}

// daysBetween counts whole days from a to b; both are civil dates.
func daysBetween(a, b time.Time) int {
	return int(model.CivilDate(b).Sub(model.CivilDate(a)).Hours() / 24)
}

func earliest(tasks []model.Task) time.Time {
	first := tasks[0].Date
	for _, t := range tasks[1:] {
		if t.Date.Before(first) {
			first = t.Date
		}
	}
	return first
}
