package usecase

import (
	"context"
	"fmt"
	"time"

	"scheduling-assistant/internal/conversation"
	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/scheduler"
	"scheduling-assistant/internal/task/repository"
)

// remove deletes one task, the last group, or every task a date/keyword selector matches.
func (uc *implUseCase) remove(ctx context.Context, c conversation.Context, in scheduler.Intent, now time.Time) (result, error) {
	var (
		tasks     []model.Task
		reference string
	)

	selector := !in.Has(scheduler.SlotTaskID) && in.ReferencePhrase == "" &&
		(in.Has(scheduler.SlotDate) || in.Has(scheduler.SlotKeyword))

	switch {
	case in.Flag(scheduler.SlotAll) || selector:
		date, err := uc.resolveDate(in, scheduler.SlotDate, now)
		if err != nil {
			return result{}, err
		}
		keyword := in.Field(scheduler.SlotKeyword)
		tasks, err = uc.selectOnDay(ctx, date, keyword)
		if err != nil {
			return result{}, err
		}
		reference = selectorLabel(date, keyword)

	default:
		set, plural, err := uc.targetSet(ctx, c, in)
		if err != nil {
			return result{}, err
		}
		if plural {
			tasks, reference = set, in.ReferencePhrase
			break
		}
		t, err := uc.target(ctx, c, in)
		if err != nil {
			return result{}, err
		}
		tasks, reference = []model.Task{t}, referencePhrase(in)
	}

	var deleted []string
	err := uc.repo.Atomic(ctx, func(ctx context.Context, tx repository.Repository) error {
		deleted = deleted[:0]
		for _, t := range tasks {
			ok, err := tx.Delete(ctx, t.ID)
			if err != nil {
				return err
			}
			if ok {
				deleted = append(deleted, t.ID)
			}
		}
		return nil
	})
	if err != nil {
		return result{}, err
	}
	if len(deleted) == 0 {
		return result{}, notFound(reference)
	}
	return result{outcome: scheduler.Deleted(deleted...)}, nil
}

func selectorLabel(date *time.Time, keyword string) string {
	switch {
	case date != nil && keyword != "":
		return keyword + " " + fmt.Sprintf(ReasonNoMatchOnDay, date.Format(optionDateLayout))
	case date != nil:
		return fmt.Sprintf(ReasonNoMatchOnDay, date.Format(optionDateLayout))
	case keyword != "":
		return keyword
	}
	return ReasonNoMatchAnywhere
}
