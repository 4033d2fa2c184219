package usecase

import (
	"context"
	"time"

	"scheduling-assistant/internal/conversation"
	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/scheduler"
	"scheduling-assistant/internal/task/repository"
)

// query looks tasks up by reference or by filters. Without any filter it lists today.
func (uc *implUseCase) query(ctx context.Context, c conversation.Context, in scheduler.Intent, now time.Time) (result, error) {
	set, plural, err := uc.targetSet(ctx, c, in)
	if err != nil {
		return result{}, err
	}
	if plural {
		return result{outcome: scheduler.Found(set)}, nil
	}
	if in.Has(scheduler.SlotTaskID) || in.ReferencePhrase != "" {
		t, err := uc.target(ctx, c, in)
		if err != nil {
			return result{}, err
		}
		return result{outcome: scheduler.Found([]model.Task{t})}, nil
	}

	var (
		opt repository.QueryOptions
		day *time.Time
	)
	if day, err = uc.resolveDate(in, scheduler.SlotDate, now); err != nil {
		return result{}, err
	}
	if day != nil {
		opt.From, opt.To = day, day
	} else {
		if opt.From, err = uc.resolveDate(in, scheduler.SlotDateFrom, now); err != nil {
			return result{}, err
		}
		if opt.To, err = uc.resolveDate(in, scheduler.SlotDateTo, now); err != nil {
			return result{}, err
		}
	}
	status, err := resolveStatus(in)
	if err != nil {
		return result{}, err
	}
	if status != nil {
		opt.Status = *status
	}
	opt.Text = firstField(in, scheduler.SlotText, scheduler.SlotKeyword)

	if opt.From == nil && opt.To == nil && opt.Status == "" && opt.Text == "" {
		today := uc.dateMath.Today(now)
		day = &today
		opt.From, opt.To = day, day
	}

	tasks, err := uc.repo.Query(ctx, opt)
	if err != nil {
		return result{}, err
	}
	out := scheduler.Found(tasks)
	out.Day = day
	return result{outcome: out}, nil
}
