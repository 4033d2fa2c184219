package usecase

import (
	"context"
	"strings"
	"time"

	"scheduling-assistant/internal/conversation"
	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/scheduler"
	"scheduling-assistant/pkg/datemath"
)

// dayShift moves every task of a day, or of the last group, by a number of days.
// Times are kept and the move is all-or-nothing.
func (uc *implUseCase) dayShift(ctx context.Context, c conversation.Context, in scheduler.Intent, now time.Time) (result, error) {
	var (
		tasks     []model.Task
		from      time.Time
		reference string
	)

	set, plural, err := uc.targetSet(ctx, c, in)
	if err != nil {
		return result{}, err
	}
	if plural {
		tasks, from, reference = set, earliest(set), in.ReferencePhrase
	} else {
		day, err := uc.firstDate(in, now, scheduler.SlotFromDate, scheduler.SlotDate)
		if err != nil {
			return result{}, err
		}
		if day == nil {
			return result{}, clarify(scheduler.SlotFromDate, QuestionShiftDay)
		}
		keyword := in.Field(scheduler.SlotKeyword)
		if tasks, err = uc.selectOnDay(ctx, day, keyword); err != nil {
			return result{}, err
		}
		from, reference = *day, selectorLabel(day, keyword)
	}

	if len(tasks) == 0 {
		return result{}, notFound(reference)
	}
	days, ok, err := uc.shiftDays(in, from, now)
	if err != nil {
		return result{}, err
	}
	if !ok {
		return result{}, clarify(scheduler.SlotShift, QuestionShiftBy)
	}
	if days == 0 {
		return result{}, failf(ReasonAlreadyThere, from.Format(optionDateLayout))
	}

	return uc.run(ctx, scheduler.ConflictBatch{
		Operation: scheduler.OpDayShift,
		Items:     shiftItems(tasks, days, nil),
	})
}

// shiftDays reads the offset from to_date relative to from, or from shift
// ("+7 days", or a target such as "to next monday").
func (uc *implUseCase) shiftDays(in scheduler.Intent, from, now time.Time) (int, bool, error) {
	to, err := uc.firstDate(in, now, scheduler.SlotToDate, scheduler.SlotNewDate)
	if err != nil {
		return 0, false, err
	}
	if to != nil {
		return daysBetween(from, *to), true, nil
	}

	raw := in.Field(scheduler.SlotShift)
	if raw == "" {
		return 0, false, nil
	}
	if days, err := datemath.ParseDayOffset(raw); err == nil {
		return days, true, nil
	}
	target := strings.TrimSpace(strings.TrimPrefix(strings.ToLower(raw), "to "))
	to, err = uc.resolveDate(in.With(scheduler.SlotToDate, target), scheduler.SlotToDate, now)
	if err != nil || to == nil {
		return 0, false, err
	}
	return daysBetween(from, *to), true, nil
}
