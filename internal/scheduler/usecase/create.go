package usecase

import (
	"context"
	"time"

	"scheduling-assistant/internal/bulk"
	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/scheduler"
)

// create schedules one new task.
func (uc *implUseCase) create(ctx context.Context, in scheduler.Intent, now time.Time) (result, error) {
	title := in.Field(scheduler.SlotTitle)
	if title == "" {
		return result{}, clarify(scheduler.SlotTitle, QuestionTitle)
	}

	date, err := uc.resolveDate(in, scheduler.SlotDate, now)
	if err != nil {
		return result{}, err
	}
	if date == nil {
		today := uc.dateMath.Today(now)
		date = &today
	}
	start, end, err := resolveSpan(in)
	if err != nil {
		return result{}, err
	}
	priority, err := resolvePriority(in)
	if err != nil {
		return result{}, err
	}

	c := model.Candidate{
		Title:       title,
		Description: in.Field(scheduler.SlotDescription),
		Date:        *date,
		StartTime:   start,
		EndTime:     end,
		Priority:    model.PriorityMedium,
	}
	if priority != nil {
		c.Priority = *priority
	}
	if err := validateCandidate(c, now); err != nil {
		return result{}, err
	}

	return uc.run(ctx, scheduler.ConflictBatch{
		Operation: scheduler.OpCreate,
		Items:     []scheduler.BatchItem{{Candidate: c}},
	})
}

// createBulk expands a repetition pattern and schedules every task, or none.
func (uc *implUseCase) createBulk(ctx context.Context, in scheduler.Intent, now time.Time) (result, error) {
	count, ok, err := resolveCount(in, scheduler.SlotCount)
	if err != nil {
		return result{}, err
	}
	if !ok {
		return result{}, clarify(scheduler.SlotCount, QuestionCount)
	}
	title := in.Field(scheduler.SlotTitle)
	if title == "" {
		return result{}, clarify(scheduler.SlotTitle, QuestionTitle)
	}

	date, err := uc.resolveDate(in, scheduler.SlotDate, now)
	if err != nil {
		return result{}, err
	}
	if date == nil {
		today := uc.dateMath.Today(now)
		date = &today
	}
	start, end, err := resolveSpan(in)
	if err != nil {
		return result{}, err
	}
	interval, err := resolveDuration(in, scheduler.SlotInterval)
	if err != nil {
		return result{}, err
	}
	dayStep, err := resolveDayStep(in)
	if err != nil {
		return result{}, err
	}
	priority, err := resolvePriority(in)
	if err != nil {
		return result{}, err
	}

	p := bulk.Pattern{
		Count:       count,
		Title:       title,
		Description: in.Field(scheduler.SlotDescription),
		Priority:    model.PriorityMedium,
		StartDate:   *date,
		FirstStart:  start,
		Interval:    interval,
		DayStep:     dayStep,
	}
	if priority != nil {
		p.Priority = *priority
	}
	if start != nil && end != nil {
		p.Duration = time.Duration(*end-*start) * time.Minute
	}

	candidates, err := bulk.Expand(p, uc.maxBulk)
	if err != nil {
		return result{}, failf(ReasonBulkInvalid, err)
	}

	items := make([]scheduler.BatchItem, 0, len(candidates))
	for _, c := range candidates {
		if err := validateCandidate(c, now); err != nil {
			return result{}, err
		}
		items = append(items, scheduler.BatchItem{Candidate: c})
	}
	return uc.run(ctx, scheduler.ConflictBatch{Operation: scheduler.OpCreateBulk, Items: items})
}

// resolveSpan reads start_time with either end_time or duration.
func resolveSpan(in scheduler.Intent) (*model.Clock, *model.Clock, error) {
	start, err := resolveTime(in, scheduler.SlotStartTime)
	if err != nil {
		return nil, nil, err
	}
	end, err := resolveTime(in, scheduler.SlotEndTime)
	if err != nil {
		return nil, nil, err
	}
	d, err := resolveDuration(in, scheduler.SlotDuration)
	if err != nil {
		return nil, nil, err
	}

	if start == nil {
		if end != nil || d > 0 {
			return nil, nil, failf(ReasonEndWithoutStart)
		}
		return nil, nil, nil
	}
	if end == nil && d > 0 {
		end = start.Add(d).Ptr()
	}
	return start, end, nil
}
