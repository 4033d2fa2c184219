package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"scheduling-assistant/internal/conflict"
	"scheduling-assistant/internal/conversation"
	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/scheduler"
)

// decide applies d to the halted batch b and re-runs the whole batch.
// A decision that cannot be carried out leaves b pending with a reason.
func (uc *implUseCase) decide(ctx context.Context, c conversation.Context, b scheduler.ConflictBatch, d scheduler.Decision, in scheduler.Intent, now time.Time) (conversation.Context, scheduler.Outcome, error) {
	uc.l.Infof(ctx, "%s: %s on item %d/%d of %s", LogPrefixDecide, d, b.Index+1, len(b.Items), b.Operation)

	if d == scheduler.DecisionCancel {
		return c, scheduler.Failed(ReasonCancelled), nil
	}

	reoffer := func(out scheduler.Outcome) (conversation.Context, scheduler.Outcome, error) {
		pending := conflictOutcome(b)
		pending.Reason = out.Reason
		if out.Clarification != nil {
			pending.Reason = out.Clarification.Question
		}
		return c.SetPendingConflict(b), pending, nil
	}

	next, err := uc.resolveBatch(ctx, b, d, in, now)
	if out, ok := asOutcome(err); ok {
		return reoffer(out)
	}
	if err != nil {
		return c, scheduler.Outcome{}, err
	}

	res, err := uc.run(ctx, next)
	if out, ok := asOutcome(err); ok {
		return reoffer(out)
	}
	if err != nil {
		return c, scheduler.Outcome{}, err
	}
	if res.batch != nil {
		c = c.SetPendingConflict(*res.batch)
	}
	return c, res.outcome, nil
}

// resolveBatch returns b with the decision for its current item folded in.
func (uc *implUseCase) resolveBatch(ctx context.Context, b scheduler.ConflictBatch, d scheduler.Decision, in scheduler.Intent, now time.Time) (scheduler.ConflictBatch, error) {
	next := b.Clone()
	cur := b.Current()

	switch d {
	case scheduler.DecisionReplace:
		for _, t := range b.Report.Colliding {
			if !slices.Contains(next.RemoveIDs, t.ID) {
				next.RemoveIDs = append(next.RemoveIDs, t.ID)
			}
			next.Moves = slices.DeleteFunc(next.Moves, func(m scheduler.BatchItem) bool { return m.TaskID == t.ID })
		}
		return next, nil

	case scheduler.DecisionRescheduleNew:
		moved, err := uc.rescheduleNew(ctx, b, in, now)
		if err != nil {
			return scheduler.ConflictBatch{}, err
		}
		next.Items[next.Index].Candidate = moved
		return next, nil

	case scheduler.DecisionMoveExisting:
		inBatch := batchIDs(b)
		var movable []model.Task
		for _, t := range b.Report.Colliding {
			if !slices.Contains(inBatch, t.ID) {
				movable = append(movable, t)
			}
		}
		if len(movable) == 0 {
			return scheduler.ConflictBatch{}, failf(ReasonNoFreeSlot, cur.Candidate.Date.Format(optionDateLayout), cur.Candidate.Title)
		}

		// the current item keeps its slot
		planned := plannedIntervals(next, cur.Candidate.Date)
		planned = append(planned, cur.Candidate.Interval())
		for _, t := range movable {
			target, err := uc.moveTarget(ctx, next, t, cur.Candidate, planned, in, now)
			if err != nil {
				return scheduler.ConflictBatch{}, err
			}
			next.Moves = slices.DeleteFunc(next.Moves, func(m scheduler.BatchItem) bool { return m.TaskID == t.ID })
			next.Moves = append(next.Moves, scheduler.BatchItem{TaskID: t.ID, Candidate: target})
			if model.SameDate(target.Date, cur.Candidate.Date) {
				planned = append(planned, target.Interval())
			}
		}
		return next, nil
	}
	return scheduler.ConflictBatch{}, fmt.Errorf("unsupported decision %q", d)
}

// rescheduleNew picks the new slot of the current item: the one the user named,
// or the first free one after its requested start with the same length.
func (uc *implUseCase) rescheduleNew(ctx context.Context, b scheduler.ConflictBatch, in scheduler.Intent, now time.Time) (model.Candidate, error) {
	cur := b.Current().Candidate

	date, err := uc.firstDate(in, now, scheduler.SlotNewDate, scheduler.SlotDate)
	if err != nil {
		return model.Candidate{}, err
	}
	start, err := firstTime(in, scheduler.SlotNewTime, scheduler.SlotStartTime)
	if err != nil {
		return model.Candidate{}, err
	}
	if date != nil || start != nil {
		d := cur.Date
		if date != nil {
			d = *date
		}
		moved := withSchedule(cur, d, start)
		if err := validateCandidate(moved, now); err != nil {
			return model.Candidate{}, err
		}
		return moved, nil
	}

	if cur.StartTime == nil {
		return withSchedule(cur, cur.Date.AddDate(0, 0, 1), nil), nil
	}
	slot, ok, err := uc.freeSlot(ctx, b, cur.Date, *cur.StartTime, cur.Duration(), plannedIntervals(b, cur.Date))
	if err != nil {
		return model.Candidate{}, err
	}
	if !ok {
		return model.Candidate{}, failf(ReasonNoFreeSlot, cur.Date.Format(optionDateLayout), cur.Title)
	}
	return withSchedule(cur, cur.Date, &slot), nil
}

// moveTarget picks where an existing task t goes so the candidate can take its place.
func (uc *implUseCase) moveTarget(ctx context.Context, b scheduler.ConflictBatch, t model.Task, candidate model.Candidate, planned []model.Interval, in scheduler.Intent, now time.Time) (model.Candidate, error) {
	existing := model.CandidateFromTask(t)

	date, err := uc.firstDate(in, now, scheduler.SlotNewDate)
	if err != nil {
		return model.Candidate{}, err
	}
	start, err := firstTime(in, scheduler.SlotNewTime)
	if err != nil {
		return model.Candidate{}, err
	}
	if date != nil || start != nil {
		d := t.Date
		if date != nil {
			d = *date
		}
		moved := withSchedule(existing, d, start)
		if err := validateCandidate(moved, now); err != nil {
			return model.Candidate{}, err
		}
		return moved, nil
	}

	if t.AllDay() {
		return withSchedule(existing, t.Date.AddDate(0, 0, 1), nil), nil
	}
	from := candidate.Interval().End
	if from >= model.MinutesPerDay {
		return model.Candidate{}, failf(ReasonNoFreeSlot, t.Date.Format(optionDateLayout), t.Title)
	}
	slot, ok, err := uc.freeSlot(ctx, b, t.Date, from, existing.Duration(), planned, t.ID)
	if err != nil {
		return model.Candidate{}, err
	}
	if !ok {
		return model.Candidate{}, failf(ReasonNoFreeSlot, t.Date.Format(optionDateLayout), t.Title)
	}
	return withSchedule(existing, t.Date, &slot), nil
}

// freeSlot finds a slot that is free both in the store and among the batch's own planned writes.
// Tasks the batch removes or moves do not block.
func (uc *implUseCase) freeSlot(ctx context.Context, b scheduler.ConflictBatch, date time.Time, from model.Clock, d time.Duration, planned []model.Interval, excludeIDs ...string) (model.Clock, bool, error) {
	exclude := append(slices.Clone(excludeIDs), batchIDs(b)...)
	exclude = append(exclude, b.RemoveIDs...)

	length := model.Clock(d / time.Minute)
	if length < 1 {
		length = 1
	}
	for from < model.MinutesPerDay {
		slot, ok, err := conflict.NextFreeSlot(ctx, uc.repo, date, from, d, exclude...)
		if err != nil || !ok {
			return 0, ok, err
		}
		span := model.Interval{Start: slot, End: slot + length}
		blocked := false
		for _, p := range planned {
			if span.Overlaps(p) {
				from = p.End
				blocked = true
				break
			}
		}
		if !blocked {
			return slot, true, nil
		}
	}
	return 0, false, nil
}

// plannedIntervals returns the spans on date the batch will occupy before its current item:
// cleared items ahead of it and moved tasks.
func plannedIntervals(b scheduler.ConflictBatch, date time.Time) []model.Interval {
	var out []model.Interval
	for _, it := range b.Items[:b.Index] {
		if model.SameDate(it.Candidate.Date, date) {
			out = append(out, it.Candidate.Interval())
		}
	}
	for _, m := range b.Moves {
		if model.SameDate(m.Candidate.Date, date) {
			out = append(out, m.Candidate.Interval())
		}
	}
	return out
}

// batchIDs returns the stored tasks the batch writes to.
func batchIDs(b scheduler.ConflictBatch) []string {
	out := unwrittenIDs(b.Items)
	for _, m := range b.Moves {
		out = append(out, m.TaskID)
	}
	return out
}
