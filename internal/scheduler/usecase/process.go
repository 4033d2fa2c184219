package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"scheduling-assistant/internal/conversation"
	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/scheduler"
	"scheduling-assistant/internal/task"
	"scheduling-assistant/pkg/datemath"
	pkgLog "scheduling-assistant/pkg/log"
)

// ProcessTurn runs one intent against the session named by sc.
func (uc *implUseCase) ProcessTurn(ctx context.Context, sc model.Scope, input scheduler.TurnInput) (scheduler.TurnOutput, error) {
	if sc.SessionID == "" {
		return scheduler.TurnOutput{}, scheduler.ErrMissingSessionID
	}
	if !input.Intent.Operation.Valid() {
		return scheduler.TurnOutput{}, fmt.Errorf("%w: %q", scheduler.ErrUnknownOperation, input.Intent.Operation)
	}
	ctx = context.WithValue(ctx, pkgLog.SessionIDKey, sc.SessionID)

	sess := uc.sessions.Acquire(sc.SessionID)
	defer uc.sessions.Release(sess)
	sess.Lock()
	defer sess.Unlock()

	now := uc.now()
	current := sess.Context()
	next, out, err := uc.handle(ctx, current, input.Intent, now)
	if err != nil {
		uc.l.Errorf(ctx, "%s: %s: %v", LogPrefixProcessTurn, input.Intent.Operation, err)
		failed := scheduler.Failed(ReasonStoreUnavailable)
		failed.Retryable = true
		return scheduler.TurnOutput{State: current.State(), Outcome: failed},
			fmt.Errorf("%w: %v", scheduler.ErrStoreUnavailable, err)
	}

	next = next.RecordTurn(input.UserText, input.Intent, out, now)
	uc.sessions.Commit(sess, next)
	uc.l.Debugf(ctx, "%s: %s -> %s (state %s)", LogPrefixProcessTurn, input.Intent.Operation, out.Kind, next.State())

	uc.notify(ctx, out)
	return scheduler.TurnOutput{State: next.State(), Outcome: out}, nil
}

// Session returns a snapshot of a live session.
func (uc *implUseCase) Session(ctx context.Context, sc model.Scope) (scheduler.SessionSnapshot, error) {
	if sc.SessionID == "" {
		return scheduler.SessionSnapshot{}, scheduler.ErrMissingSessionID
	}
	c, ok := uc.sessions.Peek(sc.SessionID)
	if !ok {
		return scheduler.SessionSnapshot{}, scheduler.ErrSessionNotFound
	}
	return c.Snapshot(), nil
}

// EndSession forgets a session.
func (uc *implUseCase) EndSession(ctx context.Context, sc model.Scope) error {
	if sc.SessionID == "" {
		return scheduler.ErrMissingSessionID
	}
	if !uc.sessions.End(sc.SessionID) {
		return scheduler.ErrSessionNotFound
	}
	uc.l.Infof(context.WithValue(ctx, pkgLog.SessionIDKey, sc.SessionID), "%s: session ended", LogPrefixProcessTurn)
	return nil
}

// handle computes the outcome of one intent and the context it leaves behind.
// An error is always a store failure.
func (uc *implUseCase) handle(ctx context.Context, c conversation.Context, in scheduler.Intent, now time.Time) (conversation.Context, scheduler.Outcome, error) {
	// A pending question is answered or abandoned by this turn, never kept.
	if p, ok, rest := c.ConsumePendingClarification(); ok {
		c = rest
		if in.Operation == scheduler.OpClarificationAnswer {
			merged, ok := uc.mergeAnswer(p, in, now)
			if !ok {
				q := p.Clarification
				if !strings.HasPrefix(q.Question, QuestionRetryPrefix) {
					q.Question = QuestionRetryPrefix + q.Question
				}
				return c.SetPendingClarification(q, p.Stashed), scheduler.ClarificationNeeded(q), nil
			}
			in = merged
		} else {
			uc.l.Infof(ctx, "%s: clarification for %q abandoned by %s", LogPrefixProcessTurn, p.Clarification.Slot, in.Operation)
		}
	}

	if b, ok, rest := c.ConsumePendingConflict(); ok {
		c = rest
		switch in.Operation {
		case scheduler.OpConflictDecision, scheduler.OpClarificationAnswer:
			d, ok := scheduler.ParseDecision(firstField(in, scheduler.SlotDecision, scheduler.SlotAnswer))
			if !ok {
				out := conflictOutcome(b)
				out.Reason = QuestionPickDecision
				return c.SetPendingConflict(b), out, nil
			}
			return uc.decide(ctx, c, b, d, in, now)
		default:
			uc.l.Infof(ctx, "%s: pending %s batch abandoned by %s", LogPrefixProcessTurn, b.Operation, in.Operation)
		}
	}

	switch in.Operation {
	case scheduler.OpClarificationAnswer:
		return c, scheduler.Failed(ReasonNothingToAnswer), nil
	case scheduler.OpConflictDecision:
		return c, scheduler.Failed(ReasonNoPendingConflict), nil
	}

	res, err := uc.dispatch(ctx, c, in, now)
	if out, ok := asOutcome(err); ok {
		if out.Clarification != nil {
			stash := in
			var intr *interrupt
			if errors.As(err, &intr) && intr.stash != nil {
				stash = *intr.stash
			}
			return c.SetPendingClarification(*out.Clarification, stash), out, nil
		}
		return c, out, nil
	}
	if err != nil {
		return c, scheduler.Outcome{}, err
	}
	if res.batch != nil {
		c = c.SetPendingConflict(*res.batch)
	}
	return c, res.outcome, nil
}

func (uc *implUseCase) dispatch(ctx context.Context, c conversation.Context, in scheduler.Intent, now time.Time) (result, error) {
	switch in.Operation {
	case scheduler.OpCreate:
		return uc.create(ctx, in, now)
	case scheduler.OpCreateBulk:
		return uc.createBulk(ctx, in, now)
	case scheduler.OpUpdate, scheduler.OpReschedule:
		return uc.modify(ctx, c, in, now)
	case scheduler.OpDelete:
		return uc.remove(ctx, c, in, now)
	case scheduler.OpDayShift:
		return uc.dayShift(ctx, c, in, now)
	case scheduler.OpQuery:
		return uc.query(ctx, c, in, now)
	}
	return result{}, fmt.Errorf("%w: %q", scheduler.ErrUnknownOperation, in.Operation)
}

// asOutcome converts an early exit of a handler into the outcome it carries.
// Validation failures are reported verbatim.
func asOutcome(err error) (scheduler.Outcome, bool) {
	var intr *interrupt
	if errors.As(err, &intr) {
		return intr.outcome, true
	}
	if task.IsValidation(err) {
		return scheduler.Failed(capitalize(err.Error()) + "."), true
	}
	return scheduler.Outcome{}, false
}

// mergeAnswer completes the stashed intent with the user's answer.
// It reports false when the answer cannot fill the slot.
func (uc *implUseCase) mergeAnswer(p conversation.Pending, in scheduler.Intent, now time.Time) (scheduler.Intent, bool) {
	q := p.Clarification
	answer := firstField(in, scheduler.SlotAnswer, q.Slot)
	if answer == "" {
		return scheduler.Intent{}, false
	}

	merged := p.Stashed
	for k, v := range in.Fields {
		if k == scheduler.SlotAnswer || k == q.Slot || strings.TrimSpace(v) == "" {
			continue
		}
		merged = merged.With(k, v)
	}

	value := answer
	if len(q.Options) > 0 {
		opt, ok := matchOption(q.Options, answer)
		switch {
		case ok:
			value = opt.Value
		case uc.resolvesAs(q.Slot, answer, now):
			// a fresh concrete phrase such as "9pm" instead of one of the offered options
		default:
			return scheduler.Intent{}, false
		}
	}

	if q.Slot == scheduler.SlotTaskID {
		return merged.WithReference(value), true
	}
	if q.Slot == scheduler.SlotNewDate && len(q.Options) == 0 {
		// "when should I move it" may be answered with just a time
		if uc.dateMath.ResolveDate(value, now).Kind == datemath.Invalid &&
			datemath.ResolveTime(value).Kind != datemath.Invalid {
			return merged.With(scheduler.SlotNewTime, value), true
		}
	}
	return merged.With(q.Slot, value), true
}

// resolvesAs reports whether answer is a concrete value for a date or time slot.
func (uc *implUseCase) resolvesAs(slot, answer string, now time.Time) bool {
	switch slot {
	case scheduler.SlotDate, scheduler.SlotNewDate, scheduler.SlotFromDate, scheduler.SlotToDate,
		scheduler.SlotDateFrom, scheduler.SlotDateTo:
		return uc.dateMath.ResolveDate(answer, now).Kind == datemath.Concrete
	case scheduler.SlotStartTime, scheduler.SlotEndTime, scheduler.SlotNewTime:
		return datemath.ResolveTime(answer).Kind == datemath.Concrete
	}
	return false
}

// matchOption accepts an option value, its label, its 1-based position,
// or a fragment found in exactly one label.
func matchOption(options []scheduler.Option, answer string) (scheduler.Option, bool) {
	a := strings.ToLower(strings.TrimSpace(answer))
	for _, o := range options {
		if strings.ToLower(o.Value) == a || strings.ToLower(o.Label) == a {
			return o, true
		}
	}
	if n, err := strconv.Atoi(strings.TrimSuffix(a, ".")); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], true
	}

	var hit []scheduler.Option
	for _, o := range options {
		if strings.Contains(strings.ToLower(o.Label), a) {
			hit = append(hit, o)
		}
	}
	if len(hit) == 1 {
		return hit[0], true
	}
	return scheduler.Option{}, false
}

func firstField(in scheduler.Intent, slots ...string) string {
	for _, s := range slots {
		if v := in.Field(s); v != "" {
			return v
		}
	}
	return ""
}

// notify hands committed changes to the mirror.
func (uc *implUseCase) notify(ctx context.Context, out scheduler.Outcome) {
	if uc.mirror == nil {
		return
	}

	var upserted []model.Task
	switch out.Kind {
	case scheduler.OutcomeCreated, scheduler.OutcomeUpdated:
		if !out.IsDuplicate() {
			upserted = append(upserted, out.Tasks...)
		}
	}
	upserted = append(upserted, out.Moved...)
	if len(upserted) == 0 && len(out.DeletedIDs) == 0 {
		return
	}
	uc.mirror.TasksChanged(ctx, upserted, out.DeletedIDs)
}
