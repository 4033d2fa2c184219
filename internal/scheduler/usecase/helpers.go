package usecase

import (
	"fmt"
	"strings"
	"time"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/scheduler"
	"scheduling-assistant/internal/task"
	"scheduling-assistant/pkg/datemath"
)

// interrupt ends a turn early with an outcome that is not a store failure:
// a clarification to ask, a failure to report, or a reference that matched nothing.
type interrupt struct {
	outcome scheduler.Outcome
	// stash replaces the current intent as the one a clarification answer completes
	stash *scheduler.Intent
}

func (i *interrupt) Error() string {
	if i.outcome.Clarification != nil {
		return "clarification needed: " + i.outcome.Clarification.Question
	}
	return string(i.outcome.Kind) + ": " + i.outcome.Reason
}

func clarify(slot, question string, options ...scheduler.Option) error {
	return &interrupt{outcome: scheduler.ClarificationNeeded(scheduler.Clarification{
		Slot:     slot,
		Question: question,
		Options:  options,
	})}
}

// clarifyWith asks a question whose answer completes stash instead of the current intent.
func clarifyWith(stash scheduler.Intent, slot, question string, options ...scheduler.Option) error {
	err := clarify(slot, question, options...).(*interrupt)
	err.stash = &stash
	return err
}

func failf(format string, args ...any) error {
	return &interrupt{outcome: scheduler.Failed(fmt.Sprintf(format, args...))}
}

func notFound(reference string) error {
	return &interrupt{outcome: scheduler.NotFound(reference)}
}

// result is what a handler produced: an outcome and, when halted on a conflict, the batch to keep.
type result struct {
	outcome scheduler.Outcome
	batch   *scheduler.ConflictBatch
}

// resolveDate resolves a date slot. A nil date with nil error means the slot was empty.
func (uc *implUseCase) resolveDate(in scheduler.Intent, slot string, now time.Time) (*time.Time, error) {
	raw := in.Field(slot)
	if raw == "" {
		return nil, nil
	}

	r := uc.dateMath.ResolveDate(raw, now)
	switch r.Kind {
	case datemath.Concrete:
		d := r.Date
		return &d, nil
	case datemath.Ambiguous:
		options := make([]scheduler.Option, 0, len(r.Candidates))
		for _, d := range r.Candidates {
			options = append(options, scheduler.Option{Label: d.Format(optionDateLayout), Value: d.Format(isoDateLayout)})
		}
		return nil, clarify(slot, fmt.Sprintf(QuestionWhichDate, raw), options...)
	}
	return nil, failf("%s.", capitalize(r.Reason))
}

// resolveTime resolves a time-of-day slot. A nil clock with nil error means the slot was empty.
func resolveTime(in scheduler.Intent, slot string) (*model.Clock, error) {
	raw := in.Field(slot)
	if raw == "" {
		return nil, nil
	}

	r := datemath.ResolveTime(raw)
	switch r.Kind {
	case datemath.Concrete:
		return model.Clock(r.Minutes).Ptr(), nil
	case datemath.Ambiguous:
		options := make([]scheduler.Option, 0, len(r.Candidates))
		for _, m := range r.Candidates {
			options = append(options, scheduler.Option{Label: clockLabel(model.Clock(m)), Value: model.Clock(m).String()})
		}
		return nil, clarify(slot, fmt.Sprintf(QuestionWhichTime, raw), options...)
	}
	return nil, failf("%s.", capitalize(r.Reason))
}

func resolveDuration(in scheduler.Intent, slot string) (time.Duration, error) {
	raw := in.Field(slot)
	if raw == "" {
		return 0, nil
	}
	d, err := datemath.ParseDuration(raw)
	if err != nil {
		return 0, failf("%s.", capitalize(err.Error()))
	}
	return d, nil
}

func resolveCount(in scheduler.Intent, slot string) (int, bool, error) {
	raw := in.Field(slot)
	if raw == "" {
		return 0, false, nil
	}
	n, ok := datemath.ParseNumber(raw)
	if !ok {
		return 0, false, failf(ReasonBadNumber, raw)
	}
	return n, true, nil
}

// resolveDayStep reads a day step such as "1", "2", "daily" or "weekly".
func resolveDayStep(in scheduler.Intent) (int, error) {
	switch strings.ToLower(in.Field(scheduler.SlotDayStep)) {
	case "daily", "every day":
		return 1, nil
	case "weekly", "every week":
		return 7, nil
	}
	n, _, err := resolveCount(in, scheduler.SlotDayStep)
	return n, err
}

func resolvePriority(in scheduler.Intent) (*model.Priority, error) {
	if !in.Has(scheduler.SlotPriority) {
		return nil, nil
	}
	p, ok := model.ParsePriority(in.Field(scheduler.SlotPriority))
	if !ok {
		return nil, failf(ReasonUnknownPriority, in.Field(scheduler.SlotPriority))
	}
	return &p, nil
}

func resolveStatus(in scheduler.Intent) (*model.TaskStatus, error) {
	if !in.Has(scheduler.SlotStatus) {
		return nil, nil
	}
	var s model.TaskStatus
	switch strings.ToLower(in.Field(scheduler.SlotStatus)) {
	case "pending", "todo", "open", "reopen", "not done":
		s = model.TaskStatusPending
	case "completed", "complete", "done", "finished":
		s = model.TaskStatusCompleted
	case "cancelled", "canceled", "cancel":
		s = model.TaskStatusCancelled
	default:
		return nil, failf(ReasonUnknownStatus, in.Field(scheduler.SlotStatus))
	}
	return &s, nil
}

// firstDate resolves the first non-empty slot among slots.
func (uc *implUseCase) firstDate(in scheduler.Intent, now time.Time, slots ...string) (*time.Time, error) {
	for _, slot := range slots {
		if in.Has(slot) {
			return uc.resolveDate(in, slot, now)
		}
	}
	return nil, nil
}

func firstTime(in scheduler.Intent, slots ...string) (*model.Clock, error) {
	for _, slot := range slots {
		if in.Has(slot) {
			return resolveTime(in, slot)
		}
	}
	return nil, nil
}

// validateCandidate applies the record invariants before any conflict check.
func validateCandidate(c model.Candidate, now time.Time) error {
	priority := c.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	return task.Validate(model.Task{
		Title:       c.Title,
		Description: c.Description,
		Date:        c.Date,
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		Status:      model.TaskStatusPending,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// withSchedule moves c to date/start, keeping its length. A nil start keeps the current start.
func withSchedule(c model.Candidate, date time.Time, start *model.Clock) model.Candidate {
	length := c.Duration()
	c.Date = date
	if start != nil {
		c.StartTime = start
		c.EndTime = nil
		if length > 0 {
			c.EndTime = start.Add(length).Ptr()
		}
	}
	return c
}

func taskLabel(t model.Task) string {
	label := fmt.Sprintf("%s (%s", t.Title, t.Date.Format(optionDateLayout))
	if t.StartTime != nil {
		label += ", " + t.StartTime.String()
	}
	return label + ")"
}

func clockLabel(c model.Clock) string {
	h := c.Hour() % 12
	if h == 0 {
		h = 12
	}
	suffix := "AM"
	if c.Hour() >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%s (%d:%02d %s)", c.String(), h, c.Minute(), suffix)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
