// Package composer renders engine outcomes as text for the user.
package composer

import (
	"fmt"
	"strings"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/scheduler"
)

const dateLayout = "Mon, Jan 2 2006"

var resolutionText = map[scheduler.Decision]string{
	scheduler.DecisionReplace:       "Replace the existing task",
	scheduler.DecisionRescheduleNew: "Reschedule the new task",
	scheduler.DecisionMoveExisting:  "Move the existing task",
}

// Compose renders out as a reply.
func Compose(out scheduler.Outcome) string {
	var sb strings.Builder

	switch out.Kind {
	case scheduler.OutcomeCreated:
		sb.WriteString(fmt.Sprintf("Created %s:\n", plural(len(out.Tasks), "task")))
		writeTasks(&sb, out.Tasks)
		writeSideEffects(&sb, out)

	case scheduler.OutcomeUpdated:
		if out.IsDuplicate() {
			sb.WriteString("Already on your schedule, nothing changed:\n")
			writeTasks(&sb, out.Existing)
			break
		}
		sb.WriteString(fmt.Sprintf("Updated %s:\n", plural(len(out.Tasks), "task")))
		writeTasks(&sb, out.Tasks)
		writeSideEffects(&sb, out)

	case scheduler.OutcomeDeleted:
		sb.WriteString(fmt.Sprintf("Deleted %s.", plural(len(out.DeletedIDs), "task")))

	case scheduler.OutcomeConflictPending:
		writeConflict(&sb, out)

	case scheduler.OutcomeClarificationNeeded:
		q := out.Clarification
		sb.WriteString(q.Question)
		for i, o := range q.Options {
			sb.WriteString(fmt.Sprintf("\n%d. %s", i+1, o.Label))
		}

	case scheduler.OutcomeNotFound:
		sb.WriteString(fmt.Sprintf("I could not find %s.", out.Reference))

	case scheduler.OutcomeFailed:
		sb.WriteString(out.Reason)

	case scheduler.OutcomeFound:
		writeFound(&sb, out)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeSideEffects(sb *strings.Builder, out scheduler.Outcome) {
	if len(out.Existing) > 0 {
		sb.WriteString("Already scheduled, left as is:\n")
		writeTasks(sb, out.Existing)
	}
	if len(out.Moved) > 0 {
		sb.WriteString("Moved to make room:\n")
		writeTasks(sb, out.Moved)
	}
	if len(out.DeletedIDs) > 0 {
		sb.WriteString(fmt.Sprintf("Replaced %s.\n", plural(len(out.DeletedIDs), "task")))
	}
}

func writeConflict(sb *strings.Builder, out scheduler.Outcome) {
	if out.Reason != "" {
		sb.WriteString(out.Reason + "\n\n")
	}
	report := out.Conflict
	c := report.Candidate
	sb.WriteString(fmt.Sprintf("%q on %s at %s overlaps with:\n", c.Title, c.Date.Format(dateLayout), span(c.StartTime, c.EndTime)))
	writeTasks(sb, report.Colliding)
	if out.BatchSize > 1 {
		sb.WriteString(fmt.Sprintf("(task %d of %d in this request)\n", out.BatchIndex+1, out.BatchSize))
	}

	sb.WriteString("\nWhat would you like to do?\n")
	for i, d := range out.Resolutions {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, resolutionText[d]))
	}
	sb.WriteString("Or say cancel to leave everything as it is.")
}

func writeFound(sb *strings.Builder, out scheduler.Outcome) {
	if out.Day != nil {
		day := out.Day.Format(dateLayout)
		if len(out.Tasks) == 0 {
			sb.WriteString(fmt.Sprintf("Nothing scheduled for %s. You're free!", day))
			return
		}
		sb.WriteString(fmt.Sprintf("Your schedule for %s (%s):\n", day, plural(len(out.Tasks), "task")))
		writeTasks(sb, out.Tasks)
		sb.WriteString("\n" + Availability(out.Tasks).String())
		return
	}

	if len(out.Tasks) == 0 {
		sb.WriteString("No matching tasks.")
		return
	}
	sb.WriteString(fmt.Sprintf("Found %s:\n", plural(len(out.Tasks), "task")))
	writeTasks(sb, out.Tasks)
}

func writeTasks(sb *strings.Builder, tasks []model.Task) {
	for i, t := range tasks {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, TaskLine(t)))
	}
}

// TaskLine renders one task as "Title, Mon, Jan 2 2006, 14:00-15:00".
func TaskLine(t model.Task) string {
	line := fmt.Sprintf("%s, %s, %s", t.Title, t.Date.Format(dateLayout), span(t.StartTime, t.EndTime))
	switch t.Status {
	case model.TaskStatusCompleted:
		line += " [done]"
	case model.TaskStatusCancelled:
		line += " [cancelled]"
	}
	if t.Priority == model.PriorityHigh {
		line += " !"
	}
	return line
}

func span(start, end *model.Clock) string {
	switch {
	case start == nil:
		return "all day"
	case end == nil:
		return start.String()
	}
	return start.String() + "-" + end.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
