package composer

import (
	"fmt"
	"sort"
	"strings"

	"scheduling-assistant/internal/model"
)

// Load grades how full a day is.
type Load string

const (
	LoadFree     Load = "free"
	LoadLight    Load = "light"
	LoadModerate Load = "moderate"
	LoadBusy     Load = "busy"
)

// Working hours used to list free windows.
var (
	DayStart = model.NewClock(8, 0)
	DayEnd   = model.NewClock(20, 0)
)

// Assessment summarizes the availability of a single day.
type Assessment struct {
	Load  Load
	Timed int
	Free  []model.Interval
}

// Availability assesses the active tasks of one day. Cancelled tasks are ignored.
func Availability(tasks []model.Task) Assessment {
	var (
		active int
		spans  []model.Interval
	)
	for _, t := range tasks {
		if t.Status == model.TaskStatusCancelled {
			continue
		}
		active++
		if !t.AllDay() {
			spans = append(spans, t.Interval())
		}
	}

	a := Assessment{Timed: len(spans)}
	switch {
	case active >= 4:
		a.Load = LoadBusy
	case active >= 2:
		a.Load = LoadModerate
	case active == 1:
		a.Load = LoadLight
	default:
		a.Load = LoadFree
	}
	if active > len(spans) {
		// an all-day task blocks the whole day
		return a
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	cursor := DayStart
	for _, s := range spans {
		if s.End <= cursor {
			continue
		}
		if s.Start > cursor {
			a.Free = append(a.Free, model.Interval{Start: cursor, End: min(s.Start, DayEnd)})
		}
		cursor = max(cursor, s.End)
		if cursor >= DayEnd {
			break
		}
	}
	if cursor < DayEnd {
		a.Free = append(a.Free, model.Interval{Start: cursor, End: DayEnd})
	}
	return a
}

func (a Assessment) String() string {
	var sb strings.Builder
	switch a.Load {
	case LoadBusy:
		sb.WriteString("Busy day!")
	case LoadModerate:
		sb.WriteString("Moderately busy.")
	case LoadLight:
		sb.WriteString("Light schedule.")
	default:
		sb.WriteString("You're completely free.")
	}
	sb.WriteString(fmt.Sprintf(" You have %s.", plural(a.Timed, "timed task")))

	if len(a.Free) == 0 {
		sb.WriteString(fmt.Sprintf(" No free time between %s and %s.", DayStart, DayEnd))
		return sb.String()
	}
	windows := make([]string, 0, len(a.Free))
	for _, f := range a.Free {
		windows = append(windows, f.Start.String()+"-"+f.End.String())
	}
	sb.WriteString(" Free: " + strings.Join(windows, ", ") + ".")
	return sb.String()
}
