package model

// Interval is the half-open span [Start, End) in minutes that a task occupies on its date.
type Interval struct {
	Start Clock
	End   Clock
}

// NewInterval derives the occupied span from optional start/end times.
// All-day tasks cover the whole day; a timed task without an end occupies its start minute.
func NewInterval(start, end *Clock) Interval {
	if start == nil {
		return Interval{Start: 0, End: MinutesPerDay}
	}
	if end == nil {
		return Interval{Start: *start, End: *start + 1}
	}
	return Interval{Start: *start, End: *end}
}

// Overlaps reports whether the two spans intersect.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// Length returns the span length in minutes.
func (i Interval) Length() int {
	return int(i.End - i.Start)
}
