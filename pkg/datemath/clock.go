package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	clock24Re  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	meridiemRe = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))? ?(am|pm|a\.m\.|p\.m\.)$`)
	bareHourRe = regexp.MustCompile(`^(\d{1,2})(?: o'clock)?$`)
)

// ResolveTime maps a time-of-day phrase to minutes since midnight.
func ResolveTime(expr string) TimeResolution {
	s := normalize(expr)
	s = strings.TrimPrefix(s, "at ")
	if s == "" {
		return invalidTime("empty time expression")
	}

	switch s {
	case "noon", "midday":
		return concreteTime(12 * 60)
	case "midnight":
		return concreteTime(0)
	}

	if m := clock24Re.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		if h > 23 || mins > 59 {
			return invalidTime(fmt.Sprintf("%s is not a valid time of day", expr))
		}
		return concreteTime(h*60 + mins)
	}

	if m := meridiemRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins := 0
		if m[2] != "" {
			mins, _ = strconv.Atoi(m[2])
		}
		if h < 1 || h > 12 || mins > 59 {
			return invalidTime(fmt.Sprintf("%s is not a valid time of day", expr))
		}
		h %= 12
		if strings.HasPrefix(m[3], "p") {
			h += 12
		}
		return concreteTime(h*60 + mins)
	}

	if m := bareHourRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		switch {
		case h == 0 || (h > 12 && h < 24):
			return concreteTime(h * 60)
		case h == 12:
			return ambiguousTime(s, 12*60, 0)
		case h < 12:
			return ambiguousTime(s, h*60, (h+12)*60)
		}
		return invalidTime(fmt.Sprintf("%s is not a valid hour", expr))
	}

	return invalidTime(fmt.Sprintf("unrecognized time expression %q", expr))
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func concreteTime(minutes int) TimeResolution {
	return TimeResolution{Kind: Concrete, Minutes: minutes}
}

func ambiguousTime(s string, candidates ...int) TimeResolution {
	return TimeResolution{
		Kind:       Ambiguous,
		Candidates: candidates,
		Reason:     fmt.Sprintf("%q could be morning or evening", s),
	}
}

func invalidTime(reason string) TimeResolution {
	return TimeResolution{Kind: Invalid, Reason: reason}
}
