package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationTermRe = regexp.MustCompile(`^(\d+|[a-z]+) ?(minutes|minute|mins|min|m|hours|hour|hrs|hr|h|days|day|d|weeks|week|w)\b`)

var numberWords = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12,
}

const day = 24 * time.Hour

// ParseNumber reads a non-negative count written as digits or as a small number word.
func ParseNumber(s string) (int, bool) {
	s = normalize(s)
	if n, ok := numberWords[s]; ok {
		return n, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ParseDuration reads a positive duration such as "90m", "1h30m", "an hour", "2 days"
// or "1 hour and 30 minutes".
func ParseDuration(expr string) (time.Duration, error) {
	s := normalize(expr)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidDuration)
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidDuration, expr)
		}
		return d, nil
	}
	if s == "half an hour" || s == "half hour" {
		return 30 * time.Minute, nil
	}

	var total time.Duration
	rest := s
	for rest != "" {
		m := durationTermRe.FindStringSubmatch(rest)
		if m == nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, expr)
		}
		n, ok := ParseNumber(m[1])
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, expr)
		}
		total += time.Duration(n) * unitOf(m[2])

		rest = strings.TrimSpace(rest[len(m[0]):])
		rest = strings.TrimPrefix(rest, "and ")
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidDuration, expr)
	}
	return total, nil
}

// ParseDayOffset reads a signed whole-day shift such as "7 days", "+1 week" or "-2 days".
func ParseDayOffset(expr string) (int, error) {
	s := normalize(expr)
	sign := 1
	switch {
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = strings.TrimSpace(s[1:])
	case strings.HasPrefix(s, "+"):
		s = strings.TrimSpace(s[1:])
	}

	d, err := ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d%day != 0 {
		return 0, fmt.Errorf("%w: %q is not a whole number of days", ErrInvalidDuration, expr)
	}
	return sign * int(d/day), nil
}

func unitOf(u string) time.Duration {
	switch u[0] {
	case 'm':
		return time.Minute
	case 'h':
		return time.Hour
	case 'd':
		return day
	default:
		return 7 * day
	}
}
