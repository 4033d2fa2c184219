package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Clock is a time of day expressed as minutes since midnight.
type Clock int

const (
	MinutesPerDay = 24 * 60
	// ClockLayout is the wire format of a Clock.
	ClockLayout = "15:04"
)

// NewClock builds a Clock from hour and minute. It does not validate.
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock parses an "HH:MM" string.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewClock(t.Hour(), t.Minute()), nil
}

// Valid reports whether c falls within a single day.
func (c Clock) Valid() bool {
	return c >= 0 && c < MinutesPerDay
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Add returns c shifted by d. The result may fall outside the day; check Valid.
func (c Clock) Add(d time.Duration) Clock {
	return c + Clock(d/time.Minute)
}

// Ptr returns a pointer to a copy of c.
func (c Clock) Ptr() *Clock {
	return &c
}

// MarshalJSON implements json.Marshaler.
func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Clock) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// EqualClock compares two optional clocks.
func EqualClock(a, b *Clock) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
