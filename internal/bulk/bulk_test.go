package bulk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheduling-assistant/internal/model"
)

var sep20 = time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)

func TestExpandTimeMode(t *testing.T) {
	got, err := Expand(Pattern{
		Count:      5,
		Title:      "Focus block",
		StartDate:  sep20,
		FirstStart: model.NewClock(9, 0).Ptr(),
		Interval:   time.Hour,
	}, 0)
	require.NoError(t, err)
	require.Len(t, got, 5)

	starts := make([]string, 0, len(got))
	for _, c := range got {
		starts = append(starts, c.StartTime.String())
		assert.Equal(t, "Focus block", c.Title)
		assert.True(t, c.Date.Equal(sep20))
		assert.Nil(t, c.EndTime)
	}
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00", "13:00"}, starts)
}

func TestExpandWithDuration(t *testing.T) {
	got, err := Expand(Pattern{
		Count:      3,
		Title:      "Interview",
		StartDate:  sep20,
		FirstStart: model.NewClock(13, 0).Ptr(),
		Interval:   90 * time.Minute,
		Duration:   time.Hour,
	}, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "16:00", got[2].StartTime.String())
	assert.Equal(t, "17:00", got[2].EndTime.String())
}

func TestExpandDayMode(t *testing.T) {
	got, err := Expand(Pattern{
		Count:      5,
		Title:      "Standup",
		StartDate:  sep20,
		FirstStart: model.NewClock(9, 30).Ptr(),
		Duration:   15 * time.Minute,
		DayStep:    1,
	}, 0)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, c := range got {
		assert.True(t, c.Date.Equal(sep20.AddDate(0, 0, i)), "item %d date %v", i, c.Date)
		assert.Equal(t, "09:30", c.StartTime.String())
		assert.Equal(t, "09:45", c.EndTime.String())
	}

	allDay, err := Expand(Pattern{Count: 2, Title: "Trip", StartDate: sep20, DayStep: 7}, 0)
	require.NoError(t, err)
	assert.Nil(t, allDay[1].StartTime)
	assert.True(t, allDay[1].Date.Equal(sep20.AddDate(0, 0, 7)))
}

func TestExpandInvalid(t *testing.T) {
	nine := model.NewClock(9, 0).Ptr()

	tests := []struct {
		name    string
		pattern Pattern
		max     int
		wantErr error
	}{
		{name: "zero count", pattern: Pattern{Count: 0, Title: "x", FirstStart: nine, Interval: time.Hour}, wantErr: ErrInvalidCount},
		{name: "above max", pattern: Pattern{Count: 11, Title: "x", FirstStart: nine, Interval: time.Hour}, max: 10, wantErr: ErrTooMany},
		{name: "no title", pattern: Pattern{Count: 2, FirstStart: nine, Interval: time.Hour}, wantErr: ErrMissingTitle},
		{name: "no interval", pattern: Pattern{Count: 2, Title: "x", FirstStart: nine}, wantErr: ErrMissingInterval},
		{name: "no start time", pattern: Pattern{Count: 2, Title: "x", Interval: time.Hour}, wantErr: ErrMissingInterval},
		{name: "rolls past midnight", pattern: Pattern{Count: 5, Title: "x", FirstStart: model.NewClock(21, 0).Ptr(), Interval: time.Hour}, wantErr: ErrPastMidnight},
		{name: "last ends after midnight", pattern: Pattern{Count: 2, Title: "x", FirstStart: model.NewClock(22, 0).Ptr(), Interval: time.Hour, Duration: 90 * time.Minute}, wantErr: ErrPastMidnight},
		{name: "self overlap", pattern: Pattern{Count: 3, Title: "x", FirstStart: nine, Interval: 30 * time.Minute, Duration: time.Hour}, wantErr: ErrSelfOverlap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.pattern, tt.max)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
		})
	}
}
