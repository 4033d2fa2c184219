package conflict

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/task"
	"scheduling-assistant/internal/task/repository"
)

// fakeStore is an in-memory repository.Reader.
type fakeStore struct {
	tasks []model.Task
	err   error
}

func (f *fakeStore) Get(ctx context.Context, id string) (model.Task, error) {
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, repository.ErrNotFound
}

func (f *fakeStore) Query(ctx context.Context, opt repository.QueryOptions) ([]model.Task, error) {
	return f.tasks, f.err
}

func (f *fakeStore) AllOverlapping(ctx context.Context, opt repository.OverlapOptions) ([]model.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := model.NewInterval(opt.StartTime, opt.EndTime)
	var out []model.Task
	for _, t := range f.tasks {
		if model.SameDate(t.Date, opt.Date) && !slices.Contains(opt.ExcludeIDs, t.ID) && t.Interval().Overlaps(want) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) Stats(ctx context.Context, opt repository.StatsOptions) (task.Stats, error) {
	return task.Stats{}, nil
}

var sep15 = time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)

func clock(h, m int) *model.Clock { return model.NewClock(h, m).Ptr() }

func stored(id, title string, start, end *model.Clock) model.Task {
	return model.Task{ID: id, Title: title, Date: sep15, StartTime: start, EndTime: end, Status: model.TaskStatusPending}
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	meeting := stored("m", "Meeting", clock(14, 0), clock(15, 0))
	review := stored("r", "Review", clock(13, 30), clock(14, 30))
	offsite := stored("o", "Offsite", nil, nil)
	cancelled := stored("c", "Lunch", clock(12, 0), clock(13, 0))
	cancelled.Status = model.TaskStatusCancelled

	tests := []struct {
		name      string
		tasks     []model.Task
		candidate model.Candidate
		exclude   []string
		want      Severity
		wantIDs   []string
	}{
		{
			name:      "free slot",
			tasks:     []model.Task{meeting},
			candidate: model.Candidate{Title: "Gym", Date: sep15, StartTime: clock(16, 0)},
			want:      SeverityNone,
			wantIDs:   []string{},
		},
		{
			name:      "exact duplicate ignores case",
			tasks:     []model.Task{meeting},
			candidate: model.Candidate{Title: "meeting", Date: sep15, StartTime: clock(14, 0), EndTime: clock(15, 0)},
			want:      SeverityExactDuplicate,
			wantIDs:   []string{"m"},
		},
		{
			name:      "same title different interval is overlap",
			tasks:     []model.Task{meeting},
			candidate: model.Candidate{Title: "Meeting", Date: sep15, StartTime: clock(14, 0)},
			want:      SeverityOverlap,
			wantIDs:   []string{"m"},
		},
		{
			name:      "overlaps ordered by start with all-day first",
			tasks:     []model.Task{meeting, review, offsite},
			candidate: model.Candidate{Title: "Doctor appointment", Date: sep15, StartTime: clock(14, 0)},
			want:      SeverityOverlap,
			wantIDs:   []string{"o", "r", "m"},
		},
		{
			name:      "cancelled tasks do not conflict",
			tasks:     []model.Task{cancelled},
			candidate: model.Candidate{Title: "Lunch", Date: sep15, StartTime: clock(12, 0), EndTime: clock(13, 0)},
			want:      SeverityNone,
			wantIDs:   []string{},
		},
		{
			name:      "excluded ids are ignored",
			tasks:     []model.Task{meeting},
			candidate: model.Candidate{Title: "Meeting", Date: sep15, StartTime: clock(14, 30)},
			exclude:   []string{"m"},
			want:      SeverityNone,
			wantIDs:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Check(ctx, &fakeStore{tasks: tt.tasks}, tt.candidate, tt.exclude...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Severity)
			got := make([]string, 0, len(report.Colliding))
			for _, c := range report.Colliding {
				got = append(got, c.ID)
			}
			assert.Equal(t, tt.wantIDs, got)
			assert.Equal(t, tt.want == SeverityOverlap, report.HasConflict())
		})
	}

	t.Run("duplicate accessor", func(t *testing.T) {
		report, err := Check(ctx, &fakeStore{tasks: []model.Task{meeting}},
			model.Candidate{Title: "MEETING", Date: sep15, StartTime: clock(14, 0), EndTime: clock(15, 0)})
		require.NoError(t, err)
		dup, ok := report.Duplicate()
		assert.True(t, ok)
		assert.Equal(t, "m", dup.ID)
	})

	t.Run("store error", func(t *testing.T) {
		boom := errors.New("disk gone")
		_, err := Check(ctx, &fakeStore{err: boom}, model.Candidate{Title: "x", Date: sep15})
		assert.ErrorIs(t, err, boom)
	})
}

func TestNextFreeSlot(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{tasks: []model.Task{
		stored("a", "A", clock(9, 0), clock(10, 0)),
		stored("b", "B", clock(10, 0), clock(10, 30)),
		stored("c", "C", clock(11, 0), clock(12, 0)),
	}}

	tests := []struct {
		name   string
		from   model.Clock
		d      time.Duration
		want   string
		wantOK bool
	}{
		{name: "free immediately", from: model.NewClock(8, 0), d: time.Hour, want: "08:00", wantOK: true},
		{name: "skips back to back tasks", from: model.NewClock(9, 0), d: 30 * time.Minute, want: "10:30", wantOK: true},
		{name: "gap too small", from: model.NewClock(9, 0), d: time.Hour, want: "12:00", wantOK: true},
		{name: "no room before midnight", from: model.NewClock(23, 30), d: time.Hour, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := NextFreeSlot(ctx, store, sep15, tt.from, tt.d)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}

	t.Run("all-day task blocks the day", func(t *testing.T) {
		blocked := &fakeStore{tasks: []model.Task{stored("o", "Offsite", nil, nil)}}
		_, ok, err := NextFreeSlot(ctx, blocked, sep15, model.NewClock(8, 0), time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
