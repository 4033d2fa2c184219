package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/task"
	"scheduling-assistant/internal/task/repository"
	"scheduling-assistant/internal/task/repository/sqlite"
	pkgLog "scheduling-assistant/pkg/log"
)

func newRepo(t *testing.T) repository.Repository {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo, err := sqlite.New(pkgLog.NewNop(), db)
	require.NoError(t, err)
	return repo
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(h, m int) *model.Clock {
	return model.NewClock(h, m).Ptr()
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	created, err := repo.Create(ctx, repository.CreateOptions{
		Title:     "  Team sync ",
		Date:      day(2025, 9, 15),
		StartTime: at(14, 0),
		EndTime:   at(15, 0),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Team sync", created.Title)
	assert.Equal(t, model.TaskStatusPending, created.Status)
	assert.Equal(t, model.PriorityMedium, created.Priority)
	assert.False(t, created.UpdatedAt.Before(created.CreatedAt))

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
	assert.True(t, got.Date.Equal(day(2025, 9, 15)))
	assert.True(t, model.EqualClock(created.StartTime, got.StartTime))
	assert.True(t, model.EqualClock(created.EndTime, got.EndTime))
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	tests := []struct {
		name string
		opt  repository.CreateOptions
	}{
		{name: "empty title", opt: repository.CreateOptions{Title: " ", Date: day(2025, 9, 15)}},
		{name: "end before start", opt: repository.CreateOptions{Title: "x", Date: day(2025, 9, 15), StartTime: at(10, 0), EndTime: at(9, 0)}},
		{name: "end without start", opt: repository.CreateOptions{Title: "x", Date: day(2025, 9, 15), EndTime: at(9, 0)}},
		{name: "missing date", opt: repository.CreateOptions{Title: "x"}},
		{name: "bad priority", opt: repository.CreateOptions{Title: "x", Date: day(2025, 9, 15), Priority: "urgent!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(ctx, tt.opt)
			require.Error(t, err)
			assert.True(t, task.IsValidation(err), "expected ValidationError, got %v", err)
		})
	}

	all, err := repo.Query(ctx, repository.QueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	created, err := repo.Create(ctx, repository.CreateOptions{Title: "Dentist", Date: day(2025, 9, 15), StartTime: at(9, 0)})
	require.NoError(t, err)

	newDate := day(2025, 9, 16)
	done := model.TaskStatusCompleted
	updated, err := repo.Update(ctx, created.ID, repository.UpdateOptions{
		Date:      &newDate,
		StartTime: at(10, 30),
		EndTime:   at(11, 0),
		Status:    &done,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.Date.Equal(newDate))
	assert.Equal(t, "10:30", updated.StartTime.String())
	assert.Equal(t, "11:00", updated.EndTime.String())
	assert.Equal(t, model.TaskStatusCompleted, updated.Status)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	t.Run("clear time makes it all-day", func(t *testing.T) {
		got, err := repo.Update(ctx, created.ID, repository.UpdateOptions{ClearTime: true})
		require.NoError(t, err)
		assert.True(t, got.AllDay())
		assert.Nil(t, got.EndTime)
	})

	t.Run("invalid merge is rejected and not persisted", func(t *testing.T) {
		_, err := repo.Update(ctx, created.ID, repository.UpdateOptions{EndTime: at(8, 0)})
		assert.True(t, task.IsValidation(err))

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got.EndTime)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.Update(ctx, "missing", repository.UpdateOptions{})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	created, err := repo.Create(ctx, repository.CreateOptions{Title: "Gym", Date: day(2025, 9, 15)})
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQueryOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	mustCreate := func(opt repository.CreateOptions) model.Task {
		created, err := repo.Create(ctx, opt)
		require.NoError(t, err)
		return created
	}
	allDay := mustCreate(repository.CreateOptions{Title: "Holiday prep", Date: day(2025, 9, 15)})
	late := mustCreate(repository.CreateOptions{Title: "Review", Date: day(2025, 9, 15), StartTime: at(16, 0)})
	early := mustCreate(repository.CreateOptions{Title: "Doctor appointment", Date: day(2025, 9, 15), StartTime: at(8, 0)})
	nextDay := mustCreate(repository.CreateOptions{Title: "Standup", Date: day(2025, 9, 16), StartTime: at(9, 0), Status: model.TaskStatusCompleted})

	all, err := repo.Query(ctx, repository.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{early.ID, late.ID, allDay.ID, nextDay.ID}, ids(all))

	from, to := day(2025, 9, 16), day(2025, 9, 16)
	ranged, err := repo.Query(ctx, repository.QueryOptions{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, []string{nextDay.ID}, ids(ranged))

	byStatus, err := repo.Query(ctx, repository.QueryOptions{Status: model.TaskStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, []string{nextDay.ID}, ids(byStatus))

	byText, err := repo.Query(ctx, repository.QueryOptions{Text: "DOCTOR"})
	require.NoError(t, err)
	assert.Equal(t, []string{early.ID}, ids(byText))

	literal, err := repo.Query(ctx, repository.QueryOptions{Text: "100%"})
	require.NoError(t, err)
	assert.Empty(t, literal)

	byID, err := repo.Query(ctx, repository.QueryOptions{IDs: []string{late.ID, allDay.ID}})
	require.NoError(t, err)
	assert.Equal(t, []string{late.ID, allDay.ID}, ids(byID))
}

func TestAllOverlapping(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	meeting, err := repo.Create(ctx, repository.CreateOptions{Title: "Meeting", Date: day(2025, 9, 15), StartTime: at(14, 0), EndTime: at(15, 0)})
	require.NoError(t, err)
	reminder, err := repo.Create(ctx, repository.CreateOptions{Title: "Call mom", Date: day(2025, 9, 15), StartTime: at(16, 0)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, repository.CreateOptions{Title: "Other day", Date: day(2025, 9, 16), StartTime: at(14, 0)})
	require.NoError(t, err)

	tests := []struct {
		name string
		opt  repository.OverlapOptions
		want []string
	}{
		{name: "same start", opt: repository.OverlapOptions{Date: day(2025, 9, 15), StartTime: at(14, 0)}, want: []string{meeting.ID}},
		{name: "touching end is free", opt: repository.OverlapOptions{Date: day(2025, 9, 15), StartTime: at(15, 0), EndTime: at(16, 0)}, want: []string{}},
		{name: "endless task occupies its minute", opt: repository.OverlapOptions{Date: day(2025, 9, 15), StartTime: at(15, 30), EndTime: at(16, 30)}, want: []string{reminder.ID}},
		{name: "all-day candidate hits everything", opt: repository.OverlapOptions{Date: day(2025, 9, 15)}, want: []string{meeting.ID, reminder.ID}},
		{name: "exclude", opt: repository.OverlapOptions{Date: day(2025, 9, 15), ExcludeIDs: []string{meeting.ID}}, want: []string{reminder.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.AllOverlapping(ctx, tt.opt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	t.Run("all-day task overlaps any timed candidate", func(t *testing.T) {
		allDay, err := repo.Create(ctx, repository.CreateOptions{Title: "Offsite", Date: day(2025, 9, 16)})
		require.NoError(t, err)
		got, err := repo.AllOverlapping(ctx, repository.OverlapOptions{Date: day(2025, 9, 16), StartTime: at(7, 0)})
		require.NoError(t, err)
		assert.Contains(t, ids(got), allDay.ID)
	})
}

func TestAtomicRollback(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	boom := errors.New("boom")

	err := repo.Atomic(ctx, func(ctx context.Context, tx repository.Repository) error {
		if _, err := tx.Create(ctx, repository.CreateOptions{Title: "A", Date: day(2025, 9, 15)}); err != nil {
			return err
		}
		if _, err := tx.Create(ctx, repository.CreateOptions{Title: "B", Date: day(2025, 9, 15)}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := repo.Query(ctx, repository.QueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAtomicCheckThenInsertIsSerialized(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Atomic(ctx, func(ctx context.Context, tx repository.Repository) error {
				hits, err := tx.AllOverlapping(ctx, repository.OverlapOptions{Date: day(2025, 9, 15), StartTime: at(14, 0)})
				if err != nil || len(hits) > 0 {
					return err
				}
				_, err = tx.Create(ctx, repository.CreateOptions{Title: "Meeting", Date: day(2025, 9, 15), StartTime: at(14, 0)})
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := repo.Query(ctx, repository.QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	for _, opt := range []repository.CreateOptions{
		{Title: "a", Date: day(2025, 9, 15)},
		{Title: "b", Date: day(2025, 9, 15), Status: model.TaskStatusCompleted},
		{Title: "c", Date: day(2025, 9, 16), Status: model.TaskStatusCancelled},
	} {
		_, err := repo.Create(ctx, opt)
		require.NoError(t, err)
	}

	stats, err := repo.Stats(ctx, repository.StatsOptions{Today: day(2025, 9, 15)})
	require.NoError(t, err)
	assert.Equal(t, task.Stats{Total: 3, Pending: 1, Completed: 1, Cancelled: 1, Today: 2}, stats)
	assert.NoError(t, repo.Ping(ctx))
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
