package usecase

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scheduling-assistant/internal/conversation"
	"scheduling-assistant/internal/model"
	"scheduling-assistant/internal/scheduler"
	"scheduling-assistant/internal/task/repository"
	"scheduling-assistant/internal/task/repository/sqlite"
	"scheduling-assistant/pkg/datemath"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// mockMirror records what the engine reported as committed.
type mockMirror struct {
	mu       sync.Mutex
	calls    int
	upserted []model.Task
	deleted  []string
}

func (m *mockMirror) TasksChanged(ctx context.Context, upserted []model.Task, deletedIDs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.upserted = append(m.upserted, upserted...)
	m.deleted = append(m.deleted, deletedIDs...)
}

// Monday 2025-09-15, 10:00 UTC
var testNow = time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)

type harness struct {
	uc     *implUseCase
	repo   repository.Repository
	db     *sql.DB
	mirror *mockMirror
}

func newHarness(t *testing.T) harness {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := &mockLogger{}
	repo, err := sqlite.New(l, db)
	require.NoError(t, err)
	parser, err := datemath.NewParser("UTC")
	require.NoError(t, err)

	mirror := &mockMirror{}
	uc := New(l, repo, parser, conversation.NewSessions(0, 0, conversation.DefaultMaxTurns), Options{
		Mirror: mirror,
		Now:    func() time.Time { return testNow },
	})
	return harness{uc: uc, repo: repo, db: db, mirror: mirror}
}

func (h harness) turn(t *testing.T, session string, in scheduler.Intent) scheduler.TurnOutput {
	t.Helper()
	out, err := h.uc.ProcessTurn(context.Background(), model.Scope{SessionID: session}, scheduler.TurnInput{Intent: in})
	require.NoError(t, err)
	return out
}

func (h harness) tasksOn(t *testing.T, date time.Time) []model.Task {
	t.Helper()
	tasks, err := h.repo.Query(context.Background(), repository.QueryOptions{From: &date, To: &date})
	require.NoError(t, err)
	return tasks
}

func intent(op scheduler.Operation, kv ...string) scheduler.Intent {
	in := scheduler.Intent{Operation: op, Fields: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		in.Fields[kv[i]] = kv[i+1]
	}
	return in
}

func referring(in scheduler.Intent, phrase string) scheduler.Intent {
	in.ReferencePhrase = phrase
	return in
}

func at(h, m int) *model.Clock {
	return model.NewClock(h, m).Ptr()
}

var sep16 = time.Date(2025, 9, 16, 0, 0, 0, 0, time.UTC)
