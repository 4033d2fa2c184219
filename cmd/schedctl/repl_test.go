package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheduling-assistant/internal/conversation"
	"scheduling-assistant/internal/scheduler"
	"scheduling-assistant/internal/scheduler/usecase"
	"scheduling-assistant/internal/task/repository/sqlite"
	"scheduling-assistant/pkg/datemath"
	"scheduling-assistant/pkg/log"
)

func newTestUseCase(t *testing.T) scheduler.UseCase {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := log.NewNop()
	repo, err := sqlite.New(l, db)
	require.NoError(t, err)
	parser, err := datemath.NewParser("UTC")
	require.NoError(t, err)
	return usecase.New(l, repo, parser, conversation.NewSessions(1, 0, conversation.DefaultMaxTurns), usecase.Options{})
}

func TestParseTurn(t *testing.T) {
	in, err := parseTurn(`{"user_text":"book it","intent":{"operation":"create","fields":{"title":"Gym"}}}`)
	require.NoError(t, err)
	assert.Equal(t, "book it", in.UserText)
	assert.Equal(t, scheduler.OpCreate, in.Intent.Operation)
	assert.Equal(t, "Gym", in.Intent.Field(scheduler.SlotTitle))

	in, err = parseTurn(`{"operation":"delete","reference_phrase":"it"}`)
	require.NoError(t, err)
	assert.Equal(t, scheduler.OpDelete, in.Intent.Operation)
	assert.Equal(t, "it", in.Intent.ReferencePhrase)

	_, err = parseTurn(`not json`)
	assert.Error(t, err)
}

func TestREPL(t *testing.T) {
	uc := newTestUseCase(t)
	create := `{"operation":"create","fields":{"title":"Dentist","date":"2030-01-07","start_time":"09:00","end_time":"10:00"}}`
	input := strings.Join([]string{
		"# comment lines and blanks are skipped",
		"",
		create,
		"{broken",
		create,
	}, "\n")

	var out bytes.Buffer
	err := repl(context.Background(), uc, "cli-test", strings.NewReader(input), &out, false)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Created 1 task:")
	assert.Contains(t, got, "! invalid input:")
	assert.Contains(t, got, "Already on your schedule, nothing changed:")
	assert.Equal(t, 2, strings.Count(got, "["+string(scheduler.StateIdle)+"]"))
}

func TestREPLJSON(t *testing.T) {
	uc := newTestUseCase(t)
	var out bytes.Buffer
	err := repl(context.Background(), uc, "cli-json", strings.NewReader(`{"operation":"create","fields":{"title":"Gym"}}`), &out, true)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"kind":`)
}
