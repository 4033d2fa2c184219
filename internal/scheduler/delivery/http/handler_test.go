package http

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheduling-assistant/internal/conversation"
	"scheduling-assistant/internal/middleware"
	"scheduling-assistant/internal/scheduler/usecase"
	"scheduling-assistant/internal/task/repository/sqlite"
	"scheduling-assistant/pkg/datemath"
	pkgLog "scheduling-assistant/pkg/log"
)

type envelope struct {
	ErrorCode int             `json:"error_code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

type server struct {
	engine *gin.Engine
	db     *sql.DB
}

func newServer(t *testing.T) server {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := pkgLog.NewNop()
	repo, err := sqlite.New(l, db)
	require.NoError(t, err)
	parser, err := datemath.NewParser("UTC")
	require.NoError(t, err)

	now := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)
	uc := usecase.New(l, repo, parser, conversation.NewSessions(0, 0, conversation.DefaultMaxTurns), usecase.Options{
		Now: func() time.Time { return now },
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), New(l, uc), middleware.New(l, middleware.Config{}))
	return server{engine: r, db: db}
}

func (s server) do(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decodeTurn(t *testing.T, env envelope) turnResp {
	t.Helper()
	var out turnResp
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

const (
	createDentist = `{"user_text":"dentist tue 2-3pm","intent":{"operation":"create","fields":{"title":"Dentist","date":"2025-09-16","start_time":"14:00","end_time":"15:00"}}}`
	createSync    = `{"user_text":"team sync 2:30","intent":{"operation":"create","fields":{"title":"Team sync","date":"2025-09-16","start_time":"14:30","duration":"1 hour"}}}`
)

func TestTurnConflictFlow(t *testing.T) {
	s := newServer(t)
	path := "/api/v1/sessions/s1/turns"

	code, env := s.do(t, http.MethodPost, path, createDentist)
	require.Equal(t, http.StatusOK, code, env.Message)
	out := decodeTurn(t, env)
	assert.Equal(t, "idle", out.State)
	assert.Equal(t, "created", out.Outcome.Kind)
	require.Len(t, out.Outcome.Tasks, 1)
	assert.Equal(t, "14:00", out.Outcome.Tasks[0].StartTime)
	assert.True(t, strings.HasPrefix(out.Message, "Created 1 task:"), out.Message)
	dentistID := out.Outcome.Tasks[0].ID

	code, env = s.do(t, http.MethodPost, path, createSync)
	require.Equal(t, http.StatusOK, code)
	out = decodeTurn(t, env)
	assert.Equal(t, "awaiting_conflict_decision", out.State)
	assert.Equal(t, "conflict_pending", out.Outcome.Kind)
	require.NotNil(t, out.Outcome.Conflict)
	assert.Equal(t, "15:30", out.Outcome.Conflict.Candidate.EndTime)
	assert.Contains(t, out.Message, "1. Replace the existing task")

	code, env = s.do(t, http.MethodGet, "/api/v1/sessions/s1", "")
	require.Equal(t, http.StatusOK, code)
	var snap sessionResp
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, "awaiting_conflict_decision", snap.State)
	require.NotNil(t, snap.PendingConflict)
	assert.Len(t, snap.Turns, 2)

	code, env = s.do(t, http.MethodPost, path, `{"user_text":"replace it","intent":{"operation":"conflict_decision","fields":{"decision":"replace"}}}`)
	require.Equal(t, http.StatusOK, code)
	out = decodeTurn(t, env)
	assert.Equal(t, "idle", out.State)
	assert.Equal(t, []string{dentistID}, out.Outcome.DeletedIDs)
	assert.Contains(t, out.Message, "Replaced 1 task.")
}

func TestTurnBadRequests(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "malformed json", body: `{"intent":`},
		{name: "missing operation", body: `{"intent":{"fields":{}}}`, want: "intent.operation is required"},
		{name: "unknown operation", body: `{"intent":{"operation":"teleport"}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, env := s.do(t, http.MethodPost, "/api/v1/sessions/s1/turns", tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
			if tc.want != "" {
				assert.Equal(t, tc.want, env.Message)
			}
		})
	}
}

func TestEndSession(t *testing.T) {
	s := newServer(t)

	code, _ := s.do(t, http.MethodGet, "/api/v1/sessions/s1", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/sessions/s1/turns", createDentist)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodDelete, "/api/v1/sessions/s1", "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodDelete, "/api/v1/sessions/s1", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTurnStoreUnavailable(t *testing.T) {
	s := newServer(t)
	require.NoError(t, s.db.Close())

	code, env := s.do(t, http.MethodPost, "/api/v1/sessions/s1/turns", createDentist)
	assert.Equal(t, http.StatusServiceUnavailable, code)

	var data struct {
		Turn turnResp `json:"turn"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "failed", data.Turn.Outcome.Kind)
	assert.True(t, data.Turn.Outcome.Retryable)
}
