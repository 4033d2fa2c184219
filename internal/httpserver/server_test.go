package httpserver

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheduling-assistant/internal/conversation"
	"scheduling-assistant/internal/task/repository/sqlite"
	"scheduling-assistant/pkg/datemath"
	pkgLog "scheduling-assistant/pkg/log"
)

func newTestServer(t *testing.T) (*HTTPServer, func() error) {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := pkgLog.NewNop()
	repo, err := sqlite.New(l, db)
	require.NoError(t, err)
	parser, err := datemath.NewParser("UTC")
	require.NoError(t, err)

	srv, err := New(l, Config{
		Logger:       l,
		Port:         8080,
		Mode:         "test",
		Environment:  "development",
		Repository:   repo,
		DateMath:     parser,
		Sessions:     conversation.NewSessions(0, 0, conversation.DefaultMaxTurns),
		MaxBulkCount: 50,
	})
	require.NoError(t, err)
	return srv, db.Close
}

func get(srv *HTTPServer, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSystemRoutes(t *testing.T) {
	srv, closeDB := newTestServer(t)

	for _, path := range []string{"/health", "/live", "/ready"} {
		w := get(srv, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	require.NoError(t, closeDB())
	w := get(srv, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, http.StatusOK, get(srv, "/live").Code)
}

func TestDomainRoutesRegistered(t *testing.T) {
	srv, _ := newTestServer(t)

	w := get(srv, "/api/v1/tasks")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(srv, "/api/v1/sessions/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/s1/turns",
		strings.NewReader(`{"intent":{"operation":"query"}}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "You're free!")
}

func TestNewValidates(t *testing.T) {
	_, err := New(pkgLog.NewNop(), Config{Logger: pkgLog.NewNop(), Port: 8080, Mode: "test"})
	assert.EqualError(t, err, "repository is required")
}
