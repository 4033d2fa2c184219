package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	pkgLog "scheduling-assistant/pkg/log"
)

func newEngine(mw Middleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw.RequestLogger(), mw.RateLimit())
	r.GET("/ping", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(pkgLog.RequestIDKey).(string)
		c.String(http.StatusOK, id)
	})
	return r
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := newEngine(New(pkgLog.NewNop(), Config{}))

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
		assert.Equal(t, w.Header().Get(HeaderRequestID), w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(HeaderRequestID, "req-42")
		r.ServeHTTP(w, req)
		assert.Equal(t, "req-42", w.Body.String())
	})
}

func TestRateLimitPerClient(t *testing.T) {
	// 60/min gives a burst of 6 and one token per second.
	r := newEngine(New(pkgLog.NewNop(), Config{RateLimitPerMin: 60}))

	call := func(ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 6; i++ {
		assert.Equal(t, http.StatusOK, call("10.0.0.1"), "request %d", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))
}
