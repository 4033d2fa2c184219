package http

import (
	"github.com/gin-gonic/gin"

	"scheduling-assistant/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods. Turns are rate limited per client.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	sessions := rg.Group("/sessions/:session_id")
	{
		sessions.POST("/turns", mw.RateLimit(), h.Turn)
		sessions.GET("", h.Session)
		sessions.DELETE("", h.EndSession)
	}
}
