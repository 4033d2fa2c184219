package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	tasks := rg.Group("/tasks")
	{
		tasks.GET("", h.List)
		tasks.GET("/today", h.Today)
		tasks.GET("/stats", h.Stats)
		tasks.GET("/search/:query", h.Search)
		tasks.GET("/:id", h.Detail)
	}
}
