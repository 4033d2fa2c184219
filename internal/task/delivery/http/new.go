package http

import (
	"github.com/gin-gonic/gin"

	"scheduling-assistant/internal/task"
	pkgLog "scheduling-assistant/pkg/log"
)

// Handler is the public interface for the task HTTP delivery layer.
type Handler interface {
	List(c *gin.Context)
	Today(c *gin.Context)
	Search(c *gin.Context)
	Detail(c *gin.Context)
	Stats(c *gin.Context)
}

type handler struct {
	l  pkgLog.Logger
	uc task.UseCase
}

// New creates a new HTTP handler for the task domain.
func New(l pkgLog.Logger, uc task.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
