package http

import (
	"github.com/gin-gonic/gin"

	"scheduling-assistant/internal/scheduler"
	pkgLog "scheduling-assistant/pkg/log"
)

// Handler is the public interface for the conversation HTTP delivery layer.
type Handler interface {
	Turn(c *gin.Context)
	Session(c *gin.Context)
	EndSession(c *gin.Context)
}

type handler struct {
	l  pkgLog.Logger
	uc scheduler.UseCase
}

// New creates a new HTTP handler for conversation sessions.
func New(l pkgLog.Logger, uc scheduler.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
