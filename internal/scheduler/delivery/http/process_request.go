package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"scheduling-assistant/internal/model"
)

// processTurnReq binds the turn body and the session id of the path.
func (h *handler) processTurnReq(c *gin.Context) (model.Scope, turnReq, error) {
	var req turnReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return model.Scope{}, req, err
	}
	return h.scope(c), req, req.validate()
}

func (h *handler) scope(c *gin.Context) model.Scope {
	return model.Scope{SessionID: strings.TrimSpace(c.Param("session_id"))}
}
