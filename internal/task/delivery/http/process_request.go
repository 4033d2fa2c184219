package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"scheduling-assistant/internal/task"
)

// processListReq binds the list query parameters.
func (h *handler) processListReq(c *gin.Context) (task.ListInput, error) {
	var req listReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return task.ListInput{}, err
	}
	return req.toInput()
}

func (h *handler) processIDReq(c *gin.Context) (string, error) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return "", errMissingID
	}
	return id, nil
}
