package http

import (
	"github.com/gin-gonic/gin"

	"scheduling-assistant/internal/model"
	"scheduling-assistant/pkg/response"
)

// List godoc
// @Summary     List tasks
// @Description Returns tasks ordered by date and start time, optionally filtered.
// @Tags        Tasks
// @Produce     json
// @Param       from   query string false "First date (YYYY-MM-DD)"
// @Param       to     query string false "Last date (YYYY-MM-DD)"
// @Param       status query string false "pending, completed or cancelled"
// @Param       q      query string false "Text in title or description"
// @Success     200 {object} listResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/tasks [GET]
func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	input, err := h.processListReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.List(ctx, model.Scope{}, input)
	if err != nil {
		h.l.Errorf(ctx, "uc.List: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newListResp(out))
}

// Today godoc
// @Summary     Today's tasks
// @Description Returns the tasks scheduled for today in the configured timezone.
// @Tags        Tasks
// @Produce     json
// @Success     200 {object} listResp
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/tasks/today [GET]
func (h *handler) Today(c *gin.Context) {
	ctx := c.Request.Context()

	out, err := h.uc.Today(ctx, model.Scope{})
	if err != nil {
		h.l.Errorf(ctx, "uc.Today: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newListResp(out))
}

// Search godoc
// @Summary     Search tasks
// @Description Finds active tasks whose title or description contains the query words.
// @Tags        Tasks
// @Produce     json
// @Param       query path string true "Keywords"
// @Success     200 {object} listResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/tasks/search/{query} [GET]
func (h *handler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	out, err := h.uc.Search(ctx, model.Scope{}, c.Param("query"))
	if err != nil {
		h.l.Errorf(ctx, "uc.Search: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newListResp(out))
}

// Detail godoc
// @Summary     Get task detail
// @Description Returns a single task by its ID.
// @Tags        Tasks
// @Produce     json
// @Param       id path string true "Task ID"
// @Success     200 {object} detailResp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/tasks/{id} [GET]
func (h *handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := h.processIDReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	t, err := h.uc.Detail(ctx, model.Scope{}, id)
	if err != nil {
		h.l.Errorf(ctx, "uc.Detail: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newDetailResp(t))
}

// Stats godoc
// @Summary     Task statistics
// @Description Counts tasks by status and those scheduled today.
// @Tags        Tasks
// @Produce     json
// @Success     200 {object} task.Stats
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/tasks/stats [GET]
func (h *handler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.uc.Stats(ctx, model.Scope{})
	if err != nil {
		h.l.Errorf(ctx, "uc.Stats: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, stats)
}
