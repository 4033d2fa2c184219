package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"scheduling-assistant/internal/scheduler"
	"scheduling-assistant/pkg/response"
)

// Turn godoc
// @Summary     Process one conversational turn
// @Description Runs a structured intent against the session and returns the outcome with a composed reply.
// @Description A 503 means the store failed; the session was not advanced and the turn may be retried.
// @Tags        Sessions
// @Accept      json
// @Produce     json
// @Param       session_id path string  true "Session ID"
// @Param       body       body turnReq true "User text and intent"
// @Success     200 {object} turnResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     503 {object} response.Resp "Store unavailable, retryable"
// @Router      /api/v1/sessions/{session_id}/turns [POST]
func (h *handler) Turn(c *gin.Context) {
	ctx := c.Request.Context()

	sc, req, err := h.processTurnReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.ProcessTurn(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.ProcessTurn: %v", err)
		var data map[string]interface{}
		if errors.Is(err, scheduler.ErrStoreUnavailable) {
			data = map[string]interface{}{"turn": h.newTurnResp(out)}
		}
		response.Error(c, h.mapError(err), data)
		return
	}

	response.OK(c, h.newTurnResp(out))
}

// Session godoc
// @Summary     Get session context
// @Description Returns the state, pending question or conflict, and recent turns of a session.
// @Tags        Sessions
// @Produce     json
// @Param       session_id path string true "Session ID"
// @Success     200 {object} sessionResp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/sessions/{session_id} [GET]
func (h *handler) Session(c *gin.Context) {
	ctx := c.Request.Context()

	snap, err := h.uc.Session(ctx, h.scope(c))
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newSessionResp(snap))
}

// EndSession godoc
// @Summary     End a session
// @Description Discards the session context, including any pending question or conflict.
// @Tags        Sessions
// @Produce     json
// @Param       session_id path string true "Session ID"
// @Success     200 {object} response.Resp "OK"
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/sessions/{session_id} [DELETE]
func (h *handler) EndSession(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.uc.EndSession(ctx, h.scope(c)); err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, nil)
}
