package http

import (
	"github.com/gin-gonic/gin"

	"helpdesk-automation/pkg/response"
)

// SubmitQuery godoc
// @Summary     Submit a query
// @Description Runs the workflow on a thread until it terminates or waits for a human agent.
// @Tags        Threads
// @Accept      json
// @Produce     json
// @Param       body body submitQueryReq true "Query"
// @Success     200 {object} stateResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     409 {object} response.Resp "Thread awaits a human response"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/threads [POST]
func (h *handler) SubmitQuery(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processSubmitQueryReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	state, err := h.uc.SubmitQuery(ctx, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "uc.SubmitQuery: %v", err)
		h.writeError(c, err, nil)
		return
	}

	response.OK(c, newStateResp(state))
}

// SubmitHumanResponse godoc
// @Summary     Resume an escalated thread
// @Description Stores the human agent reply and finishes the thread. Replies to terminal threads are no-ops.
// @Tags        Threads
// @Accept      json
// @Produce     json
// @Param       id   path string           true "Thread ID"
// @Param       body body humanResponseReq true "Agent reply"
// @Success     200 {object} humanResponseResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Unknown thread"
// @Failure     409 {object} response.Resp "Thread was never escalated"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/threads/{id}/human-response [POST]
func (h *handler) SubmitHumanResponse(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processHumanResponseReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	state, outcome, err := h.uc.SubmitHumanResponse(ctx, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "uc.SubmitHumanResponse: outcome=%s: %v", outcome, err)
		h.writeError(c, err, newHumanResponseResp(state, outcome))
		return
	}

	response.OK(c, newHumanResponseResp(state, outcome))
}

// GetState godoc
// @Summary     Get thread state
// @Tags        Threads
// @Produce     json
// @Param       id path string true "Thread ID"
// @Success     200 {object} stateResp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/threads/{id} [GET]
func (h *handler) GetState(c *gin.Context) {
	ctx := c.Request.Context()

	state, err := h.uc.GetState(ctx, c.Param("id"))
	if err != nil {
		h.writeError(c, err, nil)
		return
	}

	response.OK(c, newStateResp(state))
}

// DeleteThread godoc
// @Summary     Delete a thread
// @Tags        Threads
// @Produce     json
// @Param       id path string true "Thread ID"
// @Success     200 {object} deleteResp
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/threads/{id} [DELETE]
func (h *handler) DeleteThread(c *gin.Context) {
	ctx := c.Request.Context()

	ok, err := h.uc.DeleteThread(ctx, c.Param("id"))
	if err != nil {
		h.writeError(c, err, nil)
		return
	}

	response.OK(c, deleteResp{Deleted: ok})
}
