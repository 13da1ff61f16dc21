package http

import (
	"github.com/gin-gonic/gin"
)

func (h *handler) processSubmitQueryReq(c *gin.Context) (submitQueryReq, error) {
	var req submitQueryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}

func (h *handler) processHumanResponseReq(c *gin.Context) (humanResponseReq, error) {
	var req humanResponseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	req.ThreadID = c.Param("id")
	return req, nil
}
