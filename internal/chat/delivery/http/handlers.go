package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"helpdesk-automation/internal/chat"
	"helpdesk-automation/pkg/response"
)

// ListIdentities godoc
// @Summary     List identities
// @Description Lists identities that have stored chats or memories.
// @Tags        Identities
// @Produce     json
// @Success     200 {array}  string
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/identities [GET]
func (h *handler) ListIdentities(c *gin.Context) {
	ids, err := h.uc.ListIdentities(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, ids)
}

// DeleteIdentity godoc
// @Summary     Delete an identity
// @Description Closes the identity's stores and removes its chats and memories.
// @Tags        Identities
// @Produce     json
// @Param       identity path string true "Identity"
// @Success     200 {object} deleteResp
// @Failure     400 {object} response.Resp "Invalid identity"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/identities/{identity} [DELETE]
func (h *handler) DeleteIdentity(c *gin.Context) {
	ok, err := h.uc.DeleteIdentity(c.Request.Context(), c.Param("identity"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, deleteResp{Deleted: ok})
}

// Memories godoc
// @Summary     Search or list memories
// @Description With q, returns up to k memory texts ordered by relevance. Without q, lists every stored memory.
// @Tags        Identities
// @Produce     json
// @Param       identity path  string true  "Identity"
// @Param       q        query string false "Search text"
// @Param       k        query int    false "Maximum results"
// @Success     200 {array}  memoryResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/identities/{identity}/memories [GET]
func (h *handler) Memories(c *gin.Context) {
	ctx := c.Request.Context()
	identity := c.Param("identity")

	req, err := h.processMemoriesReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	if strings.TrimSpace(req.Query) != "" {
		texts, err := h.uc.SearchMemories(ctx, chat.MemoryQuery{Identity: identity, Query: req.Query, K: req.K})
		if err != nil {
			h.writeError(c, err)
			return
		}
		response.OK(c, texts)
		return
	}

	recs, err := h.uc.ListMemories(ctx, identity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, newMemoriesResp(recs))
}

// CreateChat godoc
// @Summary     Create a chat
// @Tags        Chats
// @Accept      json
// @Produce     json
// @Param       identity path string        true  "Identity"
// @Param       body     body createChatReq false "First message used for the title"
// @Success     200 {object} chatResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/identities/{identity}/chats [POST]
func (h *handler) CreateChat(c *gin.Context) {
	req, err := h.processCreateChatReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	meta, err := h.uc.CreateChat(c.Request.Context(), chat.CreateChatInput{
		Identity:     c.Param("identity"),
		FirstMessage: req.FirstMessage,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, newChatResp(meta))
}

// ListChats godoc
// @Summary     List chats
// @Description Most recently updated first.
// @Tags        Chats
// @Produce     json
// @Param       identity path string true "Identity"
// @Success     200 {array}  chatResp
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/identities/{identity}/chats [GET]
func (h *handler) ListChats(c *gin.Context) {
	chats, err := h.uc.ListChats(c.Request.Context(), c.Param("identity"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, newChatListResp(chats))
}

// GetChat godoc
// @Summary     Get chat metadata
// @Tags        Chats
// @Produce     json
// @Param       identity path string true "Identity"
// @Param       chat_id  path string true "Chat ID"
// @Success     200 {object} chatResp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/identities/{identity}/chats/{chat_id} [GET]
func (h *handler) GetChat(c *gin.Context) {
	meta, err := h.uc.GetChat(c.Request.Context(), c.Param("identity"), c.Param("chat_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, newChatResp(meta))
}

// DeleteChat godoc
// @Summary     Delete a chat
// @Tags        Chats
// @Produce     json
// @Param       identity path string true "Identity"
// @Param       chat_id  path string true "Chat ID"
// @Success     200 {object} deleteResp
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/identities/{identity}/chats/{chat_id} [DELETE]
func (h *handler) DeleteChat(c *gin.Context) {
	ok, err := h.uc.DeleteChat(c.Request.Context(), c.Param("identity"), c.Param("chat_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, deleteResp{Deleted: ok})
}

// SendMessage godoc
// @Summary     Send a chat message
// @Description Answers the message using the identity's memories and the trimmed chat history.
// @Tags        Chats
// @Accept      json
// @Produce     json
// @Param       identity path string         true "Identity"
// @Param       chat_id  path string         true "Chat ID"
// @Param       body     body sendMessageReq true "Message"
// @Success     200 {object} turnResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     503 {object} response.Resp "Completion service unavailable"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/identities/{identity}/chats/{chat_id}/messages [POST]
func (h *handler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processSendMessageReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.Turn(ctx, chat.TurnInput{
		Identity: c.Param("identity"),
		ChatID:   c.Param("chat_id"),
		Message:  req.Message,
	})
	if err != nil {
		h.l.Warnf(ctx, "uc.Turn: %v", err)
		h.writeError(c, err)
		return
	}
	response.OK(c, newTurnResp(out))
}

// History godoc
// @Summary     Chat history
// @Tags        Chats
// @Produce     json
// @Param       identity path  string true  "Identity"
// @Param       chat_id  path  string true  "Chat ID"
// @Param       limit    query int    false "Newest messages to return" default(50)
// @Success     200 {array}  messageResp
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/identities/{identity}/chats/{chat_id}/messages [GET]
func (h *handler) History(c *gin.Context) {
	req, err := h.processHistoryReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	msgs, err := h.uc.History(c.Request.Context(), chat.HistoryInput{
		Identity: c.Param("identity"),
		ChatID:   c.Param("chat_id"),
		Limit:    req.Limit,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, newMessagesResp(msgs))
}
