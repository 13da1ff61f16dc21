package http

import (
	"helpdesk-automation/internal/chat"
	"helpdesk-automation/internal/model"
	"helpdesk-automation/pkg/response"
)

// --- Request DTOs ---

type createChatReq struct {
	FirstMessage string `json:"first_message"`
}

type sendMessageReq struct {
	Message string `json:"message" binding:"required"`
}

type historyReq struct {
	Limit int `form:"limit,default=50"`
}

type memoriesReq struct {
	Query string `form:"q"`
	K     int    `form:"k"`
}

// --- Response DTOs ---

type chatResp struct {
	ChatID       string            `json:"chat_id"`
	Title        string            `json:"title"`
	CreatedAt    response.DateTime `json:"created_at"`
	UpdatedAt    response.DateTime `json:"updated_at"`
	MessageCount int               `json:"message_count"`
}

func newChatResp(m model.ChatMetadata) chatResp {
	return chatResp{
		ChatID:       m.ChatID,
		Title:        m.Title,
		CreatedAt:    response.DateTime(m.CreatedAt),
		UpdatedAt:    response.DateTime(m.UpdatedAt),
		MessageCount: m.MessageCount,
	}
}

func newChatListResp(ms []model.ChatMetadata) []chatResp {
	out := make([]chatResp, 0, len(ms))
	for _, m := range ms {
		out = append(out, newChatResp(m))
	}
	return out
}

type turnResp struct {
	ChatID           string   `json:"chat_id"`
	Response         string   `json:"response"`
	VectorMemories   []string `json:"vector_memories"`
	MemoriesUsed     int      `json:"memories_used"`
	ContextOptimized bool     `json:"context_optimized"`
}

func newTurnResp(o chat.TurnOutput) turnResp {
	mems := o.VectorMemories
	if mems == nil {
		mems = []string{}
	}
	return turnResp{
		ChatID:           o.ChatID,
		Response:         o.Response,
		VectorMemories:   mems,
		MemoriesUsed:     o.MemoriesUsed,
		ContextOptimized: true,
	}
}

type messageResp struct {
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Timestamp response.DateTime `json:"timestamp"`
}

func newMessagesResp(ms []model.ChatMessage) []messageResp {
	out := make([]messageResp, 0, len(ms))
	for _, m := range ms {
		out = append(out, messageResp{Role: string(m.Role), Content: m.Content, Timestamp: response.DateTime(m.Timestamp)})
	}
	return out
}

type memoryResp struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	Category   string            `json:"category"`
	Importance int               `json:"importance"`
	CreatedAt  response.DateTime `json:"created_at"`
}

func newMemoriesResp(rs []model.MemoryRecord) []memoryResp {
	out := make([]memoryResp, 0, len(rs))
	for _, r := range rs {
		out = append(out, memoryResp{
			ID:         r.ID,
			Text:       r.Text,
			Category:   string(r.Category),
			Importance: r.Importance,
			CreatedAt:  response.DateTime(r.CreatedAt),
		})
	}
	return out
}

type deleteResp struct {
	Deleted bool `json:"deleted"`
}
