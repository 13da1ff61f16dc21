package model

import "time"

const DefaultChatTitle = "New chat"

// ChatMetadata describes one chat owned by an identity.
type ChatMetadata struct {
	ChatID       string    `json:"chat_id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`

	// LastExtraction is the last user message memory extraction ran on.
	LastExtraction string `json:"last_extraction,omitempty"`
}

// Role of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a chat transcript.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
