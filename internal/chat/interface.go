package chat

import (
	"context"

	"helpdesk-automation/internal/model"
)

// UseCase is the memory-aware chat of an identity.
type UseCase interface {
	// Turn answers one user message. A completion failure is returned as a
	// *helpdesk.TransientError after the user message has been recorded.
	Turn(ctx context.Context, in TurnInput) (TurnOutput, error)

	CreateChat(ctx context.Context, in CreateChatInput) (model.ChatMetadata, error)
	ListChats(ctx context.Context, identity string) ([]model.ChatMetadata, error)
	GetChat(ctx context.Context, identity, chatID string) (model.ChatMetadata, error)
	DeleteChat(ctx context.Context, identity, chatID string) (bool, error)
	History(ctx context.Context, in HistoryInput) ([]model.ChatMessage, error)

	SearchMemories(ctx context.Context, in MemoryQuery) ([]string, error)
	ListMemories(ctx context.Context, identity string) ([]model.MemoryRecord, error)

	ListIdentities(ctx context.Context) ([]string, error)
	DeleteIdentity(ctx context.Context, identity string) (bool, error)
}
