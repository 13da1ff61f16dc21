package repository

import (
	"context"
	"errors"

	"helpdesk-automation/internal/model"
)

var ErrNotFound = errors.New("chat not found")

// Repository stores the chats of one identity.
type Repository interface {
	// Put creates or replaces chat metadata.
	Put(ctx context.Context, meta model.ChatMetadata) error
	Get(ctx context.Context, chatID string) (model.ChatMetadata, error)
	List(ctx context.Context) ([]model.ChatMetadata, error)
	Delete(ctx context.Context, chatID string) (bool, error)

	// Append writes meta and appends msgs to the chat transcript in one
	// transaction.
	Append(ctx context.Context, meta model.ChatMetadata, msgs ...model.ChatMessage) error

	// Messages returns the newest limit messages in order. limit <= 0 returns
	// the whole transcript.
	Messages(ctx context.Context, chatID string, limit int) ([]model.ChatMessage, error)
}
