package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"helpdesk-automation/internal/chat"
	chatRepo "helpdesk-automation/internal/chat/repository"
	"helpdesk-automation/internal/model"
)

// CreateChat creates a chat titled from the first message, or "New chat"
// when there is none.
func (uc *implUseCase) CreateChat(ctx context.Context, in chat.CreateChatInput) (model.ChatMetadata, error) {
	if in.Identity == "" {
		return model.ChatMetadata{}, chat.ErrEmptyIdentity
	}

	h, err := uc.sessions.Acquire(ctx, in.Identity)
	if err != nil {
		return model.ChatMetadata{}, err
	}
	defer h.Close()

	title := model.DefaultChatTitle
	if first := strings.TrimSpace(in.FirstMessage); first != "" {
		title = uc.generateTitle(ctx, first)
	}

	now := uc.now()
	meta := model.ChatMetadata{
		ChatID:    uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Chats().Put(ctx, meta); err != nil {
		return model.ChatMetadata{}, fmt.Errorf("create chat: %w", err)
	}

	uc.l.Infof(ctx, "chat.usecase.CreateChat: identity=%s chat=%s", in.Identity, meta.ChatID)
	return meta, nil
}

func (uc *implUseCase) ListChats(ctx context.Context, identity string) ([]model.ChatMetadata, error) {
	if identity == "" {
		return nil, chat.ErrEmptyIdentity
	}

	h, err := uc.sessions.Acquire(ctx, identity)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	return h.Chats().List(ctx)
}

func (uc *implUseCase) GetChat(ctx context.Context, identity, chatID string) (model.ChatMetadata, error) {
	if identity == "" {
		return model.ChatMetadata{}, chat.ErrEmptyIdentity
	}

	h, err := uc.sessions.Acquire(ctx, identity)
	if err != nil {
		return model.ChatMetadata{}, err
	}
	defer h.Close()

	meta, err := h.Chats().Get(ctx, chatID)
	if errors.Is(err, chatRepo.ErrNotFound) {
		return model.ChatMetadata{}, chat.ErrChatNotFound
	}
	return meta, err
}

func (uc *implUseCase) DeleteChat(ctx context.Context, identity, chatID string) (bool, error) {
	if identity == "" {
		return false, chat.ErrEmptyIdentity
	}

	h, err := uc.sessions.Acquire(ctx, identity)
	if err != nil {
		return false, err
	}
	defer h.Close()

	unlock := uc.locks.Lock(identity + "/" + chatID)
	defer unlock()

	return h.Chats().Delete(ctx, chatID)
}

// History returns the newest Limit messages of a chat in order.
func (uc *implUseCase) History(ctx context.Context, in chat.HistoryInput) ([]model.ChatMessage, error) {
	if in.Identity == "" {
		return nil, chat.ErrEmptyIdentity
	}
	if in.ChatID == "" {
		in.ChatID = chat.DefaultChatID
	}

	h, err := uc.sessions.Acquire(ctx, in.Identity)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	return h.Chats().Messages(ctx, in.ChatID, in.Limit)
}
