package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"helpdesk-automation/internal/chat"
	chatRepo "helpdesk-automation/internal/chat/repository"
	"helpdesk-automation/internal/helpdesk"
	"helpdesk-automation/internal/model"
	"helpdesk-automation/internal/registry"
)

// Turn runs memory search, history trimming, generation and memory
// extraction for one user message.
func (uc *implUseCase) Turn(ctx context.Context, in chat.TurnInput) (chat.TurnOutput, error) {
	in.Message = strings.TrimSpace(in.Message)
	if in.Identity == "" {
		return chat.TurnOutput{}, chat.ErrEmptyIdentity
	}
	if in.Message == "" {
		return chat.TurnOutput{}, chat.ErrEmptyMessage
	}
	if in.ChatID == "" {
		in.ChatID = chat.DefaultChatID
	}

	h, err := uc.sessions.Acquire(ctx, in.Identity)
	if err != nil {
		return chat.TurnOutput{}, err
	}
	defer h.Close()

	unlock := uc.locks.Lock(in.Identity + "/" + in.ChatID)
	defer unlock()

	meta, err := uc.loadOrInit(ctx, h, in.ChatID)
	if err != nil {
		return chat.TurnOutput{}, err
	}
	if meta.Title == model.DefaultChatTitle {
		meta.Title = uc.generateTitle(ctx, in.Message)
	}

	history, err := h.Chats().Messages(ctx, in.ChatID, uc.opts.HistorySize)
	if err != nil {
		return chat.TurnOutput{}, fmt.Errorf("load history: %w", err)
	}

	memories := h.Memory().Search(ctx, in.Message, uc.opts.SearchK)

	userMsg := model.ChatMessage{Role: model.RoleUser, Content: in.Message, Timestamp: uc.now()}
	window := make([]model.ChatMessage, 0, len(history)+2)
	window = append(window, model.ChatMessage{Role: model.RoleSystem, Content: systemPrompt(memories)})
	window = append(window, history...)
	window = append(window, userMsg)
	window = chat.Trim(window, uc.opts.TokenBudget, uc.opts.Counter)

	reply, genErr := uc.generate(ctx, window)

	// extraction runs once per distinct user message, also when generation failed
	if meta.LastExtraction != in.Message {
		if _, err := h.Memory().ExtractAndStore(ctx, in.Message); err != nil {
			uc.l.Warnf(ctx, "chat.usecase.Turn: identity=%s memory extraction failed: %v", in.Identity, err)
		}
		meta.LastExtraction = in.Message
	}

	msgs := []model.ChatMessage{userMsg}
	if genErr == nil {
		msgs = append(msgs, model.ChatMessage{Role: model.RoleAssistant, Content: reply, Timestamp: uc.now()})
	}
	meta.MessageCount += len(msgs)
	meta.UpdatedAt = uc.now()

	if err := h.Chats().Append(ctx, meta, msgs...); err != nil {
		uc.l.Errorf(ctx, "chat.usecase.Turn: identity=%s chat=%s save failed: %v", in.Identity, in.ChatID, err)
		return chat.TurnOutput{}, fmt.Errorf("save turn: %w", err)
	}

	if genErr != nil {
		return chat.TurnOutput{}, &helpdesk.TransientError{Op: "chat.generate", Err: genErr}
	}

	return chat.TurnOutput{
		ChatID:         in.ChatID,
		Response:       reply,
		VectorMemories: memories,
		MemoriesUsed:   len(memories),
	}, nil
}

func (uc *implUseCase) generate(ctx context.Context, window []model.ChatMessage) (string, error) {
	if uc.completion == nil {
		return "", errors.New("no completion service configured")
	}
	reply, err := uc.completion.Converse(ctx, "", window)
	if err != nil {
		uc.l.Warnf(ctx, "chat.usecase.generate: %v", err)
		return "", err
	}
	return reply, nil
}

// loadOrInit returns the chat metadata, creating an untitled chat on first use.
func (uc *implUseCase) loadOrInit(ctx context.Context, h *registry.Handle, chatID string) (model.ChatMetadata, error) {
	meta, err := h.Chats().Get(ctx, chatID)
	if err == nil {
		return meta, nil
	}
	if !errors.Is(err, chatRepo.ErrNotFound) {
		return model.ChatMetadata{}, fmt.Errorf("load chat: %w", err)
	}

	now := uc.now()
	return model.ChatMetadata{
		ChatID:    chatID,
		Title:     model.DefaultChatTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
