package usecase

import (
	"context"

	"helpdesk-automation/internal/chat"
	"helpdesk-automation/internal/model"
)

func (uc *implUseCase) SearchMemories(ctx context.Context, in chat.MemoryQuery) ([]string, error) {
	if in.Identity == "" {
		return nil, chat.ErrEmptyIdentity
	}
	if in.K <= 0 {
		in.K = uc.opts.SearchK
	}

	h, err := uc.sessions.Acquire(ctx, in.Identity)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	return h.Memory().Search(ctx, in.Query, in.K), nil
}

func (uc *implUseCase) ListMemories(ctx context.Context, identity string) ([]model.MemoryRecord, error) {
	if identity == "" {
		return nil, chat.ErrEmptyIdentity
	}

	h, err := uc.sessions.Acquire(ctx, identity)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	recs, err := h.Memory().List(ctx)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []model.MemoryRecord{}
	}
	return recs, nil
}

func (uc *implUseCase) ListIdentities(ctx context.Context) ([]string, error) {
	return uc.sessions.Identities()
}

// DeleteIdentity closes the identity's stores and removes all of its data.
func (uc *implUseCase) DeleteIdentity(ctx context.Context, identity string) (bool, error) {
	if identity == "" {
		return false, chat.ErrEmptyIdentity
	}
	return uc.sessions.DeleteIdentity(ctx, identity)
}
