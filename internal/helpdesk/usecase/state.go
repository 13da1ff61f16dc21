package usecase

import (
	"context"
	"errors"
	"strings"

	"helpdesk-automation/internal/checkpoint"
	"helpdesk-automation/internal/helpdesk"
	"helpdesk-automation/internal/model"
)

func (uc *implUseCase) GetState(ctx context.Context, threadID string) (model.ConversationState, error) {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return model.ConversationState{}, helpdesk.ErrEmptyThreadID
	}

	state, err := uc.store.Load(ctx, threadID)
	if errors.Is(err, checkpoint.ErrNotFound) {
		return model.ConversationState{}, helpdesk.ErrThreadNotFound
	}
	if err != nil {
		return model.ConversationState{}, &helpdesk.PersistenceError{Op: "load", ThreadID: threadID, Err: err}
	}
	return state, nil
}

func (uc *implUseCase) DeleteThread(ctx context.Context, threadID string) (bool, error) {
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return false, helpdesk.ErrEmptyThreadID
	}

	unlock := uc.locks.Lock(threadID)
	defer unlock()

	ok, err := uc.store.Delete(ctx, threadID)
	if err != nil {
		return false, &helpdesk.PersistenceError{Op: "delete", ThreadID: threadID, Err: err}
	}
	if ok {
		uc.l.Infof(ctx, "helpdesk.usecase.DeleteThread: thread=%s deleted", threadID)
	}
	return ok, nil
}
