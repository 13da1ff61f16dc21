package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"helpdesk-automation/internal/checkpoint"
	"helpdesk-automation/internal/helpdesk"
	"helpdesk-automation/internal/helpdesk/engine"
	"helpdesk-automation/internal/model"
)

// SubmitQuery starts a run on a new or terminal thread, or continues an
// interrupted run of the same query.
func (uc *implUseCase) SubmitQuery(ctx context.Context, input helpdesk.SubmitQueryInput) (model.ConversationState, error) {
	threadID := strings.TrimSpace(input.ThreadID)
	query := strings.TrimSpace(input.Query)
	if threadID == "" {
		return model.ConversationState{}, helpdesk.ErrEmptyThreadID
	}
	if query == "" {
		return model.ConversationState{}, helpdesk.ErrEmptyQuery
	}

	unlock := uc.locks.Lock(threadID)
	defer unlock()

	state, err := uc.store.Load(ctx, threadID)
	switch {
	case errors.Is(err, checkpoint.ErrNotFound):
		state = model.ConversationState{ThreadID: threadID}
		engine.Begin(&state, query, uc.now())
		uc.l.Infof(ctx, "helpdesk.usecase.SubmitQuery: new thread=%s", threadID)
	case err != nil:
		uc.l.Errorf(ctx, "helpdesk.usecase.SubmitQuery: load thread=%s: %v", threadID, err)
		return model.ConversationState{}, &helpdesk.PersistenceError{Op: "load", ThreadID: threadID, Err: err}
	case state.Terminal():
		engine.Begin(&state, query, uc.now())
		uc.l.Infof(ctx, "helpdesk.usecase.SubmitQuery: thread=%s starts run %d", threadID, state.Run)
	case state.Suspended():
		return state, fmt.Errorf("%w: thread %s is awaiting a human response", helpdesk.ErrInvalidState, threadID)
	case state.Query != query:
		return state, fmt.Errorf("%w: thread %s has an unfinished run for another query", helpdesk.ErrInvalidState, threadID)
	default:
		uc.l.Infof(ctx, "helpdesk.usecase.SubmitQuery: thread=%s continues at %s", threadID, state.Next)
	}

	if err := uc.engine.Run(ctx, &state, uc.save); err != nil {
		return model.ConversationState{}, err
	}
	return state, nil
}

func (uc *implUseCase) save(ctx context.Context, s *model.ConversationState) error {
	return uc.store.Save(ctx, s)
}
