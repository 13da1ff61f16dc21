package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"helpdesk-automation/internal/checkpoint"
	"helpdesk-automation/internal/helpdesk"
	"helpdesk-automation/internal/model"
)

// SubmitHumanResponse resumes a suspended thread with the agent's reply.
func (uc *implUseCase) SubmitHumanResponse(ctx context.Context, input helpdesk.HumanResponseInput) (model.ConversationState, helpdesk.ResumeOutcome, error) {
	threadID := strings.TrimSpace(input.ThreadID)
	text := strings.TrimSpace(input.Text)
	if threadID == "" {
		return model.ConversationState{}, "", helpdesk.ErrEmptyThreadID
	}
	if text == "" {
		return model.ConversationState{}, "", helpdesk.ErrEmptyResponse
	}

	unlock := uc.locks.Lock(threadID)
	defer unlock()

	state, err := uc.store.Load(ctx, threadID)
	switch {
	case errors.Is(err, checkpoint.ErrNotFound):
		return model.ConversationState{}, helpdesk.OutcomeUnknownThread, helpdesk.ErrThreadNotFound
	case err != nil:
		return model.ConversationState{}, "", &helpdesk.PersistenceError{Op: "load", ThreadID: threadID, Err: err}
	case state.Category != model.CategoryEscalated:
		return state, helpdesk.OutcomeNotSuspended,
			fmt.Errorf("%w: thread %s was never escalated", helpdesk.ErrInvalidState, threadID)
	case state.Terminal():
		uc.l.Infof(ctx, "helpdesk.usecase.SubmitHumanResponse: thread=%s already terminal, no-op", threadID)
		return state, helpdesk.OutcomeAlreadyTerminal, nil
	case !state.Suspended():
		return state, helpdesk.OutcomeNotSuspended,
			fmt.Errorf("%w: thread %s is not awaiting a human response", helpdesk.ErrInvalidState, threadID)
	}

	state.HumanResponse = model.StringPtr(text)
	state.Status = model.StatusRunning

	if err := uc.engine.Run(ctx, &state, uc.save); err != nil {
		return model.ConversationState{}, "", err
	}
	uc.l.Infof(ctx, "helpdesk.usecase.SubmitHumanResponse: thread=%s resumed, status=%s", threadID, state.Status)
	return state, helpdesk.OutcomeResumed, nil
}
