package helpdesk

import (
	"context"

	"helpdesk-automation/internal/model"
)

// UseCase is the helpdesk API.
type UseCase interface {
	// SubmitQuery runs the workflow until it suspends for a human or terminates.
	SubmitQuery(ctx context.Context, input SubmitQueryInput) (model.ConversationState, error)

	// SubmitHumanResponse resumes a suspended thread. A terminal escalated
	// thread is returned unchanged with OutcomeAlreadyTerminal; a thread that
	// was never escalated is rejected with ErrInvalidState.
	SubmitHumanResponse(ctx context.Context, input HumanResponseInput) (model.ConversationState, ResumeOutcome, error)

	// GetState returns the last persisted state or ErrThreadNotFound.
	GetState(ctx context.Context, threadID string) (model.ConversationState, error)

	// DeleteThread removes the thread checkpoint, reporting whether it existed.
	DeleteThread(ctx context.Context, threadID string) (bool, error)
}
