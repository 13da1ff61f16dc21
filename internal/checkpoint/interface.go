package checkpoint

import (
	"context"

	"helpdesk-automation/internal/model"
)

// Store persists one ConversationState per thread id.
//
// Save is optimistic: state.Version must equal the stored version (0 for a
// thread that does not exist yet). On success the stored version and
// state.Version both become state.Version+1. A mismatch returns
// ErrVersionConflict and leaves the stored record untouched.
type Store interface {
	Save(ctx context.Context, state *model.ConversationState) error
	Load(ctx context.Context, threadID string) (model.ConversationState, error)
	Delete(ctx context.Context, threadID string) (bool, error)
	Close() error
}
