package usecase

import (
	"context"
	"time"

	"helpdesk-automation/internal/chat"
	"helpdesk-automation/internal/completion"
	"helpdesk-automation/internal/registry"
	"helpdesk-automation/pkg/keylock"
	pkgLog "helpdesk-automation/pkg/log"
)

// Sessions is satisfied by *registry.Registry.
type Sessions interface {
	Acquire(ctx context.Context, identity string) (*registry.Handle, error)
	DeleteIdentity(ctx context.Context, identity string) (bool, error)
	Identities() ([]string, error)
}

type Options struct {
	TokenBudget int
	TitleMaxLen int
	SearchK     int
	HistorySize int // messages loaded as context; 0 loads the whole transcript
	Counter     chat.TokenCounter
}

const (
	defaultTokenBudget = 4000
	defaultTitleMaxLen = 50
	defaultSearchK     = 3
)

type implUseCase struct {
	l          pkgLog.Logger
	sessions   Sessions
	completion completion.Service
	opts       Options
	locks      *keylock.Map
	now        func() time.Time
}

// New creates the chat UseCase.
func New(l pkgLog.Logger, sessions Sessions, svc completion.Service, opts Options) *implUseCase {
	if opts.TokenBudget <= 0 {
		opts.TokenBudget = defaultTokenBudget
	}
	if opts.TitleMaxLen <= 0 {
		opts.TitleMaxLen = defaultTitleMaxLen
	}
	if opts.SearchK <= 0 {
		opts.SearchK = defaultSearchK
	}
	if opts.Counter == nil {
		opts.Counter = chat.ApproxTokens
	}
	return &implUseCase{
		l:          l,
		sessions:   sessions,
		completion: svc,
		opts:       opts,
		locks:      keylock.New(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}
