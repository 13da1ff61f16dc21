package usecase

import (
	"time"

	"helpdesk-automation/internal/completion"
	"helpdesk-automation/internal/memory"
	"helpdesk-automation/internal/memory/repository"
	"helpdesk-automation/pkg/embedding"
	pkgLog "helpdesk-automation/pkg/log"
)

type implStore struct {
	l             pkgLog.Logger
	identity      string
	completion    completion.Service
	embedder      embedding.Embedder
	index         repository.Index
	records       repository.RecordLog
	rules         []memory.Rule
	minImportance int
	now           func() time.Time
}

// Options tunes extraction. Zero values take the package defaults.
type Options struct {
	MinImportance int
	Rules         []memory.Rule
}

// New creates the memory Store of one identity. A nil completion service
// always uses the keyword rules.
func New(
	l pkgLog.Logger,
	identity string,
	svc completion.Service,
	embedder embedding.Embedder,
	index repository.Index,
	records repository.RecordLog,
	opts Options,
) *implStore {
	if opts.MinImportance <= 0 {
		opts.MinImportance = memory.DefaultMinImportance
	}
	if opts.Rules == nil {
		opts.Rules = memory.DefaultRules
	}
	return &implStore{
		l:             l,
		identity:      identity,
		completion:    svc,
		embedder:      embedder,
		index:         index,
		records:       records,
		rules:         opts.Rules,
		minImportance: opts.MinImportance,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *implStore) Identity() string {
	return s.identity
}
