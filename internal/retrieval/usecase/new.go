package usecase

import (
	"time"

	"helpdesk-automation/internal/retrieval"
	"helpdesk-automation/internal/retrieval/repository"
	"helpdesk-automation/pkg/embedding"
	pkgLog "helpdesk-automation/pkg/log"
)

type implUseCase struct {
	l        pkgLog.Logger
	index    repository.Index
	embedder embedding.Embedder
	params   retrieval.Params
	timeout  time.Duration
}

// New creates a retrieval UseCase. A zero timeout disables the per-call bound.
func New(
	l pkgLog.Logger,
	index repository.Index,
	embedder embedding.Embedder,
	params retrieval.Params,
	timeout time.Duration,
) *implUseCase {
	return &implUseCase{
		l:        l,
		index:    index,
		embedder: embedder,
		params:   params.Normalize(),
		timeout:  timeout,
	}
}
