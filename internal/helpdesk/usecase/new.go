package usecase

import (
	"time"

	"helpdesk-automation/internal/checkpoint"
	"helpdesk-automation/internal/helpdesk/engine"
	"helpdesk-automation/pkg/keylock"
	pkgLog "helpdesk-automation/pkg/log"
)

type implUseCase struct {
	l      pkgLog.Logger
	engine *engine.Engine
	store  checkpoint.Store
	locks  *keylock.Map
	now    func() time.Time
}

// New creates the helpdesk UseCase over an engine and a checkpoint store.
func New(l pkgLog.Logger, eng *engine.Engine, store checkpoint.Store) *implUseCase {
	return &implUseCase{
		l:      l,
		engine: eng,
		store:  store,
		locks:  keylock.New(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}
