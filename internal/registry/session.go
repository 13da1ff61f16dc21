package registry

import (
	"sync"
	"time"

	chatRepo "helpdesk-automation/internal/chat/repository"
	"helpdesk-automation/internal/memory"
)

// Resources are the per-identity stores behind a session.
type Resources struct {
	Memory memory.Store
	Chats  chatRepo.Repository
	Close  func() error
}

// session is the single live instance of an identity.
type session struct {
	identity string
	res      Resources

	refs      int
	lastUsed  time.Time
	opening   bool
	releasing bool
	ready     chan struct{} // closed once the open attempt finished
	done      chan struct{} // closed once res is closed
}

// Handle is a borrowed session. Callers must call Close when done; the
// underlying stores stay open until the last handle of a released session
// is closed.
type Handle struct {
	r    *Registry
	s    *session
	once sync.Once
}

func (h *Handle) Identity() string           { return h.s.identity }
func (h *Handle) Memory() memory.Store       { return h.s.res.Memory }
func (h *Handle) Chats() chatRepo.Repository { return h.s.res.Chats }

func (h *Handle) Close() {
	h.once.Do(func() { h.r.put(h.s) })
}
