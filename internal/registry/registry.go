// Package registry owns the per-identity stores. At most one session is live
// per identity: Acquire opens it lazily, Release closes it once every handle
// is returned, and an idle janitor releases sessions nobody used for IdleTTL.
package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"helpdesk-automation/pkg/log"
)

// Opener opens the stores of identity rooted at dir.
type Opener func(ctx context.Context, identity, dir string) (Resources, error)

type Config struct {
	DataDir string
	IdleTTL time.Duration
}

type Registry struct {
	l      log.Logger
	cfg    Config
	open   Opener
	now    func() time.Time
	mu       sync.Mutex
	items    map[string]*session
	deleting map[string]chan struct{} // closed once the identity's data is removed
	closed   bool
}

var identityPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidIdentity reports whether id is safe to use as a directory name.
func ValidIdentity(id string) bool {
	return identityPattern.MatchString(id) && id != "." && id != ".."
}

func New(l log.Logger, cfg Config, open Opener) *Registry {
	return &Registry{
		l:     l,
		cfg:   cfg,
		open:  open,
		now:      time.Now,
		items:    make(map[string]*session),
		deleting: make(map[string]chan struct{}),
	}
}

// Dir is the data directory of identity.
func (r *Registry) Dir(identity string) string {
	return filepath.Join(r.cfg.DataDir, identity)
}

// Acquire returns a handle on the live session of identity, opening it if
// needed. Stores are opened without holding the registry lock; concurrent
// callers for the same identity wait for that open. When the session is being
// released or the identity deleted, Acquire waits and opens a fresh one.
func (r *Registry) Acquire(ctx context.Context, identity string) (*Handle, error) {
	if !ValidIdentity(identity) {
		return nil, ErrInvalidIdentity
	}

	for {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return nil, ErrClosed
		}

		var wait chan struct{}
		s, ok := r.items[identity]
		switch {
		case r.deleting[identity] != nil:
			wait = r.deleting[identity]
		case ok && s.opening:
			wait = s.ready
		case ok && s.releasing:
			wait = s.done
		}
		if wait != nil {
			r.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if !ok {
			s = &session{identity: identity, opening: true, ready: make(chan struct{}), done: make(chan struct{})}
			r.items[identity] = s
			r.mu.Unlock()

			res, err := r.open(ctx, identity, r.Dir(identity))

			r.mu.Lock()
			s.opening = false
			close(s.ready)
			if err != nil {
				delete(r.items, identity)
				close(s.done)
				r.mu.Unlock()
				return nil, fmt.Errorf("open session %s: %w", identity, err)
			}
			s.res = res
			r.l.Infof(ctx, "registry: opened session for %s", identity)
		}

		s.refs++
		s.lastUsed = r.now()
		r.mu.Unlock()
		return &Handle{r: r, s: s}, nil
	}
}

func (r *Registry) put(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.refs--
	s.lastUsed = r.now()
	if s.releasing && s.refs == 0 {
		r.closeLocked(s)
	}
}

// Release closes the session of identity. Sessions still in use close when
// their last handle is returned. The returned channel is closed once the
// stores are closed; it is nil if no session was live.
func (r *Registry) Release(identity string) <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[identity]
	if !ok {
		return nil
	}
	s.releasing = true
	if s.refs == 0 && !s.opening {
		r.closeLocked(s)
	}
	return s.done
}

// closeLocked must be called with r.mu held.
func (r *Registry) closeLocked(s *session) {
	if s.res.Close != nil {
		if err := s.res.Close(); err != nil {
			r.l.Warnf(context.Background(), "registry: close session %s: %v", s.identity, err)
		}
	}
	delete(r.items, s.identity)
	close(s.done)
	r.l.Infof(context.Background(), "registry: closed session for %s", s.identity)
}

// DeleteIdentity releases the session of identity, waits for it to close,
// then removes the identity's data directory. Acquire calls for identity
// block until the removal is done. It reports whether any data existed.
func (r *Registry) DeleteIdentity(ctx context.Context, identity string) (bool, error) {
	if !ValidIdentity(identity) {
		return false, ErrInvalidIdentity
	}

	gate, err := r.beginDelete(ctx, identity)
	if err != nil {
		return false, err
	}
	defer func() {
		r.mu.Lock()
		delete(r.deleting, identity)
		r.mu.Unlock()
		close(gate)
	}()

	if done := r.Release(identity); done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	dir := r.Dir(identity)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := os.RemoveAll(dir); err != nil {
		return false, fmt.Errorf("remove %s: %w", dir, err)
	}
	r.l.Infof(ctx, "registry: deleted identity %s", identity)
	return true, nil
}

// beginDelete claims the deletion of identity, waiting out a concurrent one.
func (r *Registry) beginDelete(ctx context.Context, identity string) (chan struct{}, error) {
	for {
		r.mu.Lock()
		wait, busy := r.deleting[identity]
		if !busy {
			gate := make(chan struct{})
			r.deleting[identity] = gate
			r.mu.Unlock()
			return gate, nil
		}
		r.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Identities lists identities that have a data directory, sorted.
func (r *Registry) Identities() ([]string, error) {
	entries, err := os.ReadDir(r.cfg.DataDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	out := []string{}
	for _, e := range entries {
		if e.IsDir() && ValidIdentity(e.Name()) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.items {
		if !s.opening {
			n++
		}
	}
	return n
}

// Run releases idle sessions every IdleTTL/2 until ctx is done. It returns
// immediately when IdleTTL is not positive.
func (r *Registry) Run(ctx context.Context) {
	if r.cfg.IdleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(r.cfg.IdleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Sweep releases sessions that have no handles and were last used more than
// IdleTTL ago. It returns the number released.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.cfg.IdleTTL)
	n := 0
	for _, s := range r.items {
		if s.refs == 0 && !s.releasing && !s.opening && s.lastUsed.Before(cutoff) {
			s.releasing = true
			r.closeLocked(s)
			n++
		}
	}
	return n
}

// Close releases every idle session and rejects further Acquire calls.
// Sessions still in use close when their last handle is returned.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for _, s := range r.items {
		if s.releasing {
			continue
		}
		s.releasing = true
		if s.refs == 0 && !s.opening {
			r.closeLocked(s)
		}
	}
}
