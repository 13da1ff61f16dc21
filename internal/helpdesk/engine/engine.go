// Package engine runs the helpdesk workflow graph over a ConversationState.
// The engine holds no per-thread data: where to continue is read from the
// state's Status and Next fields.
package engine

import (
	"context"
	"fmt"
	"time"

	"helpdesk-automation/internal/helpdesk"
	"helpdesk-automation/internal/model"
	pkgLog "helpdesk-automation/pkg/log"
)

// Persister durably stores the state reached at a node boundary. It may
// update s.Version.
type Persister func(ctx context.Context, s *model.ConversationState) error

type Engine struct {
	l         pkgLog.Logger
	retriever Retriever
	decider   Decider
	nodes     map[NodeID]Node
	now       func() time.Time
}

// New builds the transition table over the given collaborators.
func New(l pkgLog.Logger, retriever Retriever, decider Decider) *Engine {
	e := &Engine{l: l, retriever: retriever, decider: decider, now: utcNow}
	e.nodes = map[NodeID]Node{
		NodeRetrieve:          {Handle: e.retrieve, Route: always(NodeClassify)},
		NodeClassify:          {Handle: e.classify, Route: RouteAfterClassify},
		NodeEscalate:          {Handle: e.escalate, Route: RouteAfterEscalate},
		NodeAwaitHuman:        {Route: RouteAfterEscalate, Suspend: true},
		NodeProcessHumanReply: {Handle: e.processHumanReply, Route: always(NodeEnd)},
		NodeCompose:           {Handle: e.compose, Route: always(NodeEnd)},
	}
	return e
}

// Nodes returns the transition table.
func (e *Engine) Nodes() map[NodeID]Node {
	return e.nodes
}

// Begin resets s for a new run on query. History is kept.
func Begin(s *model.ConversationState, query string, now time.Time) {
	s.Query = query
	s.Category = model.CategoryUnset
	s.RetrievedContext = nil
	s.Sources = nil
	s.Confidence = 0
	s.RequiresHuman = false
	s.HumanResponse = nil
	s.FinalResponse = nil
	s.Status = model.StatusRunning
	s.Next = string(Start)
	s.Run++
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}

// Run executes nodes from s.Next until the thread suspends or terminates,
// persisting after every node. On error the checkpoint keeps the last
// persisted state and *s is not advanced past the failed node, so the call
// can be retried.
func (e *Engine) Run(ctx context.Context, s *model.ConversationState, persist Persister) error {
	for {
		if s.Status != model.StatusRunning {
			return nil
		}

		id := NodeID(s.Next)
		node, ok := e.nodes[id]
		if !ok {
			return fmt.Errorf("%w: thread %s has unknown next node %q", helpdesk.ErrInvalidState, s.ThreadID, s.Next)
		}

		next := s.Clone()
		if node.Suspend {
			to := node.Route(next)
			if to == id {
				// nothing to do until a human replies
				next.Status = model.StatusSuspended
				*s = next
				return nil
			}
			s.Next = string(to)
			continue
		}

		upd, err := node.Handle(ctx, s.Clone())
		if err != nil {
			e.l.Errorf(ctx, "helpdesk.engine.Run: thread=%s node=%s failed: %v", s.ThreadID, id, err)
			return fmt.Errorf("node %s: %w", id, err)
		}
		upd.Apply(&next)

		to := node.Route(next)
		next.Next = string(to)
		switch {
		case to == NodeEnd:
			next.Status = model.StatusTerminal
			next.Next = ""
		case e.nodes[to].Suspend && e.nodes[to].Route(next) == to:
			next.Status = model.StatusSuspended
		}
		next.UpdatedAt = e.now()

		if err := persist(ctx, &next); err != nil {
			e.l.Errorf(ctx, "helpdesk.engine.Run: thread=%s persist after %s failed: %v", s.ThreadID, id, err)
			return &helpdesk.PersistenceError{Op: "save after " + string(id), ThreadID: s.ThreadID, Err: err}
		}
		e.l.Debugf(ctx, "helpdesk.engine.Run: thread=%s %s -> %s status=%s version=%d", s.ThreadID, id, to, next.Status, next.Version)
		*s = next
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}
