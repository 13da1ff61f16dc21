package engine

import (
	"context"
	"errors"
	"fmt"

	"helpdesk-automation/internal/classifier"
	"helpdesk-automation/internal/composer"
	"helpdesk-automation/internal/helpdesk"
	"helpdesk-automation/internal/model"
	"helpdesk-automation/internal/retrieval"
)

// Handler runs one node. It reads a private copy of the state and returns
// the partial update to merge.
type Handler func(ctx context.Context, s model.ConversationState) (Update, error)

// Retriever is the part of the retrieval use case the engine needs.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (retrieval.Result, error)
}

// Decider is the part of the classifier the engine needs.
type Decider interface {
	Classify(ctx context.Context, in classifier.Input) classifier.Decision
}

const (
	historyEscalated  = "Escalated to human agent, awaiting intervention."
	historyHumanReply = "Human agent provided response."
)

func (e *Engine) retrieve(ctx context.Context, s model.ConversationState) (Update, error) {
	res, err := e.retriever.Retrieve(ctx, s.Query)
	if err != nil {
		terr := &helpdesk.TransientError{Op: "retrieve", Err: err}
		e.l.Warnf(ctx, "helpdesk.engine.retrieve: thread=%s degraded to empty context: %v", s.ThreadID, terr)
		return Update{
			Retrieval: &RetrievalUpdate{},
			History: []string{
				fmt.Sprintf("Retrieval unavailable, continuing without context: %v", err),
				"Confidence: 0.00",
				"Sources consulted: 0",
			},
		}, nil
	}

	var ctxText *string
	if res.Context != "" {
		ctxText = model.StringPtr(res.Context)
	}
	return Update{
		Retrieval: &RetrievalUpdate{Context: ctxText, Sources: res.Sources, Confidence: res.Confidence},
		History: []string{
			"Retrieval executed over the knowledge base",
			fmt.Sprintf("Confidence: %.2f", res.Confidence),
			fmt.Sprintf("Sources consulted: %d", len(res.Sources)),
		},
	}, nil
}

func (e *Engine) classify(ctx context.Context, s model.ConversationState) (Update, error) {
	if s.Category != model.CategoryUnset {
		return Update{}, fmt.Errorf("%w: thread %s already classified as %s", helpdesk.ErrInvalidState, s.ThreadID, s.Category)
	}

	in := classifier.Input{Query: s.Query, Confidence: s.Confidence}
	if s.RetrievedContext != nil {
		in.RetrievedContext = *s.RetrievedContext
	}
	d := e.decider.Classify(ctx, in)

	return Update{
		Category:      d.Category,
		RequiresHuman: boolPtr(d.Category == model.CategoryEscalated),
		History:       d.History,
	}, nil
}

func (e *Engine) escalate(ctx context.Context, s model.ConversationState) (Update, error) {
	return Update{
		RequiresHuman: boolPtr(true),
		History:       []string{historyEscalated},
	}, nil
}

func (e *Engine) processHumanReply(ctx context.Context, s model.ConversationState) (Update, error) {
	if s.HumanResponse == nil || *s.HumanResponse == "" {
		return Update{}, errors.Join(helpdesk.ErrInvalidState, helpdesk.ErrEmptyResponse)
	}
	return Update{
		FinalResponse: s.HumanResponse,
		History:       []string{historyHumanReply},
	}, nil
}

func (e *Engine) compose(ctx context.Context, s model.ConversationState) (Update, error) {
	res := composer.Compose(s)
	if res.FinalResponse == nil {
		e.l.Infof(ctx, "helpdesk.engine.compose: thread=%s keeps existing final response", s.ThreadID)
	}
	return Update{FinalResponse: res.FinalResponse, History: []string{res.History}}, nil
}
