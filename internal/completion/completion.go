// Package completion is the prompt/response boundary to the LLM providers.
// Every call is bounded by a timeout and every failure is reported as
// ErrUnavailable so callers can take their fallback path.
package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helpdesk-automation/internal/model"
	"helpdesk-automation/pkg/llmprovider"
	"helpdesk-automation/pkg/log"
)

var (
	// ErrUnavailable marks a failed or timed out completion call.
	ErrUnavailable = errors.New("completion service unavailable")
	// ErrTimeout is wrapped together with ErrUnavailable when the call timed out.
	ErrTimeout = errors.New("completion timed out")
)

// Service is the completion contract consumed by the classifier, memory
// extraction and the chat turn.
type Service interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Converse(ctx context.Context, system string, messages []model.ChatMessage) (string, error)
}

// Generator is satisfied by *llmprovider.Manager.
type Generator interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

type Options struct {
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

type implService struct {
	gen  Generator
	opts Options
	l    log.Logger
}

func New(gen Generator, opts Options, l log.Logger) Service {
	return &implService{gen: gen, opts: opts, l: l}
}

func (s *implService) Complete(ctx context.Context, prompt string) (string, error) {
	req := llmprovider.UserPrompt(prompt)
	return s.generate(ctx, req)
}

func (s *implService) Converse(ctx context.Context, system string, messages []model.ChatMessage) (string, error) {
	req := &llmprovider.Request{SystemInstruction: system}
	for _, m := range messages {
		switch m.Role {
		case model.RoleSystem:
			// system entries are folded into the instruction
			if req.SystemInstruction == "" {
				req.SystemInstruction = m.Content
			} else {
				req.SystemInstruction += "\n\n" + m.Content
			}
		case model.RoleAssistant:
			req.Messages = append(req.Messages, llmprovider.Message{Role: "assistant", Text: m.Content})
		default:
			req.Messages = append(req.Messages, llmprovider.Message{Role: "user", Text: m.Content})
		}
	}
	return s.generate(ctx, req)
}

func (s *implService) generate(ctx context.Context, req *llmprovider.Request) (string, error) {
	req.Temperature = s.opts.Temperature
	req.MaxTokens = s.opts.MaxTokens

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	type result struct {
		resp *llmprovider.Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := s.gen.GenerateContent(ctx, req)
		done <- result{resp, err}
	}()

	select {
	case <-ctx.Done():
		s.l.Warnf(ctx, "completion: call abandoned: %v", ctx.Err())
		return "", fmt.Errorf("%w: %w: %v", ErrUnavailable, ErrTimeout, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, r.err)
		}
		text := r.resp.Text()
		if text == "" {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, llmprovider.ErrEmptyResponse)
		}
		return text, nil
	}
}
