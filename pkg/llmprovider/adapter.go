package llmprovider

import (
	"context"
	"errors"

	"helpdesk-automation/pkg/deepseek"
	"helpdesk-automation/pkg/gemini"
)

// GeminiAdapter adapts pkg/gemini to the Provider interface.
type GeminiAdapter struct {
	client gemini.IGemini
}

func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	msgs := make([]gemini.Message, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = gemini.Message{Role: m.Role, Text: m.Text}
	}

	resp, err := a.client.GenerateContent(ctx, &gemini.Request{
		SystemInstruction: req.SystemInstruction,
		Messages:          msgs,
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
	})
	if err != nil {
		return nil, &ProviderError{Provider: a.Name(), StatusCode: statusOf(err), Err: err}
	}
	if resp.Text == "" {
		return nil, &ProviderError{Provider: a.Name(), Err: ErrEmptyResponse}
	}

	return &Response{
		Content:      Message{Role: "assistant", Text: resp.Text},
		ProviderName: a.Name(),
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

func (a *GeminiAdapter) Name() string  { return "gemini" }
func (a *GeminiAdapter) Model() string { return a.client.Model() }

// DeepSeekAdapter adapts pkg/deepseek to the Provider interface. The system
// instruction travels as a leading system message.
type DeepSeekAdapter struct {
	client deepseek.IDeepSeek
}

func NewDeepSeekAdapter(client deepseek.IDeepSeek) *DeepSeekAdapter {
	return &DeepSeekAdapter{client: client}
}

func (a *DeepSeekAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	msgs := make([]deepseek.Message, 0, len(req.Messages)+1)
	if req.SystemInstruction != "" {
		msgs = append(msgs, deepseek.Message{Role: "system", Content: req.SystemInstruction})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, deepseek.Message{Role: m.Role, Content: m.Text})
	}

	resp, err := a.client.GenerateContent(ctx, &deepseek.Request{
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, &ProviderError{Provider: a.Name(), StatusCode: statusOf(err), Err: err}
	}
	text := resp.Reply()
	if text == "" {
		return nil, &ProviderError{Provider: a.Name(), Err: ErrEmptyResponse}
	}

	return &Response{
		Content:      Message{Role: "assistant", Text: text},
		ProviderName: a.Name(),
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

func (a *DeepSeekAdapter) Name() string  { return "deepseek" }
func (a *DeepSeekAdapter) Model() string { return a.client.Model() }

// statusOf extracts the upstream HTTP status from the client errors.
func statusOf(err error) int {
	var ge *gemini.APIError
	if errors.As(err, &ge) {
		return ge.StatusCode
	}
	var de *deepseek.APIError
	if errors.As(err, &de) {
		return de.StatusCode
	}
	return 0
}
