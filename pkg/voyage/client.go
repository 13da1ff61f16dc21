package voyage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client is the Voyage AI embedding API client. Embed encodes search
// queries and EmbedDocuments encodes stored passages. Safe for concurrent use
// once configured.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	batch      int
	httpClient *http.Client
}

func New(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("voyage: API key is required")
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		batch:      MaxBatch,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}, nil
}

func (c *Client) WithModel(model string) *Client {
	if model != "" {
		c.model = model
	}
	return c
}

func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// WithBatchSize caps the inputs per request, up to MaxBatch.
func (c *Client) WithBatchSize(n int) *Client {
	if n > 0 && n <= MaxBatch {
		c.batch = n
	}
	return c
}

func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return c.embed(ctx, texts, InputTypeQuery)
}

func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return c.embed(ctx, texts, InputTypeDocument)
}

// embed splits texts into requests of at most c.batch inputs and returns
// the vectors in input order.
func (c *Client) embed(ctx context.Context, texts []string, inputType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, errors.New("voyage: no texts provided")
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batch {
		end := start + c.batch
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := c.request(ctx, texts[start:end], inputType)
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (c *Client) request(ctx context.Context, texts []string, inputType string) ([][]float32, error) {
	payload, err := json.Marshal(EmbedRequest{Input: texts, Model: c.model, InputType: inputType})
	if err != nil {
		return nil, fmt.Errorf("voyage: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("voyage: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("voyage: call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, decodeError(resp.StatusCode, raw)
	}

	var body EmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("voyage: decode response: %w", err)
	}
	if len(body.Data) != len(texts) {
		return nil, fmt.Errorf("voyage: got %d embeddings for %d texts", len(body.Data), len(texts))
	}

	vecs := make([][]float32, len(texts))
	for _, d := range body.Data {
		if d.Index < 0 || d.Index >= len(texts) || vecs[d.Index] != nil {
			return nil, fmt.Errorf("voyage: bad embedding index %d", d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}

func decodeError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Detail != "":
			apiErr.Message = body.Detail
		case body.Error.Message != "":
			apiErr.Message = body.Error.Message
		}
	}
	return apiErr
}
