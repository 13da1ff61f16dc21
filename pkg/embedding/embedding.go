// Package embedding provides text embedders used by the retrieval index and
// long-term memory.
package embedding

import "context"

// Embedder turns texts into vectors, one per input, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// DocumentEmbedder is implemented by embedders that encode stored passages
// differently from search queries.
type DocumentEmbedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedDocuments encodes passages for storage, using e's document mode when
// it has one.
func EmbedDocuments(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	if d, ok := e.(DocumentEmbedder); ok {
		return d.EmbedDocuments(ctx, texts)
	}
	return e.Embed(ctx, texts)
}

// EmbedOne is a convenience for single-text calls.
func EmbedOne(ctx context.Context, e Embedder, text string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}
