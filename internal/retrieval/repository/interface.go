package repository

import (
	"context"

	"helpdesk-automation/internal/retrieval"
)

// Index is a vector similarity index over knowledge base passages.
type Index interface {
	// Query returns up to n nearest candidates with their vectors.
	Query(ctx context.Context, vector []float32, n int) ([]retrieval.Candidate, error)
	// Upsert stores passages with precomputed vectors.
	Upsert(ctx context.Context, docs []retrieval.Document, vectors [][]float32) error
	// Count returns the number of indexed passages.
	Count(ctx context.Context) (int, error)
}
