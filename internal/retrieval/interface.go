package retrieval

import "context"

// UseCase is the RetrievalService contract.
type UseCase interface {
	// Retrieve runs Search with the configured defaults and aggregates the
	// passages into context, sources and confidence.
	Retrieve(ctx context.Context, query string) (Result, error)
	// Search returns up to p.K diverse passages chosen from p.FetchK candidates.
	Search(ctx context.Context, query string, p Params) ([]Passage, error)
	// Ingest embeds and indexes documents, returning how many were indexed.
	Ingest(ctx context.Context, docs []Document) (int, error)
}
