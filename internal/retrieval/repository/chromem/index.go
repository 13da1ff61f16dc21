package chromem

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"

	"helpdesk-automation/internal/retrieval"
	"helpdesk-automation/internal/retrieval/repository"
	"helpdesk-automation/pkg/log"
)

const metaSource = "source"

type implIndex struct {
	col *chromem.Collection
	l   log.Logger
}

// Open returns an Index over the named collection. An empty path keeps the
// database in memory.
func Open(path, collection string, l log.Logger) (repository.Index, error) {
	var db *chromem.DB
	if path == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open chromem db at %s: %w", path, err)
		}
	}
	return New(db, collection, l)
}

// New wraps an existing chromem database.
func New(db *chromem.DB, collection string, l log.Logger) (repository.Index, error) {
	// vectors are always precomputed, the embedding func is never invoked
	col, err := db.GetOrCreateCollection(collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection %s: %w", collection, err)
	}
	return &implIndex{col: col, l: l}, nil
}

func (i *implIndex) Query(ctx context.Context, vector []float32, n int) ([]retrieval.Candidate, error) {
	count := i.col.Count()
	if count == 0 || n <= 0 {
		return nil, nil
	}
	// chromem rejects nResults larger than the collection
	if n > count {
		n = count
	}

	results, err := i.col.QueryEmbedding(ctx, vector, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: chromem query: %v", retrieval.ErrUnavailable, err)
	}

	out := make([]retrieval.Candidate, 0, len(results))
	for _, r := range results {
		out = append(out, retrieval.Candidate{
			ID:        r.ID,
			Text:      r.Content,
			Source:    r.Metadata[metaSource],
			Score:     float64(r.Similarity),
			Embedding: r.Embedding,
		})
	}
	i.l.Debugf(ctx, "chromem index: query n=%d returned %d candidates", n, len(out))
	return out, nil
}

func (i *implIndex) Upsert(ctx context.Context, docs []retrieval.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("chromem index: %d docs but %d vectors", len(docs), len(vectors))
	}

	batch := make([]chromem.Document, len(docs))
	for j, d := range docs {
		batch[j] = chromem.Document{
			ID:        d.ID,
			Content:   d.Text,
			Embedding: vectors[j],
			Metadata:  map[string]string{metaSource: d.Source},
		}
	}

	if err := i.col.AddDocuments(ctx, batch, runtime.NumCPU()); err != nil {
		return fmt.Errorf("chromem index: add documents: %w", err)
	}
	return nil
}

func (i *implIndex) Count(ctx context.Context) (int, error) {
	return i.col.Count(), nil
}
