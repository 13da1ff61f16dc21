package usecase

import (
	"context"
	"fmt"
	"strings"

	"helpdesk-automation/internal/retrieval"
	"helpdesk-automation/pkg/embedding"
)

const ingestBatchSize = 64

// Ingest embeds and indexes knowledge base passages. Blank passages are skipped.
func (uc *implUseCase) Ingest(ctx context.Context, docs []retrieval.Document) (int, error) {
	kept := make([]retrieval.Document, 0, len(docs))
	for _, d := range docs {
		d.Text = strings.TrimSpace(d.Text)
		if d.Text == "" {
			continue
		}
		kept = append(kept, d)
	}

	indexed := 0
	for start := 0; start < len(kept); start += ingestBatchSize {
		end := start + ingestBatchSize
		if end > len(kept) {
			end = len(kept)
		}
		batch := kept[start:end]

		texts := make([]string, len(batch))
		for i, d := range batch {
			texts[i] = d.Text
		}
		vectors, err := embedding.EmbedDocuments(ctx, uc.embedder, texts)
		if err != nil {
			return indexed, fmt.Errorf("failed to embed batch at %d: %w", start, err)
		}
		if err := uc.index.Upsert(ctx, batch, vectors); err != nil {
			return indexed, fmt.Errorf("failed to index batch at %d: %w", start, err)
		}
		indexed += len(batch)
	}

	uc.l.Infof(ctx, "retrieval.usecase.Ingest: indexed %d of %d documents", indexed, len(docs))
	return indexed, nil
}
