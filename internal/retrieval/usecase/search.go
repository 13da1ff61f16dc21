package usecase

import (
	"context"
	"fmt"
	"strings"

	"helpdesk-automation/internal/retrieval"
	"helpdesk-automation/pkg/embedding"
)

// Retrieve runs Search with the configured parameters and aggregates the result.
func (uc *implUseCase) Retrieve(ctx context.Context, query string) (retrieval.Result, error) {
	passages, err := uc.Search(ctx, query, uc.params)
	if err != nil {
		return retrieval.Result{}, err
	}
	res := retrieval.Aggregate(passages)
	uc.l.Infof(ctx, "retrieval.usecase.Retrieve: passages=%d sources=%d confidence=%.2f",
		len(res.Passages), len(res.Sources), res.Confidence)
	return res, nil
}

// Search embeds the query, oversamples FetchK candidates and re-ranks them with MMR.
func (uc *implUseCase) Search(ctx context.Context, query string, p retrieval.Params) ([]retrieval.Passage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, retrieval.ErrEmptyQuery
	}
	p = p.Normalize()

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	vec, err := embedding.EmbedOne(ctx, uc.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", retrieval.ErrUnavailable, err)
	}

	candidates, err := uc.index.Query(ctx, vec, p.FetchK)
	if err != nil {
		uc.l.Warnf(ctx, "retrieval.usecase.Search: index query failed: %v", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", retrieval.ErrUnavailable, err)
	}

	selected := retrieval.MMR(vec, candidates, p.K, p.DiversityLambda)
	passages := make([]retrieval.Passage, len(selected))
	for i, c := range selected {
		passages[i] = retrieval.Passage{ID: c.ID, Text: c.Text, Source: c.Source, Score: c.Score}
	}

	uc.l.Debugf(ctx, "retrieval.usecase.Search: candidates=%d selected=%d k=%d fetch_k=%d lambda=%.2f",
		len(candidates), len(passages), p.K, p.FetchK, p.DiversityLambda)
	return passages, nil
}
