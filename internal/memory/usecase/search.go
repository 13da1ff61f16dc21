package usecase

import (
	"context"
	"strings"

	"helpdesk-automation/internal/model"
)

// Search degrades to an empty result on any failure.
func (s *implStore) Search(ctx context.Context, query string, k int) []string {
	query = strings.TrimSpace(query)
	if query == "" || k <= 0 {
		return []string{}
	}

	vec, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		s.l.Warnf(ctx, "memory.usecase.Search: identity=%s embed failed, returning no memories: %v", s.identity, err)
		return []string{}
	}

	recs, err := s.index.Query(ctx, vec[0], k)
	if err != nil {
		s.l.Warnf(ctx, "memory.usecase.Search: identity=%s index unavailable, returning no memories: %v", s.identity, err)
		return []string{}
	}

	out := make([]string, 0, len(recs))
	for _, r := range recs {
		if r.Identity != "" && r.Identity != s.identity {
			continue
		}
		out = append(out, r.Text)
	}
	return out
}

func (s *implStore) List(ctx context.Context) ([]model.MemoryRecord, error) {
	return s.records.List(ctx)
}
