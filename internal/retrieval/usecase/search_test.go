package usecase

import (
	"context"
	"errors"
	"testing"

	"helpdesk-automation/internal/retrieval"
	"helpdesk-automation/internal/retrieval/repository/chromem"
	"helpdesk-automation/pkg/embedding"
	"helpdesk-automation/pkg/log"
)

type failingIndex struct{}

func (failingIndex) Query(ctx context.Context, vector []float32, n int) ([]retrieval.Candidate, error) {
	return nil, retrieval.ErrUnavailable
}

func (failingIndex) Upsert(ctx context.Context, docs []retrieval.Document, vectors [][]float32) error {
	return nil
}

func (failingIndex) Count(ctx context.Context) (int, error) { return 0, nil }

func newTestUseCase(t *testing.T) *implUseCase {
	t.Helper()
	idx, err := chromem.Open("", "kb", log.NewNop())
	if err != nil {
		t.Fatalf("chromem.Open() error = %v", err)
	}
	return New(log.NewNop(), idx, embedding.NewHashEmbedder(128), retrieval.DefaultParams, 0)
}

func TestRetrieve_RanksRelevantPassageFirst(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	docs := []retrieval.Document{
		{ID: "1", Text: "To reset your password open account settings and choose reset password", Source: "faq.md"},
		{ID: "2", Text: "Enterprise contract refunds require approval from the billing team", Source: "billing.md"},
		{ID: "3", Text: "Our offices are closed on public holidays", Source: "about.md"},
	}
	if n, err := uc.Ingest(ctx, docs); err != nil || n != 3 {
		t.Fatalf("Ingest() = %d, %v", n, err)
	}

	res, err := uc.Retrieve(ctx, "reset password")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(res.Passages) == 0 || res.Passages[0].ID != "1" {
		t.Fatalf("top passage = %+v", res.Passages)
	}
	if len(res.Passages) > 2 {
		t.Errorf("len = %d, want <= 2", len(res.Passages))
	}
	if res.Sources[0] != "faq.md" {
		t.Errorf("sources = %v", res.Sources)
	}
	if res.Confidence <= 0 || res.Confidence > 1 {
		t.Errorf("confidence = %v", res.Confidence)
	}
}

func TestSearch_NoDuplicateTexts(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	var docs []retrieval.Document
	for i := 0; i < 10; i++ {
		docs = append(docs, retrieval.Document{
			ID:     string(rune('a' + i)),
			Text:   "Password reset instructions",
			Source: "faq.md",
		})
	}
	docs = append(docs, retrieval.Document{ID: "z", Text: "Password policy requires twelve characters", Source: "policy.md"})
	if _, err := uc.Ingest(ctx, docs); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	got, err := uc.Search(ctx, "password reset", retrieval.Params{K: 2, FetchK: 20, DiversityLambda: 0.7})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) > 2 {
		t.Fatalf("len = %d, want <= 2", len(got))
	}
	if len(got) == 2 && got[0].Text == got[1].Text {
		t.Errorf("duplicate passage text %q", got[0].Text)
	}
}

func TestSearch_EmptyIndexAndQuery(t *testing.T) {
	uc := newTestUseCase(t)

	got, err := uc.Search(context.Background(), "anything", retrieval.DefaultParams)
	if err != nil || len(got) != 0 {
		t.Errorf("Search() on empty index = %v, %v", got, err)
	}

	if _, err := uc.Search(context.Background(), "   ", retrieval.DefaultParams); !errors.Is(err, retrieval.ErrEmptyQuery) {
		t.Errorf("Search() empty query error = %v", err)
	}
}

func TestRetrieve_IndexFailure(t *testing.T) {
	uc := New(log.NewNop(), failingIndex{}, embedding.NewHashEmbedder(32), retrieval.DefaultParams, 0)

	if _, err := uc.Retrieve(context.Background(), "refund"); !errors.Is(err, retrieval.ErrUnavailable) {
		t.Errorf("Retrieve() error = %v, want ErrUnavailable", err)
	}
}

func TestIngest_SkipsBlank(t *testing.T) {
	uc := newTestUseCase(t)

	n, err := uc.Ingest(context.Background(), []retrieval.Document{{ID: "1", Text: "  "}, {ID: "2", Text: "kept"}})
	if err != nil || n != 1 {
		t.Errorf("Ingest() = %d, %v; want 1", n, err)
	}
}
