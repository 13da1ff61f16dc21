package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"helpdesk-automation/internal/retrieval"
	"helpdesk-automation/internal/retrieval/repository"
	"helpdesk-automation/pkg/log"
	pkgQdrant "helpdesk-automation/pkg/qdrant"
)

const (
	payloadDocID  = "doc_id"
	payloadText   = "text"
	payloadSource = "source"
)

// pointNamespace scopes deterministic point ids derived from document ids.
var pointNamespace = uuid.MustParse("6f1c2d0e-8a43-4b7e-9a51-3c2f0d9e7b10")

type implIndex struct {
	client     *pkgQdrant.Client
	collection string
	l          log.Logger
}

// New returns an Index backed by a Qdrant collection, creating it when missing.
func New(ctx context.Context, client *pkgQdrant.Client, collection string, vectorSize int, l log.Logger) (repository.Index, error) {
	exists, err := client.CollectionExists(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection %s: %w", collection, err)
	}
	if !exists {
		err := client.CreateCollection(ctx, pkgQdrant.CreateCollectionRequest{
			Name:    collection,
			Vectors: pkgQdrant.VectorConfig{Size: vectorSize, Distance: "Cosine"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create collection %s: %w", collection, err)
		}
		l.Infof(ctx, "qdrant index: created collection %s (size=%d)", collection, vectorSize)
	}
	return &implIndex{client: client, collection: collection, l: l}, nil
}

// PointID maps a document id to the UUID Qdrant stores it under.
func PointID(docID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(docID)).String()
}

func (i *implIndex) Query(ctx context.Context, vector []float32, n int) ([]retrieval.Candidate, error) {
	if n <= 0 {
		return nil, nil
	}

	resp, err := i.client.SearchPoints(ctx, i.collection, pkgQdrant.SearchRequest{
		Vector:      vector,
		Limit:       n,
		WithPayload: true,
		WithVector:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: qdrant search: %v", retrieval.ErrUnavailable, err)
	}

	out := make([]retrieval.Candidate, 0, len(resp.Result))
	for _, p := range resp.Result {
		id := payloadString(p.Payload, payloadDocID)
		if id == "" {
			id = fmt.Sprint(p.ID)
		}
		out = append(out, retrieval.Candidate{
			ID:        id,
			Text:      payloadString(p.Payload, payloadText),
			Source:    payloadString(p.Payload, payloadSource),
			Score:     p.Score,
			Embedding: p.Vector,
		})
	}
	return out, nil
}

func (i *implIndex) Upsert(ctx context.Context, docs []retrieval.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("qdrant index: %d docs but %d vectors", len(docs), len(vectors))
	}
	if len(docs) == 0 {
		return nil
	}

	points := make([]pkgQdrant.Point, len(docs))
	for j, d := range docs {
		points[j] = pkgQdrant.Point{
			ID:     PointID(d.ID),
			Vector: vectors[j],
			Payload: map[string]interface{}{
				payloadDocID:  d.ID,
				payloadText:   d.Text,
				payloadSource: d.Source,
			},
		}
	}

	if err := i.client.UpsertPoints(ctx, i.collection, pkgQdrant.UpsertPointsRequest{Points: points}); err != nil {
		return fmt.Errorf("qdrant index: upsert: %w", err)
	}
	return nil
}

func (i *implIndex) Count(ctx context.Context) (int, error) {
	return i.client.CountPoints(ctx, i.collection)
}

func payloadString(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
