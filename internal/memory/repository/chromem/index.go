package chromem

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/philippgille/chromem-go"

	"helpdesk-automation/internal/memory/repository"
	"helpdesk-automation/internal/model"
)

const (
	metaIdentity   = "identity"
	metaCategory   = "category"
	metaImportance = "importance"
	metaSource     = "source"
	metaCreatedAt  = "created_at"
)

type implIndex struct {
	identity string
	col      *chromem.Collection
}

// CollectionName is the per-identity collection name.
func CollectionName(identity string) string {
	return "memory_" + identity
}

// Open opens the persistent memory database of identity under dir. An empty
// dir keeps it in memory.
func Open(dir, identity string) (repository.Index, error) {
	var db *chromem.DB
	if dir == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(dir, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open memory db for %s: %w", identity, err)
		}
	}

	col, err := db.GetOrCreateCollection(CollectionName(identity), map[string]string{metaIdentity: identity}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get memory collection for %s: %w", identity, err)
	}
	return &implIndex{identity: identity, col: col}, nil
}

func (i *implIndex) Add(ctx context.Context, rec model.MemoryRecord, vector []float32) error {
	doc := chromem.Document{
		ID:        rec.ID,
		Content:   rec.Text,
		Embedding: vector,
		Metadata: map[string]string{
			metaIdentity:   i.identity,
			metaCategory:   string(rec.Category),
			metaImportance: strconv.Itoa(rec.Importance),
			metaSource:     rec.Source,
			metaCreatedAt:  rec.CreatedAt.Format(time.RFC3339Nano),
		},
	}
	if err := i.col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("memory index: add %s: %w", rec.ID, err)
	}
	return nil
}

func (i *implIndex) Query(ctx context.Context, vector []float32, k int) ([]model.MemoryRecord, error) {
	count := i.col.Count()
	if count == 0 || k <= 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := i.col.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("memory index: query: %w", err)
	}

	out := make([]model.MemoryRecord, 0, len(results))
	for _, r := range results {
		importance, _ := strconv.Atoi(r.Metadata[metaImportance])
		createdAt, _ := time.Parse(time.RFC3339Nano, r.Metadata[metaCreatedAt])
		out = append(out, model.MemoryRecord{
			ID:         r.ID,
			Identity:   i.identity,
			Text:       r.Content,
			Category:   model.MemoryCategory(r.Metadata[metaCategory]),
			Importance: importance,
			Source:     r.Metadata[metaSource],
			CreatedAt:  createdAt,
		})
	}
	return out, nil
}
