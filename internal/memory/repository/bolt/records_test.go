package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"

	"helpdesk-automation/internal/model"
)

func TestRecordLog_PutListOrdered(t *testing.T) {
	db, err := bolt.Open(filepath.Join(t.TempDir(), "m.db"), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("bolt.Open() error = %v", err)
	}
	defer db.Close()

	log, err := New(db)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// ids sort opposite to creation time
	_ = log.Put(ctx, model.MemoryRecord{ID: "b", Text: "second", CreatedAt: base.Add(time.Minute)})
	_ = log.Put(ctx, model.MemoryRecord{ID: "z", Text: "first", CreatedAt: base})

	got, err := log.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 || got[0].Text != "first" || got[1].Text != "second" {
		t.Errorf("List() = %+v", got)
	}
}
