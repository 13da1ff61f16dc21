package bolt

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"

	"helpdesk-automation/internal/chat/repository"
	"helpdesk-automation/internal/model"
)

func newRepo(t *testing.T) repository.Repository {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "store.db"), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("bolt.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo, err := New(db)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return repo
}

func TestRepository_PutGetList(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	_ = repo.Put(ctx, model.ChatMetadata{ChatID: "old", Title: "Old", UpdatedAt: base})
	_ = repo.Put(ctx, model.ChatMetadata{ChatID: "new", Title: "New", UpdatedAt: base.Add(time.Hour)})

	got, err := repo.Get(ctx, "old")
	if err != nil || got.Title != "Old" || !got.UpdatedAt.Equal(base) {
		t.Fatalf("Get() = %+v, %v", got, err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].ChatID != "new" || list[1].ChatID != "old" {
		t.Errorf("List() = %+v", list)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRepository_ListEmpty(t *testing.T) {
	list, err := newRepo(t).List(context.Background())
	if err != nil || list == nil || len(list) != 0 {
		t.Errorf("List() = %#v, %v", list, err)
	}
}

func TestRepository_AppendAndMessages(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	meta := model.ChatMetadata{ChatID: "c1", Title: "Hi"}

	for i := 0; i < 5; i++ {
		meta.MessageCount++
		err := repo.Append(ctx, meta, model.ChatMessage{Role: model.RoleUser, Content: fmt.Sprintf("m%d", i)})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	all, err := repo.Messages(ctx, "c1", 0)
	if err != nil || len(all) != 5 || all[0].Content != "m0" || all[4].Content != "m4" {
		t.Fatalf("Messages(0) = %+v, %v", all, err)
	}

	last, _ := repo.Messages(ctx, "c1", 2)
	if len(last) != 2 || last[0].Content != "m3" || last[1].Content != "m4" {
		t.Errorf("Messages(2) = %+v", last)
	}

	got, _ := repo.Get(ctx, "c1")
	if got.MessageCount != 5 {
		t.Errorf("MessageCount = %d, want 5", got.MessageCount)
	}

	none, err := repo.Messages(ctx, "unknown", 10)
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("Messages(unknown) = %#v, %v", none, err)
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	_ = repo.Append(ctx, model.ChatMetadata{ChatID: "c1"}, model.ChatMessage{Role: model.RoleUser, Content: "hi"})

	ok, err := repo.Delete(ctx, "c1")
	if err != nil || !ok {
		t.Fatalf("Delete() = %v, %v", ok, err)
	}
	if msgs, _ := repo.Messages(ctx, "c1", 0); len(msgs) != 0 {
		t.Errorf("messages survived delete: %+v", msgs)
	}

	ok, err = repo.Delete(ctx, "c1")
	if err != nil || ok {
		t.Errorf("second Delete() = %v, %v, want false", ok, err)
	}
}
