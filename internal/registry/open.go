package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	chatBolt "helpdesk-automation/internal/chat/repository/bolt"
	"helpdesk-automation/internal/completion"
	memoryBolt "helpdesk-automation/internal/memory/repository/bolt"
	memoryChromem "helpdesk-automation/internal/memory/repository/chromem"
	memoryUC "helpdesk-automation/internal/memory/usecase"
	"helpdesk-automation/pkg/embedding"
	"helpdesk-automation/pkg/log"
)

const (
	storeFile  = "store.db"
	vectorsDir = "vectors"
)

// StoreOptions configures the stores opened by DiskOpener.
type StoreOptions struct {
	Completion completion.Service
	Embedder   embedding.Embedder
	Memory     memoryUC.Options
}

// DiskOpener opens one bbolt file per identity holding chats and memory
// records, plus a persistent chromem directory for memory vectors.
func DiskOpener(l log.Logger, opts StoreOptions) Opener {
	return func(ctx context.Context, identity, dir string) (Resources, error) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Resources{}, fmt.Errorf("create %s: %w", dir, err)
		}

		db, err := bolt.Open(filepath.Join(dir, storeFile), 0o600, &bolt.Options{Timeout: time.Second})
		if err != nil {
			return Resources{}, fmt.Errorf("open store: %w", err)
		}

		chats, err := chatBolt.New(db)
		if err != nil {
			return Resources{}, errors.Join(err, db.Close())
		}
		records, err := memoryBolt.New(db)
		if err != nil {
			return Resources{}, errors.Join(err, db.Close())
		}
		index, err := memoryChromem.Open(filepath.Join(dir, vectorsDir), identity)
		if err != nil {
			return Resources{}, errors.Join(err, db.Close())
		}

		mem := memoryUC.New(l, identity, opts.Completion, opts.Embedder, index, records, opts.Memory)
		return Resources{Memory: mem, Chats: chats, Close: db.Close}, nil
	}
}
