package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	bolt "go.etcd.io/bbolt"

	"helpdesk-automation/internal/memory/repository"
	"helpdesk-automation/internal/model"
)

var bucketMemories = []byte("memories")

type implRecordLog struct {
	db *bolt.DB
}

// New returns a RecordLog in the memories bucket of db.
func New(db *bolt.DB) (repository.RecordLog, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketMemories)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create memories bucket: %w", err)
	}
	return &implRecordLog{db: db}, nil
}

func (r *implRecordLog) Put(ctx context.Context, rec model.MemoryRecord) error {
	enc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode memory %s: %w", rec.ID, err)
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMemories).Put([]byte(rec.ID), enc)
	})
}

func (r *implRecordLog) List(ctx context.Context) ([]model.MemoryRecord, error) {
	var out []model.MemoryRecord
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMemories).ForEach(func(k, v []byte) error {
			var rec model.MemoryRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				// skip malformed entries instead of failing the whole list
				return nil
			}
			out = append(out, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
