package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"

	bolt "go.etcd.io/bbolt"

	"helpdesk-automation/internal/chat/repository"
	"helpdesk-automation/internal/model"
)

var (
	bucketChats    = []byte("chats")
	bucketMessages = []byte("messages") // one nested bucket per chat
)

type implRepository struct {
	db *bolt.DB
}

// New returns a chat Repository backed by db.
func New(db *bolt.DB) (repository.Repository, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketChats, bucketMessages} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create chat buckets: %w", err)
	}
	return &implRepository{db: db}, nil
}

func (r *implRepository) Put(ctx context.Context, meta model.ChatMetadata) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return putMeta(tx, meta)
	})
}

func (r *implRepository) Get(ctx context.Context, chatID string) (model.ChatMetadata, error) {
	var meta model.ChatMetadata
	err := r.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketChats).Get([]byte(chatID))
		if v == nil {
			return repository.ErrNotFound
		}
		return json.Unmarshal(v, &meta)
	})
	return meta, err
}

// List returns chats ordered by UpdatedAt, newest first.
func (r *implRepository) List(ctx context.Context) ([]model.ChatMetadata, error) {
	out := []model.ChatMetadata{}
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketChats).ForEach(func(k, v []byte) error {
			var meta model.ChatMetadata
			if err := json.Unmarshal(v, &meta); err != nil {
				return fmt.Errorf("decode chat %s: %w", k, err)
			}
			out = append(out, meta)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *implRepository) Delete(ctx context.Context, chatID string) (bool, error) {
	var existed bool
	err := r.db.Update(func(tx *bolt.Tx) error {
		chats := tx.Bucket(bucketChats)
		existed = chats.Get([]byte(chatID)) != nil
		if err := chats.Delete([]byte(chatID)); err != nil {
			return err
		}

		msgs := tx.Bucket(bucketMessages)
		if msgs.Bucket([]byte(chatID)) != nil {
			existed = true
			return msgs.DeleteBucket([]byte(chatID))
		}
		return nil
	})
	return existed, err
}

func (r *implRepository) Append(ctx context.Context, meta model.ChatMetadata, msgs ...model.ChatMessage) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		if err := putMeta(tx, meta); err != nil {
			return err
		}

		b, err := tx.Bucket(bucketMessages).CreateBucketIfNotExists([]byte(meta.ChatID))
		if err != nil {
			return err
		}
		for _, m := range msgs {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			enc, err := json.Marshal(m)
			if err != nil {
				return fmt.Errorf("encode message: %w", err)
			}
			if err := b.Put(itob(seq), enc); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *implRepository) Messages(ctx context.Context, chatID string, limit int) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMessages).Bucket([]byte(chatID))
		if b == nil {
			return nil
		}

		// walk backwards from the newest entry
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) == limit {
				break
			}
			var m model.ChatMessage
			if err := json.Unmarshal(v, &m); err != nil {
				return fmt.Errorf("decode message %d of %s: %w", binary.BigEndian.Uint64(k), chatID, err)
			}
			out = append(out, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if out == nil {
		out = []model.ChatMessage{}
	}
	return out, nil
}

func putMeta(tx *bolt.Tx, meta model.ChatMetadata) error {
	enc, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode chat %s: %w", meta.ChatID, err)
	}
	return tx.Bucket(bucketChats).Put([]byte(meta.ChatID), enc)
}

// itob encodes a sequence number so keys sort in insertion order.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
