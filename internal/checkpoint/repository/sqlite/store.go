package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"helpdesk-automation/internal/checkpoint"
	"helpdesk-automation/internal/model"
	pkgLog "helpdesk-automation/pkg/log"
)

const busyTimeoutMS = 5000

type implStore struct {
	db *sql.DB
	l  pkgLog.Logger
}

// Open opens (creating if needed) the checkpoint database at path and applies
// the schema. ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string, l pkgLog.Logger) (checkpoint.Store, error) {
	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &implStore{db: db, l: l}, nil
}

// Migrate applies the checkpoint schema. It is safe to run repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply checkpoint schema: %w", err)
	}
	return nil
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("create checkpoint dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// SQLite has a single writer; one connection also keeps ":memory:" shared.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	if path != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set WAL mode on %s: %w", path, err)
		}
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeoutMS)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout on %s: %w", path, err)
	}
	return db, nil
}

func (s *implStore) Save(ctx context.Context, state *model.ConversationState) error {
	if state.ThreadID == "" {
		return checkpoint.ErrEmptyThreadID
	}

	next := *state
	next.Version = state.Version + 1
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checkpoint tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current int64
	err = tx.QueryRowContext(ctx, selectVersion, state.ThreadID).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		current = 0
	case err != nil:
		return fmt.Errorf("read checkpoint version: %w", err)
	}
	if current != state.Version {
		return fmt.Errorf("%w: thread %s stored=%d given=%d", checkpoint.ErrVersionConflict, state.ThreadID, current, state.Version)
	}

	if current == 0 {
		_, err = tx.ExecContext(ctx, insertState, state.ThreadID, string(data), next.Version, now)
	} else {
		_, err = tx.ExecContext(ctx, updateState, string(data), next.Version, now, state.ThreadID, current)
	}
	if err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit checkpoint: %w", err)
	}

	state.Version = next.Version
	s.l.Debugf(ctx, "checkpoint.sqlite.Save: thread=%s version=%d status=%s", state.ThreadID, state.Version, state.Status)
	return nil
}

func (s *implStore) Load(ctx context.Context, threadID string) (model.ConversationState, error) {
	var (
		data    string
		version int64
	)
	err := s.db.QueryRowContext(ctx, selectState, threadID).Scan(&data, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ConversationState{}, checkpoint.ErrNotFound
	}
	if err != nil {
		return model.ConversationState{}, fmt.Errorf("read checkpoint: %w", err)
	}

	var state model.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return model.ConversationState{}, fmt.Errorf("failed to decode state: %w", err)
	}
	state.Version = version
	return state, nil
}

func (s *implStore) Delete(ctx context.Context, threadID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, deleteState, threadID)
	if err != nil {
		return false, fmt.Errorf("delete checkpoint: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete checkpoint: %w", err)
	}
	return n > 0, nil
}

func (s *implStore) Close() error {
	return s.db.Close()
}
