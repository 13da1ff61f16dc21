package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"helpdesk-automation/internal/checkpoint"
	"helpdesk-automation/internal/model"
)

type record struct {
	version int64
	data    []byte
}

type implStore struct {
	mu      sync.RWMutex
	records map[string]record
}

// New returns a process-local Store. States are kept serialized so a caller
// never aliases stored slices.
func New() checkpoint.Store {
	return &implStore{records: make(map[string]record)}
}

func (s *implStore) Save(ctx context.Context, state *model.ConversationState) error {
	if state.ThreadID == "" {
		return checkpoint.ErrEmptyThreadID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.records[state.ThreadID].version
	if current != state.Version {
		return fmt.Errorf("%w: thread %s stored=%d given=%d", checkpoint.ErrVersionConflict, state.ThreadID, current, state.Version)
	}

	next := *state
	next.Version = current + 1
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	s.records[state.ThreadID] = record{version: next.Version, data: data}
	state.Version = next.Version
	return nil
}

func (s *implStore) Load(ctx context.Context, threadID string) (model.ConversationState, error) {
	s.mu.RLock()
	rec, ok := s.records[threadID]
	s.mu.RUnlock()
	if !ok {
		return model.ConversationState{}, checkpoint.ErrNotFound
	}

	var state model.ConversationState
	if err := json.Unmarshal(rec.data, &state); err != nil {
		return model.ConversationState{}, fmt.Errorf("failed to decode state: %w", err)
	}
	return state, nil
}

func (s *implStore) Delete(ctx context.Context, threadID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[threadID]; !ok {
		return false, nil
	}
	delete(s.records, threadID)
	return true, nil
}

func (s *implStore) Close() error { return nil }
