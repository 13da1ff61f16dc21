// Package checkpointtest holds behavior tests shared by every checkpoint.Store.
package checkpointtest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"helpdesk-automation/internal/checkpoint"
	"helpdesk-automation/internal/model"
)

// SampleState returns a fully populated suspended state.
func SampleState(threadID string) model.ConversationState {
	at := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	return model.ConversationState{
		ThreadID:         threadID,
		Query:            "refund my enterprise contract",
		Category:         model.CategoryEscalated,
		RetrievedContext: model.StringPtr("Refunds need approval."),
		Sources:          []string{"billing.md"},
		Confidence:       0.3,
		RequiresHuman:    true,
		History:          []string{"Retrieval executed", "Escalated to human agent, awaiting intervention"},
		Status:           model.StatusSuspended,
		Run:              1,
		CreatedAt:        at,
		UpdatedAt:        at,
	}
}

// Run executes the shared suite against stores built by newStore.
func Run(t *testing.T, newStore func(t *testing.T) checkpoint.Store) {
	t.Run("RoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		state := SampleState("t-1")
		if err := s.Save(ctx, &state); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if state.Version != 1 {
			t.Errorf("Version = %d, want 1", state.Version)
		}

		got, err := s.Load(ctx, "t-1")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !reflect.DeepEqual(got, state) {
			t.Errorf("Load() = %+v\nwant %+v", got, state)
		}
	})

	t.Run("OverwriteAndReadAfterWrite", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		state := SampleState("t-2")
		if err := s.Save(ctx, &state); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		state.HumanResponse = model.StringPtr("Refund approved.")
		state.FinalResponse = model.StringPtr("Refund approved.")
		state.Status = model.StatusTerminal
		if err := s.Save(ctx, &state); err != nil {
			t.Fatalf("second Save() error = %v", err)
		}

		got, err := s.Load(ctx, "t-2")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if got.Version != 2 || !got.Terminal() || *got.FinalResponse != "Refund approved." {
			t.Errorf("Load() = %+v", got)
		}
	})

	t.Run("StaleVersionRejected", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		state := SampleState("t-3")
		if err := s.Save(ctx, &state); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		stale := state
		stale.Version = 0
		stale.Query = "lost update"
		if err := s.Save(ctx, &stale); !errors.Is(err, checkpoint.ErrVersionConflict) {
			t.Fatalf("stale Save() error = %v, want ErrVersionConflict", err)
		}

		got, _ := s.Load(ctx, "t-3")
		if got.Query != state.Query {
			t.Errorf("stored query = %q, want %q", got.Query, state.Query)
		}
	})

	t.Run("NotFoundAndDelete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if _, err := s.Load(ctx, "missing"); !errors.Is(err, checkpoint.ErrNotFound) {
			t.Errorf("Load(missing) error = %v", err)
		}
		if ok, err := s.Delete(ctx, "missing"); ok || err != nil {
			t.Errorf("Delete(missing) = %v, %v", ok, err)
		}

		state := SampleState("t-4")
		_ = s.Save(ctx, &state)
		if ok, err := s.Delete(ctx, "t-4"); !ok || err != nil {
			t.Errorf("Delete() = %v, %v", ok, err)
		}
		if _, err := s.Load(ctx, "t-4"); !errors.Is(err, checkpoint.ErrNotFound) {
			t.Errorf("Load after delete error = %v", err)
		}

		// a deleted thread starts over at version 0
		fresh := SampleState("t-4")
		if err := s.Save(ctx, &fresh); err != nil || fresh.Version != 1 {
			t.Errorf("Save after delete = %v, version %d", err, fresh.Version)
		}
	})

	t.Run("EmptyThreadID", func(t *testing.T) {
		s := newStore(t)
		state := SampleState("")
		if err := s.Save(context.Background(), &state); !errors.Is(err, checkpoint.ErrEmptyThreadID) {
			t.Errorf("Save() error = %v", err)
		}
	})

	t.Run("ConcurrentThreads", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const threads, writes = 8, 10
		var wg sync.WaitGroup
		errs := make(chan error, threads)
		for i := 0; i < threads; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				state := SampleState(fmt.Sprintf("c-%d", i))
				for w := 0; w < writes; w++ {
					state.History = append(state.History, fmt.Sprintf("write %d", w))
					if err := s.Save(ctx, &state); err != nil {
						errs <- err
						return
					}
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("concurrent Save() error = %v", err)
		}

		for i := 0; i < threads; i++ {
			got, err := s.Load(ctx, fmt.Sprintf("c-%d", i))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got.Version != writes || len(got.History) != 2+writes {
				t.Errorf("thread %d: version=%d history=%d", i, got.Version, len(got.History))
			}
		}
	})

	t.Run("SameThreadNoLostUpdate", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		base := SampleState("same")
		if err := s.Save(ctx, &base); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		// every writer races from the same version; exactly one may win
		const writers = 6
		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				st := base.Clone()
				st.History = append(st.History, fmt.Sprintf("writer %d", i))
				if err := s.Save(ctx, &st); err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				} else if !errors.Is(err, checkpoint.ErrVersionConflict) {
					t.Errorf("Save() error = %v", err)
				}
			}(i)
		}
		wg.Wait()

		if wins != 1 {
			t.Errorf("wins = %d, want 1", wins)
		}
		got, _ := s.Load(ctx, "same")
		if got.Version != 2 || len(got.History) != len(base.History)+1 {
			t.Errorf("stored version=%d history=%v", got.Version, got.History)
		}
	})
}
