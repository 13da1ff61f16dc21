package memory

import (
	"context"

	"helpdesk-automation/internal/model"
)

// Store is the long-term memory of one identity.
type Store interface {
	// ExtractAndStore decides whether message holds a fact worth keeping and
	// stores at most one record. It reports whether a record was stored.
	ExtractAndStore(ctx context.Context, message string) (bool, error)

	// Search returns up to k memory texts ordered by relevance. It never
	// fails: an empty or unavailable index yields an empty slice.
	Search(ctx context.Context, query string, k int) []string

	// List returns every record of the identity, oldest first.
	List(ctx context.Context) ([]model.MemoryRecord, error)

	Identity() string
}
