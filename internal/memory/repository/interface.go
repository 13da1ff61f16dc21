package repository

import (
	"context"

	"helpdesk-automation/internal/model"
)

// Index holds memory vectors of one identity.
type Index interface {
	Add(ctx context.Context, rec model.MemoryRecord, vector []float32) error
	Query(ctx context.Context, vector []float32, k int) ([]model.MemoryRecord, error)
}

// RecordLog is the durable list of memory records of one identity.
type RecordLog interface {
	Put(ctx context.Context, rec model.MemoryRecord) error
	List(ctx context.Context) ([]model.MemoryRecord, error)
}
