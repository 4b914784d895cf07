package helpers

import (
	"context"
	"sync"

	"github.com/zimgeofence/containersim-go/internal/domain/container"
)

// InMemoryContainerRepository is a test double for container.Repository that
// keeps the latest snapshot per container id.
type InMemoryContainerRepository struct {
	mu        sync.Mutex
	snapshots map[string]container.Container
	upserts   int
}

// NewInMemoryContainerRepository creates an empty repository.
func NewInMemoryContainerRepository() *InMemoryContainerRepository {
	return &InMemoryContainerRepository{snapshots: make(map[string]container.Container)}
}

// Upsert stores one snapshot.
func (r *InMemoryContainerRepository) Upsert(ctx context.Context, c *container.Container) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[c.Metadata.ContainerID] = *c
	r.upserts++
	return nil
}

// BulkUpsert stores many snapshots.
func (r *InMemoryContainerRepository) BulkUpsert(ctx context.Context, containers []*container.Container) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range containers {
		r.snapshots[c.Metadata.ContainerID] = *c
	}
	r.upserts++
	return nil
}

// Snapshot returns the stored copy for an id, false when absent.
func (r *InMemoryContainerRepository) Snapshot(id string) (container.Container, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.snapshots[id]
	return c, ok
}

// Count returns the number of distinct containers stored.
func (r *InMemoryContainerRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

// UpsertCalls returns how many upsert operations were issued.
func (r *InMemoryContainerRepository) UpsertCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upserts
}
