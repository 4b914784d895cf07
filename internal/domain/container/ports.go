package container

import (
	"context"
)

// Repository persists container snapshots, keyed by container_id.
type Repository interface {
	// Upsert writes one container's snapshot.
	Upsert(ctx context.Context, c *Container) error

	// BulkUpsert writes many snapshots with unordered bulk operations,
	// used at bootstrap and after state transitions.
	BulkUpsert(ctx context.Context, containers []*Container) error
}
