package telemetry

import (
	"context"
)

// Sink persists event batches. Implementations write every event to both the
// event log and the time-series store, and gate crossings additionally to the
// gate-event store, before returning.
type Sink interface {
	WriteBatch(ctx context.Context, events []*Event) error
}
