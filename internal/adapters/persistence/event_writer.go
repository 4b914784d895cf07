package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/zimgeofence/containersim-go/internal/domain/telemetry"
	"github.com/zimgeofence/containersim-go/internal/infrastructure/database"
)

// retryBackoff is the initial delay before the single batch retry.
const retryBackoff = 500 * time.Millisecond

// MongoEventWriter implements telemetry.Sink with batched dual-sink writes:
// one insert-many per sink per batch. Gate crossings are written to the
// gate_events store before the parent batch, so a reader observing a gate
// event always finds the surrounding telemetry.
//
// Events are lossy by design. A batch that fails after one retry is dropped
// and logged; the simulator is a source, not a ledger.
type MongoEventWriter struct {
	events     *mongo.Collection
	eventsTS   *mongo.Collection
	gateEvents *mongo.Collection
	logger     *zap.Logger
}

// NewMongoEventWriter creates a dual-sink event writer.
func NewMongoEventWriter(db *mongo.Database, logger *zap.Logger) *MongoEventWriter {
	return &MongoEventWriter{
		events:     db.Collection(database.CollectionEvents),
		eventsTS:   db.Collection(database.CollectionEventsTS),
		gateEvents: db.Collection(database.CollectionGateEvents),
		logger:     logger.With(zap.String("component", "event_writer")),
	}
}

// WriteBatch persists a batch to all sinks, retrying each insert once with
// backoff. A batch dropped after the retry is logged, not returned as an
// error, so the simulation keeps running through transient outages.
func (w *MongoEventWriter) WriteBatch(ctx context.Context, events []*telemetry.Event) error {
	if len(events) == 0 {
		return nil
	}

	gateDocs := make([]interface{}, 0)
	eventDocs := make([]interface{}, 0, len(events))
	tsDocs := make([]interface{}, 0, len(events))
	for _, e := range events {
		if e.IsGate() {
			gateDocs = append(gateDocs, NewGateEventDocument(e))
		}
		eventDocs = append(eventDocs, NewEventDocument(e))
		tsDocs = append(tsDocs, NewTimeSeriesDocument(e))
	}

	// Gate events land first (ordering guarantee for gate readers).
	if len(gateDocs) > 0 {
		w.insertWithRetry(ctx, w.gateEvents, gateDocs, "gate_events")
	}
	w.insertWithRetry(ctx, w.events, eventDocs, "iot_events")
	w.insertWithRetry(ctx, w.eventsTS, tsDocs, "iot_events_ts")

	return nil
}

func (w *MongoEventWriter) insertWithRetry(ctx context.Context, coll *mongo.Collection, docs []interface{}, sink string) {
	err := w.insert(ctx, coll, docs)
	if err == nil {
		return
	}

	w.logger.Warn("batch insert failed, retrying",
		zap.String("sink", sink),
		zap.Int("batch_size", len(docs)),
		zap.Error(err))

	select {
	case <-ctx.Done():
		return
	case <-time.After(retryBackoff):
	}

	if err := w.insert(ctx, coll, docs); err != nil {
		w.logger.Error("batch dropped after retry",
			zap.String("sink", sink),
			zap.Int("batch_size", len(docs)),
			zap.Error(err))
	}
}

func (w *MongoEventWriter) insert(ctx context.Context, coll *mongo.Collection, docs []interface{}) error {
	// Unordered: duplicates from a replayed batch are tolerated, the event
	// log is keyed by (container, event_time).
	if _, err := coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false)); err != nil {
		return fmt.Errorf("insert many: %w", err)
	}
	return nil
}
