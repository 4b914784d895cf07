package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/zimgeofence/containersim-go/internal/infrastructure/config"
)

// Collection names used by the simulator.
const (
	CollectionGeofences  = "geofences"
	CollectionEvents     = "iot_events"
	CollectionEventsTS   = "iot_events_ts"
	CollectionGateEvents = "gate_events"
	CollectionContainers = "containers"
)

// NewConnection establishes a pooled MongoDB connection and verifies it with
// a ping. The pool is shared by the scheduler and the writer goroutine.
func NewConnection(ctx context.Context, cfg *config.DatabaseConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMinPoolSize(cfg.Pool.MinSize).
		SetMaxPoolSize(cfg.Pool.MaxSize).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetSocketTimeout(cfg.SocketTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("MongoDB unreachable: %w", err)
	}

	return client, nil
}

// Close disconnects the client.
func Close(ctx context.Context, client *mongo.Client) error {
	return client.Disconnect(ctx)
}

// SetupCollections creates the simulator's collections and indexes. Spatial
// queries degrade to collection scans without the 2dsphere indexes, so any
// index-creation failure is returned as a setup error rather than logged and
// ignored.
func SetupCollections(ctx context.Context, db *mongo.Database, retentionDays int) error {
	if err := createTimeSeries(ctx, db, retentionDays); err != nil {
		return err
	}

	indexSets := map[string][]mongo.IndexModel{
		CollectionGeofences: {
			{Keys: bson.D{{Key: "geometry", Value: "2dsphere"}}},
			{Keys: bson.D{{Key: "properties.name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "properties.typeId", Value: 1}}},
			{Keys: bson.D{{Key: "properties.UNLOCode", Value: 1}}},
		},
		CollectionEvents: {
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
			{Keys: bson.D{{Key: "TrackerID", Value: 1}}},
			{Keys: bson.D{{Key: "assetname", Value: 1}}},
			{Keys: bson.D{{Key: "EventTime", Value: 1}}},
			{Keys: bson.D{{Key: "EventType", Value: 1}}},
			{Keys: bson.D{{Key: "EventLocation", Value: 1}}},
			{Keys: bson.D{{Key: "assetname", Value: 1}, {Key: "EventTime", Value: 1}}},
		},
		CollectionEventsTS: {
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
			{Keys: bson.D{{Key: "EventType", Value: 1}}},
			{Keys: bson.D{{Key: "EventLocation", Value: 1}}},
		},
		CollectionGateEvents: {
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
			{Keys: bson.D{{Key: "TrackerID", Value: 1}}},
			{Keys: bson.D{{Key: "assetname", Value: 1}}},
			{Keys: bson.D{{Key: "EventTime", Value: 1}}},
			{Keys: bson.D{{Key: "EventType", Value: 1}}},
			{Keys: bson.D{{Key: "geofence_name", Value: 1}}},
		},
		CollectionContainers: {
			{Keys: bson.D{{Key: "container_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "tracker_id", Value: 1}}},
			{Keys: bson.D{{Key: "state", Value: 1}}},
		},
	}

	for name, models := range indexSets {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}

	return nil
}

// CollectionCounts returns the estimated document count of every simulator
// collection, for the shutdown stats line.
func CollectionCounts(ctx context.Context, db *mongo.Database) (map[string]int64, error) {
	names := []string{
		CollectionGeofences,
		CollectionEvents,
		CollectionEventsTS,
		CollectionGateEvents,
		CollectionContainers,
	}

	counts := make(map[string]int64, len(names))
	for _, name := range names {
		n, err := db.Collection(name).EstimatedDocumentCount(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", name, err)
		}
		counts[name] = n
	}
	return counts, nil
}

// createTimeSeries creates the append-only time-series sink with minute
// granularity and the configured retention. An existing collection is fine.
func createTimeSeries(ctx context.Context, db *mongo.Database, retentionDays int) error {
	tsOpts := options.TimeSeries().
		SetTimeField("timestamp").
		SetMetaField("metadata").
		SetGranularity("minutes")

	createOpts := options.CreateCollection().
		SetTimeSeriesOptions(tsOpts).
		SetExpireAfterSeconds(int64(retentionDays) * 24 * 60 * 60)

	err := db.CreateCollection(ctx, CollectionEventsTS, createOpts)
	if err == nil {
		return nil
	}
	if cmdErr, ok := err.(mongo.CommandError); ok && cmdErr.Code == 48 { // NamespaceExists
		return nil
	}
	return fmt.Errorf("failed to create time-series collection: %w", err)
}
