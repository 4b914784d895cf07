package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
	"github.com/zimgeofence/containersim-go/internal/infrastructure/database"
)

// MongoGeofenceStore implements geofence.Store on the geofences collection,
// answering spatial queries through the 2dsphere index. A name→geofence
// cache short-circuits the hot ByName lookups the scheduler issues on gate
// exits; safe because the store is read-only once the loop starts.
type MongoGeofenceStore struct {
	collection *mongo.Collection
	byName     map[string]*geofence.Geofence
}

// NewMongoGeofenceStore creates a geofence store over the given database.
func NewMongoGeofenceStore(db *mongo.Database) *MongoGeofenceStore {
	return &MongoGeofenceStore{
		collection: db.Collection(database.CollectionGeofences),
		byName:     make(map[string]*geofence.Geofence),
	}
}

// Upsert inserts or updates a geofence keyed by unique name. createdAt is
// written once; updatedAt on every application.
func (s *MongoGeofenceStore) Upsert(ctx context.Context, g *geofence.Geofence) error {
	now := time.Now().UTC()

	set := bson.M{
		"type":                "Feature",
		"properties.name":     g.Name,
		"properties.typeId":   string(g.TypeID),
		"properties.updatedAt": now,
		"geometry":            geometryFromRing(g.Ring),
	}
	if g.UNLOCode != "" {
		set["properties.UNLOCode"] = g.UNLOCode
	}
	if g.SMDGCode != "" {
		set["properties.SMDGCode"] = g.SMDGCode
	}
	if g.Description != "" {
		set["properties.description"] = g.Description
	}

	_, err := s.collection.UpdateOne(ctx,
		bson.M{"properties.name": g.Name},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"properties.createdAt": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert geofence %s: %w", g.Name, err)
	}

	delete(s.byName, g.Name)
	return nil
}

// FindContaining returns one geofence whose polygon contains the point.
func (s *MongoGeofenceStore) FindContaining(ctx context.Context, lon, lat float64) (*geofence.Geofence, error) {
	var doc GeofenceDocument
	err := s.collection.FindOne(ctx, geoIntersectsFilter(lon, lat)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("geofence point query failed: %w", err)
	}
	return doc.ToGeofence(), nil
}

// FindAllContaining returns every geofence containing the point, for nested
// polygon cases.
func (s *MongoGeofenceStore) FindAllContaining(ctx context.Context, lon, lat float64) ([]*geofence.Geofence, error) {
	cursor, err := s.collection.Find(ctx, geoIntersectsFilter(lon, lat))
	if err != nil {
		return nil, fmt.Errorf("geofence point query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*geofence.Geofence
	for cursor.Next(ctx) {
		var doc GeofenceDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode geofence: %w", err)
		}
		results = append(results, doc.ToGeofence())
	}
	return results, cursor.Err()
}

// ByName retrieves a geofence by unique name, nil when absent.
func (s *MongoGeofenceStore) ByName(ctx context.Context, name string) (*geofence.Geofence, error) {
	if g, ok := s.byName[name]; ok {
		return g, nil
	}

	var doc GeofenceDocument
	err := s.collection.FindOne(ctx, bson.M{"properties.name": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find geofence %s: %w", name, err)
	}

	g := doc.ToGeofence()
	s.byName[name] = g
	return g, nil
}

// ByType retrieves all geofences of a classification.
func (s *MongoGeofenceStore) ByType(ctx context.Context, typeID geofence.Type) ([]*geofence.Geofence, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"properties.typeId": string(typeID)})
	if err != nil {
		return nil, fmt.Errorf("failed to list geofences by type: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*geofence.Geofence
	for cursor.Next(ctx) {
		var doc GeofenceDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode geofence: %w", err)
		}
		results = append(results, doc.ToGeofence())
	}
	return results, cursor.Err()
}

// Count returns the number of stored geofences.
func (s *MongoGeofenceStore) Count(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{})
}

func geoIntersectsFilter(lon, lat float64) bson.M {
	return bson.M{
		"geometry": bson.M{
			"$geoIntersects": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{lon, lat},
				},
			},
		},
	}
}
