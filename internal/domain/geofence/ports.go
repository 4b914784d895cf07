package geofence

import (
	"context"
)

// Store defines persistence operations for geofences.
//
// The store is write-only during bootstrap and read-only once the simulation
// loop starts, so implementations only need concurrent-read safety.
type Store interface {
	// Upsert inserts or updates a geofence keyed by its unique name,
	// maintaining created/updated timestamps.
	Upsert(ctx context.Context, g *Geofence) error

	// FindContaining returns a geofence whose polygon contains the point, or
	// nil when none does. With nested polygons the choice of which containing
	// geofence is returned is unspecified.
	FindContaining(ctx context.Context, lon, lat float64) (*Geofence, error)

	// FindAllContaining returns every geofence containing the point.
	FindAllContaining(ctx context.Context, lon, lat float64) ([]*Geofence, error)

	// ByName retrieves a geofence by unique name, nil when absent.
	ByName(ctx context.Context, name string) (*Geofence, error)

	// ByType retrieves all geofences of a classification.
	ByType(ctx context.Context, typeID Type) ([]*Geofence, error)

	// Count returns the number of stored geofences.
	Count(ctx context.Context) (int64, error)
}
