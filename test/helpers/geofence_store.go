package helpers

import (
	"context"
	"sync"
	"time"

	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
)

// InMemoryGeofenceStore is a test double for geofence.Store backed by a map,
// answering spatial queries with the domain's point-in-polygon test.
type InMemoryGeofenceStore struct {
	mu        sync.RWMutex
	geofences map[string]*geofence.Geofence
}

// NewInMemoryGeofenceStore creates an empty store, optionally pre-populated.
func NewInMemoryGeofenceStore(geofences ...*geofence.Geofence) *InMemoryGeofenceStore {
	s := &InMemoryGeofenceStore{geofences: make(map[string]*geofence.Geofence)}
	for _, g := range geofences {
		s.geofences[g.Name] = g
	}
	return s
}

// Upsert inserts or replaces a geofence by name.
func (s *InMemoryGeofenceStore) Upsert(ctx context.Context, g *geofence.Geofence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.geofences[g.Name]; ok {
		g.CreatedAt = existing.CreatedAt
	} else {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	s.geofences[g.Name] = g
	return nil
}

// FindContaining returns a geofence containing the point, nil when none does.
func (s *InMemoryGeofenceStore) FindContaining(ctx context.Context, lon, lat float64) (*geofence.Geofence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.geofences {
		if g.Contains(lon, lat) {
			return g, nil
		}
	}
	return nil, nil
}

// FindAllContaining returns every geofence containing the point.
func (s *InMemoryGeofenceStore) FindAllContaining(ctx context.Context, lon, lat float64) ([]*geofence.Geofence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*geofence.Geofence
	for _, g := range s.geofences {
		if g.Contains(lon, lat) {
			out = append(out, g)
		}
	}
	return out, nil
}

// ByName retrieves a geofence by name, nil when absent.
func (s *InMemoryGeofenceStore) ByName(ctx context.Context, name string) (*geofence.Geofence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.geofences[name], nil
}

// ByType retrieves all geofences of a classification.
func (s *InMemoryGeofenceStore) ByType(ctx context.Context, typeID geofence.Type) ([]*geofence.Geofence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*geofence.Geofence
	for _, g := range s.geofences {
		if g.TypeID == typeID {
			out = append(out, g)
		}
	}
	return out, nil
}

// Count returns the number of stored geofences.
func (s *InMemoryGeofenceStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.geofences)), nil
}
