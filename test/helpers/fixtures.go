package helpers

import (
	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
)

// fixtureHalfSizeDeg is the half-width of fixture polygons, roughly 5 km at
// mid latitudes. Large enough that a container at the centroid is well inside.
const fixtureHalfSizeDeg = 0.05

// Square builds a closed square geofence centered on (lon, lat).
func Square(name string, typ geofence.Type, unloCode string, lon, lat float64) *geofence.Geofence {
	h := fixtureHalfSizeDeg
	return &geofence.Geofence{
		Name:     name,
		TypeID:   typ,
		UNLOCode: unloCode,
		Ring: []geofence.Point{
			{Lon: lon - h, Lat: lat - h},
			{Lon: lon + h, Lat: lat - h},
			{Lon: lon + h, Lat: lat + h},
			{Lon: lon - h, Lat: lat + h},
			{Lon: lon - h, Lat: lat - h},
		},
	}
}

// FixtureGeofences is a small world of real port areas: US West and East
// coasts, Shanghai, and Rotterdam, each with a terminal and a depot, plus US
// rail ramps.
func FixtureGeofences() []*geofence.Geofence {
	return []*geofence.Geofence{
		Square("USLAX-TERMINAL", geofence.TypeTerminal, "USLAX", -118.27, 33.74),
		Square("USLAX-DEPOT", geofence.TypeDepot, "USLAX", -118.22, 33.85),
		Square("USLAX-RAIL-RAMP", geofence.TypeRailRamp, "USLAX", -118.23, 34.02),

		Square("USOAK-TERMINAL", geofence.TypeTerminal, "USOAK", -122.32, 37.80),
		Square("USOAK-DEPOT", geofence.TypeDepot, "USOAK", -122.29, 37.72),

		Square("USNYC-TERMINAL", geofence.TypeTerminal, "USNYC", -74.15, 40.68),
		Square("USNYC-DEPOT", geofence.TypeDepot, "USNYC", -74.18, 40.58),
		Square("USNYC-RAIL-RAMP", geofence.TypeRailRamp, "USNYC", -74.25, 40.60),

		Square("CNSHA-TERMINAL", geofence.TypeTerminal, "CNSHA", 121.93, 30.62),
		Square("CNSHA-DEPOT", geofence.TypeDepot, "CNSHA", 121.60, 31.25),

		Square("NLRTM-TERMINAL", geofence.TypeTerminal, "NLRTM", 4.05, 51.95),
		Square("NLRTM-DEPOT", geofence.TypeDepot, "NLRTM", 4.42, 51.88),
	}
}

// FixtureStore builds an in-memory geofence store over FixtureGeofences.
func FixtureStore() *InMemoryGeofenceStore {
	return NewInMemoryGeofenceStore(FixtureGeofences()...)
}

// FixtureSubset builds a store holding only the named fixtures, for scenarios
// that must pin journey endpoints.
func FixtureSubset(names ...string) *InMemoryGeofenceStore {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var subset []*geofence.Geofence
	for _, g := range FixtureGeofences() {
		if wanted[g.Name] {
			subset = append(subset, g)
		}
	}
	return NewInMemoryGeofenceStore(subset...)
}
