package geofence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
)

func squareFence(name string, lon, lat, half float64) *geofence.Geofence {
	return &geofence.Geofence{
		Name:   name,
		TypeID: geofence.TypeTerminal,
		Ring: []geofence.Point{
			{Lon: lon - half, Lat: lat - half},
			{Lon: lon + half, Lat: lat - half},
			{Lon: lon + half, Lat: lat + half},
			{Lon: lon - half, Lat: lat + half},
			{Lon: lon - half, Lat: lat - half},
		},
	}
}

func TestGeofence_Contains(t *testing.T) {
	// Arrange
	g := squareFence("USLAX-TERMINAL", -118.27, 33.74, 0.05)

	// Act & Assert
	assert.True(t, g.Contains(-118.27, 33.74), "centroid is inside")
	assert.True(t, g.Contains(-118.24, 33.71), "off-center point is inside")
	assert.False(t, g.Contains(-118.40, 33.74), "west of the square")
	assert.False(t, g.Contains(-118.27, 34.00), "north of the square")
	assert.False(t, g.Contains(0, 0), "far away")
}

func TestGeofence_Contains_DegenerateRing(t *testing.T) {
	// Arrange
	g := &geofence.Geofence{
		Name: "BROKEN",
		Ring: []geofence.Point{{Lon: 1, Lat: 1}, {Lon: 2, Lat: 2}},
	}

	// Act & Assert
	assert.False(t, g.Contains(1.5, 1.5))
}

func TestGeofence_Centroid(t *testing.T) {
	// Arrange
	g := &geofence.Geofence{
		Name: "SQUARE",
		Ring: []geofence.Point{
			{Lon: 0, Lat: 0},
			{Lon: 2, Lat: 0},
			{Lon: 2, Lat: 2},
			{Lon: 0, Lat: 2},
		},
	}

	// Act
	lon, lat := g.Centroid()

	// Assert
	assert.InDelta(t, 1.0, lon, 1e-9)
	assert.InDelta(t, 1.0, lat, 1e-9)
}

func TestGeofence_Centroid_EmptyRing(t *testing.T) {
	g := &geofence.Geofence{Name: "EMPTY"}

	lon, lat := g.Centroid()

	assert.Zero(t, lon)
	assert.Zero(t, lat)
}

func TestGeofence_CountryCode(t *testing.T) {
	tests := []struct {
		name     string
		geofence *geofence.Geofence
		want     string
	}{
		{
			name:     "prefers UNLOCode prefix",
			geofence: &geofence.Geofence{Name: "XXLAX-TERMINAL", UNLOCode: "USLAX"},
			want:     "US",
		},
		{
			name:     "falls back to name prefix",
			geofence: &geofence.Geofence{Name: "NLRTM-DEPOT"},
			want:     "NL",
		},
		{
			name:     "empty when nothing usable",
			geofence: &geofence.Geofence{Name: "X"},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.geofence.CountryCode())
		})
	}
}
