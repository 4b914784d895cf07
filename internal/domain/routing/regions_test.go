package routing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
	"github.com/zimgeofence/containersim-go/internal/domain/routing"
	"github.com/zimgeofence/containersim-go/test/helpers"
)

func TestRegionOf(t *testing.T) {
	tests := []struct {
		fixture string
		want    routing.Region
	}{
		{"USLAX-TERMINAL", routing.RegionUSWest},
		{"USNYC-TERMINAL", routing.RegionUSEast},
		{"CNSHA-TERMINAL", routing.RegionChina},
		{"NLRTM-TERMINAL", routing.RegionEU},
	}
	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			assert.Equal(t, tt.want, routing.RegionOf(fixture(t, tt.fixture)))
		})
	}
}

func TestRegionOf_UnknownCountry(t *testing.T) {
	g := helpers.Square("ZZXXX-TERMINAL", geofence.TypeTerminal, "ZZXXX", 10, 10)

	assert.Equal(t, routing.RegionUnknown, routing.RegionOf(g))
}

func TestChokepointsFor_ForwardOrder(t *testing.T) {
	// Act
	cps := routing.ChokepointsFor(routing.RegionChina, routing.RegionEU)

	// Assert
	require.NotEmpty(t, cps)
	keys := make([]string, 0, len(cps))
	for _, cp := range cps {
		keys = append(keys, cp.Key)
	}
	assert.Equal(t, []string{"taiwan", "malacca", "singapore", "bab_el_mandeb", "suez", "gibraltar"}, keys)
}

func TestChokepointsFor_ReverseLookupReverses(t *testing.T) {
	// Act: the EU→China pair only exists in the China→EU direction
	cps := routing.ChokepointsFor(routing.RegionEU, routing.RegionChina)

	// Assert
	require.NotEmpty(t, cps)
	assert.Equal(t, "gibraltar", cps[0].Key)
	assert.Equal(t, "taiwan", cps[len(cps)-1].Key)
}

func TestChokepointsFor_UnknownPairIsDirect(t *testing.T) {
	assert.Empty(t, routing.ChokepointsFor(routing.RegionUnknown, routing.RegionEU))
	assert.Empty(t, routing.ChokepointsFor(routing.RegionUSWest, routing.RegionUSWest))
}

func TestIsClearlyOnLand(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
		want     bool
	}{
		{"continental interior (Kansas)", -98.0, 39.0, true},
		{"mid Pacific", -150.0, 30.0, false},
		{"mid Atlantic", -40.0, 35.0, false},
		{"Mediterranean", 15.0, 36.0, false},
		{"coastal water off Los Angeles", -118.5, 33.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, routing.IsClearlyOnLand(tt.lon, tt.lat))
		})
	}
}

func TestNearestWaterPoint_LeavesLand(t *testing.T) {
	// Arrange: a point deep in North America
	lon, lat := -98.0, 39.0
	require.True(t, routing.IsClearlyOnLand(lon, lat))

	// Act
	p := routing.NearestWaterPoint(lon, lat)

	// Assert
	assert.False(t, routing.IsClearlyOnLand(p.Lon, p.Lat))
}

func TestNearestWaterPoint_WaterStaysPut(t *testing.T) {
	p := routing.NearestWaterPoint(-40.0, 35.0)

	assert.InDelta(t, -40.0, p.Lon, 1e-9)
	assert.InDelta(t, 35.0, p.Lat, 1e-9)
}
