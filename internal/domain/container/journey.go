package container

import (
	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
)

// Journey is a single depot-to-depot itinerary. The four terminal/depot
// endpoints are required; rail ramps are optional and only meaningful when
// UseRail is set.
type Journey struct {
	OriginDepot         *geofence.Geofence
	OriginRailRamp      *geofence.Geofence
	OriginTerminal      *geofence.Geofence
	DestinationTerminal *geofence.Geofence
	DestinationRailRamp *geofence.Geofence
	DestinationDepot    *geofence.Geofence

	UseRail bool
}

// Complete reports whether all four required endpoints are set.
func (j Journey) Complete() bool {
	return j.OriginDepot != nil && j.OriginTerminal != nil &&
		j.DestinationTerminal != nil && j.DestinationDepot != nil
}
