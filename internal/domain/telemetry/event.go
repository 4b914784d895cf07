package telemetry

import (
	"time"

	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
)

// EventType is the wire label of an IoT event, matching the tracker
// platform's vocabulary.
type EventType string

const (
	EventInMotion       EventType = "In Motion"
	EventMotionStop     EventType = "Motion Stop"
	EventLocationUpdate EventType = "Location Update"
	EventDoorOpened     EventType = "Door Opened"
	EventDoorClosed     EventType = "Door Closed"
	EventGateIn         EventType = "Gate In"
	EventGateOut        EventType = "Gate Out"
)

// InTransitLocation is the sentinel location written when a container is not
// inside any geofence.
const InTransitLocation = "In Transit"

// Event is an immutable IoT telemetry record. EventTime is when the tracker
// observed the reading in simulated time; ReportTime adds the modeled
// transmission delay.
type Event struct {
	TrackerID string
	AssetName string // container id
	AssetID   int

	EventTime  time.Time
	ReportTime time.Time

	Latitude  float64
	Longitude float64

	Type EventType

	// Location is the containing geofence's name, empty when in transit.
	Location        string
	LocationCountry string

	// Geofence is set on gate events only; the persistence layer denormalizes
	// it into the gate_events store.
	Geofence *geofence.Geofence
}

// IsGate reports whether the event is a Gate In / Gate Out crossing.
func (e *Event) IsGate() bool {
	return e.Type == EventGateIn || e.Type == EventGateOut
}
