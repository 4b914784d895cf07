package container

import (
	"errors"
	"time"

	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
)

// ErrInvalidTransition is returned by TransitionTo for a target state the
// journey diagram does not allow from the current state. The scheduler treats
// it as a no-op, not a failure.
var ErrInvalidTransition = errors.New("invalid state transition")

// Container is a tracked asset moving through a depot-to-depot journey.
//
// The scheduler is the single writer of all mutable fields; the persistence
// layer only reads snapshots. ReportSlot is fixed at creation and never
// changes.
type Container struct {
	Metadata Metadata
	Journey  Journey
	State    State

	// Current position, WGS-84.
	Latitude  float64
	Longitude float64

	// CurrentGeofence is the name of the geofence the container was last
	// resolved inside, empty when in transit between fences.
	CurrentGeofence string

	// Route holds the waypoints of the active transit leg, empty while
	// stationary. RouteIndex points at the waypoint the container occupies.
	Route      []geofence.Point
	RouteIndex int

	IsMoving bool
	DoorOpen bool

	// ReportSlot staggers this container's updates across the tick cycle.
	ReportSlot int

	JourneyStartTime time.Time
	LastEventTime    time.Time
}

// New creates a container at rest with the given identity and report slot.
// Position and journey are filled in by bootstrap.
func New(meta Metadata, reportSlot int) *Container {
	return &Container{
		Metadata:   meta,
		State:      StateAtOriginDepot,
		ReportSlot: reportSlot,
	}
}

// SetPosition moves the container to the given coordinates.
func (c *Container) SetPosition(lat, lon float64) {
	c.Latitude = lat
	c.Longitude = lon
}

// TransitionTo advances the state machine, returning ErrInvalidTransition
// (and leaving the state untouched) when the move is not in the journey
// diagram.
func (c *Container) TransitionTo(next State) error {
	if !CanTransition(c.State, next) {
		return ErrInvalidTransition
	}
	c.State = next
	return nil
}

// InstallRoute replaces the active route and rewinds the index. Passing nil
// clears the route, which is what arrival at a dwell state does.
func (c *Container) InstallRoute(route []geofence.Point) {
	c.Route = route
	c.RouteIndex = 0
}

// AtRouteEnd reports whether the container has consumed its route (or has
// none). A container at route end is due for a state transition.
func (c *Container) AtRouteEnd() bool {
	return c.RouteIndex+1 >= len(c.Route)
}

// AssignJourney resets the container onto a fresh journey at its origin
// depot. The caller positions the container and schedules the start time.
func (c *Container) AssignJourney(j Journey) {
	c.Journey = j
	c.State = StateAtOriginDepot
	c.Route = nil
	c.RouteIndex = 0
	c.IsMoving = false
}
