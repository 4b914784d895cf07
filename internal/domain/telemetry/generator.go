package telemetry

import (
	"math/rand"
	"time"

	"github.com/zimgeofence/containersim-go/internal/domain/container"
	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
)

// Report delay bounds, in simulated seconds. IoT trackers buffer readings and
// transmit opportunistically, so reports trail events by up to ten minutes.
const (
	reportDelayMin = 30
	reportDelayMax = 600
)

// Door event offsets after a stop, in simulated seconds.
const (
	doorOpenDelayMin  = 30
	doorOpenDelayMax  = 300
	doorCloseDelayMin = 60
	doorCloseDelayMax = 1800
)

// Generator constructs well-formed IoT events for containers. Randomness
// (report delay, door events) flows through the injected source.
type Generator struct {
	rng             *rand.Rand
	doorProbability float64
}

// NewGenerator creates an event generator. doorProbability is the chance a
// motion stop is followed by a door open/close pair.
func NewGenerator(rng *rand.Rand, doorProbability float64) *Generator {
	return &Generator{rng: rng, doorProbability: doorProbability}
}

func (g *Generator) reportTime(eventTime time.Time) time.Time {
	delay := reportDelayMin + g.rng.Intn(reportDelayMax-reportDelayMin+1)
	return eventTime.Add(time.Duration(delay) * time.Second)
}

func (g *Generator) newEvent(c *container.Container, t time.Time, typ EventType, gf *geofence.Geofence) *Event {
	e := &Event{
		TrackerID:  c.Metadata.TrackerID,
		AssetName:  c.Metadata.ContainerID,
		AssetID:    c.Metadata.AssetID,
		EventTime:  t,
		ReportTime: g.reportTime(t),
		Latitude:   c.Latitude,
		Longitude:  c.Longitude,
		Type:       typ,
	}
	if gf != nil {
		e.Location = gf.Name
		e.LocationCountry = gf.CountryCode()
	}
	return e
}

// LocationUpdate creates the periodic position report.
func (g *Generator) LocationUpdate(c *container.Container, t time.Time, gf *geofence.Geofence) *Event {
	return g.newEvent(c, t, EventLocationUpdate, gf)
}

// Motion creates an In Motion or Motion Stop event.
func (g *Generator) Motion(c *container.Container, t time.Time, start bool, gf *geofence.Geofence) *Event {
	typ := EventMotionStop
	if start {
		typ = EventInMotion
	}
	return g.newEvent(c, t, typ, gf)
}

// Door creates a Door Opened or Door Closed event.
func (g *Generator) Door(c *container.Container, t time.Time, open bool, gf *geofence.Geofence) *Event {
	typ := EventDoorClosed
	if open {
		typ = EventDoorOpened
	}
	return g.newEvent(c, t, typ, gf)
}

// Gate creates a Gate In or Gate Out crossing against the given geofence,
// which must be non-nil; the event carries the geofence for denormalization.
func (g *Generator) Gate(c *container.Container, t time.Time, entry bool, gf *geofence.Geofence) *Event {
	typ := EventGateOut
	if entry {
		typ = EventGateIn
	}
	e := g.newEvent(c, t, typ, gf)
	e.Geofence = gf
	return e
}

// StopEvents emits the Motion Stop for an arriving container and,
// probabilistically, a door open/close pair offset into the dwell period.
// All share the same geofence context.
func (g *Generator) StopEvents(c *container.Container, t time.Time, gf *geofence.Geofence) []*Event {
	events := []*Event{g.Motion(c, t, false, gf)}

	if g.rng.Float64() < g.doorProbability {
		openAt := t.Add(time.Duration(doorOpenDelayMin+g.rng.Intn(doorOpenDelayMax-doorOpenDelayMin+1)) * time.Second)
		closeAt := openAt.Add(time.Duration(doorCloseDelayMin+g.rng.Intn(doorCloseDelayMax-doorCloseDelayMin+1)) * time.Second)
		events = append(events,
			g.Door(c, openAt, true, gf),
			g.Door(c, closeAt, false, gf),
		)
	}
	return events
}
