package simulation

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/zimgeofence/containersim-go/internal/domain/container"
	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
	"github.com/zimgeofence/containersim-go/internal/domain/routing"
	"github.com/zimgeofence/containersim-go/internal/domain/telemetry"
	"github.com/zimgeofence/containersim-go/internal/infrastructure/config"
)

// Simulator drives the container population through staggered ticks. One
// goroutine (the caller of Run) owns all container state; persistence happens
// on the writer goroutine behind a bounded queue.
type Simulator struct {
	cfg    config.SimulationConfig
	logger *zap.Logger

	geofences  geofence.Store
	containers container.Repository
	routes     *routing.Generator
	events     *telemetry.Generator
	writer     *batchWriter
	rng        *rand.Rand

	population []*container.Container
	slots      [][]*container.Container

	currentSlot     int
	simTime         time.Time
	eventsGenerated int64

	// dirty collects containers whose persisted snapshot changed during the
	// current tick (transitions, gate crossings, journey reassignment).
	dirty []*container.Container

	status rate.Sometimes
}

// New wires a simulator from its collaborators. startTime seeds simulated
// time; pass time.Now() unless replaying from a fixed date.
func New(
	cfg config.SimulationConfig,
	store geofence.Store,
	repo container.Repository,
	sink telemetry.Sink,
	rng *rand.Rand,
	logger *zap.Logger,
	startTime time.Time,
) *Simulator {
	return &Simulator{
		cfg:        cfg,
		logger:     logger.With(zap.String("component", "simulator")),
		geofences:  store,
		containers: repo,
		routes:     routing.NewGenerator(rng, cfg.RailProbability, cfg.RailCountries),
		events:     telemetry.NewGenerator(rng, cfg.DoorProbability),
		writer:     newBatchWriter(sink, logger),
		rng:        rng,
		simTime:    startTime,
		slots:      make([][]*container.Container, cfg.StaggerSlots),
		status:     rate.Sometimes{Interval: time.Duration(cfg.StatusIntervalSec * float64(time.Second))},
	}
}

// SimTime returns the current simulated clock.
func (s *Simulator) SimTime() time.Time { return s.simTime }

// EventsGenerated returns the running count of emitted events.
func (s *Simulator) EventsGenerated() int64 { return s.eventsGenerated }

// Population returns the live container list. Callers must not mutate it
// while Run is active.
func (s *Simulator) Population() []*container.Container { return s.population }

// Flush blocks until every enqueued event batch has reached the sink.
func (s *Simulator) Flush() { s.writer.Flush() }

// Run executes the simulation loop until ctx is cancelled. The tick in
// flight completes and the final batch is flushed before Run returns.
func (s *Simulator) Run(ctx context.Context) error {
	defer s.writer.Close()

	loopInterval := time.Duration(s.cfg.LoopIntervalSec * float64(time.Second))

	s.logger.Info("simulation loop starting",
		zap.Int("containers", len(s.population)),
		zap.Int("slots", len(s.slots)),
		zap.Float64("speed", s.cfg.Speed),
		zap.Time("sim_time", s.simTime))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("simulation loop stopping",
				zap.Int64("events_generated", s.eventsGenerated),
				zap.Time("sim_time", s.simTime))
			return nil
		default:
		}

		tickStart := time.Now()
		s.Tick(ctx)

		s.status.Do(func() { s.logStatus() })

		// Pad to the loop interval. An overlong tick starts the next one
		// immediately; simulated time still advances one interval per tick.
		if pad := loopInterval - time.Since(tickStart); pad > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(pad):
			}
		}
	}
}

// Tick processes the current stagger slot, flushes its event batch, persists
// changed containers, and advances simulated time by one loop interval.
// Exposed so tests can drive the clock without wall-time sleeps.
func (s *Simulator) Tick(ctx context.Context) {
	var batch []*telemetry.Event
	s.dirty = s.dirty[:0]

	if len(s.slots) > 0 {
		for _, c := range s.slots[s.currentSlot] {
			batch = append(batch, s.safeUpdate(ctx, c)...)
		}
		s.currentSlot = (s.currentSlot + 1) % len(s.slots)
	}

	s.eventsGenerated += int64(len(batch))
	s.writer.Enqueue(batch)

	if len(s.dirty) > 0 {
		if err := s.containers.BulkUpsert(ctx, s.dirty); err != nil {
			s.logger.Error("container snapshot upsert failed",
				zap.Int("containers", len(s.dirty)),
				zap.Error(err))
		}
	}

	s.simTime = s.simTime.Add(time.Duration(s.cfg.LoopIntervalSec * s.cfg.Speed * float64(time.Second)))
}

// safeUpdate runs one container update, converting a panic into a logged
// skip so a single bad container cannot take down the loop.
func (s *Simulator) safeUpdate(ctx context.Context, c *container.Container) (events []*telemetry.Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("container update panicked",
				zap.String("container_id", c.Metadata.ContainerID),
				zap.String("state", string(c.State)),
				zap.Any("cause", r))
			events = nil
		}
	}()
	return s.updateContainer(ctx, c)
}

// updateContainer performs the per-tick update for one container: resolve
// geofence, emit gate crossings and the location update, advance the route,
// and run the arrival transition when the route is consumed.
func (s *Simulator) updateContainer(ctx context.Context, c *container.Container) []*telemetry.Event {
	if s.simTime.Before(c.JourneyStartTime) {
		return nil
	}
	if s.simTime.Sub(c.LastEventTime) < time.Duration(s.cfg.EventIntervalSec)*time.Second {
		return nil
	}

	gf, err := s.geofences.FindContaining(ctx, c.Longitude, c.Latitude)
	if err != nil {
		s.logger.Warn("geofence lookup failed, skipping container this tick",
			zap.String("container_id", c.Metadata.ContainerID),
			zap.Error(err))
		return nil
	}

	var events []*telemetry.Event
	events = append(events, s.gateCrossings(ctx, c, gf)...)
	events = append(events, s.events.LocationUpdate(c, s.simTime, gf))

	if !c.AtRouteEnd() {
		c.RouteIndex++
		wp := c.Route[c.RouteIndex]
		c.SetPosition(wp.Lat, wp.Lon)
		if c.RouteIndex == 1 {
			c.IsMoving = true
			events = append(events, s.events.Motion(c, s.simTime, true, gf))
		}
	} else {
		if c.IsMoving {
			c.IsMoving = false
			events = append(events, s.events.StopEvents(c, s.simTime, gf)...)
		}
		s.transitionContainer(c)
	}

	c.LastEventTime = s.simTime
	return events
}

// gateCrossings compares the resolved geofence with the container's last
// known one and emits GateOut/GateIn events for the change. Moving directly
// from one fence into another emits both, exit first.
func (s *Simulator) gateCrossings(ctx context.Context, c *container.Container, gf *geofence.Geofence) []*telemetry.Event {
	name := ""
	if gf != nil {
		name = gf.Name
	}
	if name == c.CurrentGeofence {
		return nil
	}

	var events []*telemetry.Event
	if c.CurrentGeofence != "" {
		old, err := s.geofences.ByName(ctx, c.CurrentGeofence)
		if err != nil {
			s.logger.Warn("previous geofence lookup failed",
				zap.String("container_id", c.Metadata.ContainerID),
				zap.String("geofence", c.CurrentGeofence),
				zap.Error(err))
		} else if old != nil {
			events = append(events, s.events.Gate(c, s.simTime, false, old))
		}
	}
	if gf != nil {
		events = append(events, s.events.Gate(c, s.simTime, true, gf))
	}

	c.CurrentGeofence = name
	s.markDirty(c)
	return events
}

func (s *Simulator) markDirty(c *container.Container) {
	s.dirty = append(s.dirty, c)
}

func (s *Simulator) logStatus() {
	stateCounts := make(map[string]int, 16)
	moving, rail := 0, 0
	for _, c := range s.population {
		stateCounts[string(c.State)]++
		if c.IsMoving {
			moving++
		}
		if c.Journey.UseRail {
			rail++
		}
	}

	s.logger.Info("simulation status",
		zap.Time("sim_time", s.simTime),
		zap.Int("containers", len(s.population)),
		zap.Int("moving", moving),
		zap.Int("rail_journeys", rail),
		zap.Int64("events_generated", s.eventsGenerated),
		zap.Any("states", stateCounts))
}
