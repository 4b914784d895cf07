package simulation_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zimgeofence/containersim-go/internal/application/simulation"
	"github.com/zimgeofence/containersim-go/internal/domain/container"
	"github.com/zimgeofence/containersim-go/internal/domain/telemetry"
	"github.com/zimgeofence/containersim-go/internal/infrastructure/config"
	"github.com/zimgeofence/containersim-go/test/helpers"
)

var testStart = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

// testConfig runs one stagger slot at 900x so every tick advances a full
// event interval, making each tick process the whole population.
func testConfig(numContainers int) config.SimulationConfig {
	return config.SimulationConfig{
		NumContainers:     numContainers,
		StaggerSlots:      1,
		Speed:             900,
		EventIntervalSec:  900,
		LoopIntervalSec:   1.0,
		StatusIntervalSec: 10.0,
		DoorProbability:   0,
		RailProbability:   0,
		RailCountries:     []string{"US", "CA", "GB"},
		RetentionDays:     90,
	}
}

type testWorld struct {
	sim  *simulation.Simulator
	sink *helpers.RecordingSink
	repo *helpers.InMemoryContainerRepository
}

func newTestWorld(t *testing.T, cfg config.SimulationConfig, store *helpers.InMemoryGeofenceStore, seed int64) *testWorld {
	t.Helper()

	sink := helpers.NewRecordingSink()
	repo := helpers.NewInMemoryContainerRepository()
	sim := simulation.New(cfg, store, repo, sink,
		rand.New(rand.NewSource(seed)), zap.NewNop(), testStart)
	require.NoError(t, sim.Bootstrap(context.Background()))

	// Collapse the departure jitter so ticks are deterministic to count.
	for _, c := range sim.Population() {
		c.JourneyStartTime = testStart
	}
	return &testWorld{sim: sim, sink: sink, repo: repo}
}

func (w *testWorld) tick(n int) {
	for i := 0; i < n; i++ {
		w.sim.Tick(context.Background())
	}
	w.sim.Flush()
}

func TestSimulator_EmptyPopulation(t *testing.T) {
	// Arrange: N=0 must bootstrap cleanly and idle
	cfg := testConfig(0)
	cfg.StaggerSlots = 900
	cfg.Speed = 60
	w := newTestWorld(t, cfg, helpers.FixtureStore(), 1)

	// Act
	w.tick(100)

	// Assert
	assert.Zero(t, w.sink.Len(), "no containers, no events")
	assert.Zero(t, w.sim.EventsGenerated())
	wantSim := testStart.Add(100 * 60 * time.Second)
	assert.Equal(t, wantSim, w.sim.SimTime(), "sim time advances regardless")
}

func TestSimulator_Bootstrap_SlotDistribution(t *testing.T) {
	// Arrange
	cfg := testConfig(1000)
	cfg.StaggerSlots = 900
	w := newTestWorld(t, cfg, helpers.FixtureStore(), 2)

	// Act
	counts := make(map[int]int)
	for _, c := range w.sim.Population() {
		counts[c.ReportSlot]++
	}

	// Assert: i mod 900 over 1000 containers puts 2 in the first 100 slots,
	// 1 everywhere else; never more than a ±1 spread.
	require.Len(t, w.sim.Population(), 1000)
	require.Len(t, counts, 900, "every slot is populated")
	for slot, n := range counts {
		assert.InDelta(t, 1, n, 1, "slot %d unbalanced", slot)
	}
}

func TestSimulator_Bootstrap_InitialState(t *testing.T) {
	// Arrange & Act
	w := newTestWorld(t, testConfig(50), helpers.FixtureStore(), 3)

	// Assert
	for _, c := range w.sim.Population() {
		require.Equal(t, container.StateAtOriginDepot, c.State)
		require.True(t, c.Journey.Complete())
		require.Equal(t, c.Journey.OriginDepot.Name, c.CurrentGeofence)
		require.NotEmpty(t, c.Route, "first leg is pre-computed")

		lon, lat := c.Journey.OriginDepot.Centroid()
		require.InDelta(t, lon, c.Longitude, 1e-9)
		require.InDelta(t, lat, c.Latitude, 1e-9)
	}
	assert.Equal(t, 50, w.repo.Count())
}

func TestSimulator_SingleContainer_FullJourney(t *testing.T) {
	// Arrange: a two-port US West world, no rail, so the journey shape is
	// fixed even though endpoints are drawn at random.
	store := helpers.FixtureSubset(
		"USLAX-TERMINAL", "USLAX-DEPOT",
		"USOAK-TERMINAL", "USOAK-DEPOT",
	)
	w := newTestWorld(t, testConfig(1), store, 4)
	c := w.sim.Population()[0]
	originDepot := c.Journey.OriginDepot.Name
	originTerminal := c.Journey.OriginTerminal.Name
	destDepot := c.Journey.DestinationDepot.Name

	// Act: observe the state trajectory across a generous number of ticks
	seen := []container.State{c.State}
	for i := 0; i < 200; i++ {
		prev := c.State
		w.sim.Tick(context.Background())
		if c.State != prev {
			require.True(t, container.CanTransition(prev, c.State),
				"illegal transition %s -> %s", prev, c.State)
			seen = append(seen, c.State)
		}
	}
	w.sim.Flush()

	// Assert: the no-rail lifecycle appears in order
	wantOrder := []container.State{
		container.StateAtOriginDepot,
		container.StateAtOriginTerminal,
		container.StateLoadedOnVessel,
		container.StateInTransitOcean,
		container.StateAtDestinationTerminal,
		container.StateAtDestinationDepot,
	}
	last := -1
	for _, want := range wantOrder {
		idx := indexOfState(seen, want, last+1)
		require.GreaterOrEqual(t, idx, 0, "state %s missing from trajectory %v", want, seen)
		last = idx
	}

	// Gate events alternate: every entry is closed by an exit before the
	// next entry, starting with the exit from the bootstrap depot.
	current := originDepot
	for _, e := range w.sink.Events() {
		switch e.Type {
		case telemetry.EventGateOut:
			require.Equal(t, current, e.Location, "exit without matching entry")
			current = ""
		case telemetry.EventGateIn:
			require.Empty(t, current, "entry while still inside %s", current)
			current = e.Location
		}
	}

	gateIns := w.sink.EventsOfType(telemetry.EventGateIn)
	require.NotEmpty(t, gateIns)
	names := make([]string, 0, len(gateIns))
	for _, e := range gateIns {
		names = append(names, e.Location)
	}
	assert.Contains(t, names, originTerminal)
	assert.Contains(t, names, destDepot)

	// Report delay bounds hold for every emitted event.
	for _, e := range w.sink.Events() {
		delay := e.ReportTime.Sub(e.EventTime)
		require.GreaterOrEqual(t, delay, 30*time.Second)
		require.LessOrEqual(t, delay, 600*time.Second)
	}

	assert.Greater(t, len(w.sink.EventsOfType(telemetry.EventLocationUpdate)), 20)
	assert.NotEmpty(t, w.sink.EventsOfType(telemetry.EventInMotion))
	assert.NotEmpty(t, w.sink.EventsOfType(telemetry.EventMotionStop))
}

func TestSimulator_RailJourney_StateOrder(t *testing.T) {
	// Arrange: both US ports have rail ramps and rail is forced on
	cfg := testConfig(1)
	cfg.RailProbability = 1.0
	store := helpers.FixtureSubset(
		"USLAX-TERMINAL", "USLAX-DEPOT", "USLAX-RAIL-RAMP",
		"USNYC-TERMINAL", "USNYC-DEPOT", "USNYC-RAIL-RAMP",
	)
	w := newTestWorld(t, cfg, store, 5)
	c := w.sim.Population()[0]
	require.True(t, c.Journey.UseRail, "forced rail probability")

	// Act
	seen := []container.State{c.State}
	for i := 0; i < 300; i++ {
		prev := c.State
		w.sim.Tick(context.Background())
		if c.State != prev {
			seen = append(seen, c.State)
		}
	}
	w.sim.Flush()

	// Assert: the rail leg precedes the terminal on the origin side
	ramp := indexOfState(seen, container.StateAtOriginRailRamp, 0)
	rail := indexOfState(seen, container.StateInTransitRail, 0)
	terminal := indexOfState(seen, container.StateAtOriginTerminal, 0)
	require.GreaterOrEqual(t, ramp, 0, "trajectory %v", seen)
	require.GreaterOrEqual(t, rail, 0, "trajectory %v", seen)
	require.GreaterOrEqual(t, terminal, 0, "trajectory %v", seen)
	assert.Less(t, ramp, rail)
	assert.Less(t, rail, terminal)
}

func TestSimulator_EventInterval_Gates(t *testing.T) {
	// Arrange: interval far larger than the tick advance
	cfg := testConfig(1)
	cfg.Speed = 60 // 60 sim-seconds per tick against a 900 s interval
	w := newTestWorld(t, cfg, helpers.FixtureStore(), 6)

	// Act: 30 ticks cover two full intervals
	w.tick(30)

	// Assert: events only fire when the interval elapses
	times := make(map[time.Time]bool)
	for _, e := range w.sink.Events() {
		times[e.EventTime] = true
	}
	assert.LessOrEqual(t, len(times), 3, "at most one burst per elapsed interval")
}

func TestSimulator_JourneyReassignment(t *testing.T) {
	// Arrange
	store := helpers.FixtureSubset(
		"USLAX-TERMINAL", "USLAX-DEPOT",
		"USOAK-TERMINAL", "USOAK-DEPOT",
	)
	w := newTestWorld(t, testConfig(1), store, 7)
	c := w.sim.Population()[0]
	firstJourney := c.Journey

	// Act: run long enough to complete the journey and be reassigned
	reachedEnd := false
	for i := 0; i < 400 && !reachedEnd; i++ {
		w.sim.Tick(context.Background())
		if c.State == container.StateAtDestinationDepot {
			reachedEnd = true
		}
	}
	require.True(t, reachedEnd, "journey never completed")

	w.sim.Tick(context.Background()) // the reassignment tick
	w.sim.Flush()

	// Assert
	assert.Equal(t, container.StateAtOriginDepot, c.State)
	assert.True(t, c.Journey.Complete())
	assert.True(t, c.JourneyStartTime.After(w.sim.SimTime().Add(-time.Second)),
		"departure is scheduled in the future")
	assert.NotEmpty(t, c.Route, "first leg of the new journey is pre-computed")
	_ = firstJourney // endpoints may repeat in a two-port world; no assertion
}

func TestSimulator_PanicInUpdateIsContained(t *testing.T) {
	// Arrange: a container with a corrupt route index would panic on advance
	w := newTestWorld(t, testConfig(2), helpers.FixtureStore(), 8)
	bad := w.sim.Population()[0]
	bad.RouteIndex = -5 // next advance indexes Route[-4]

	// Act: must not panic, and the healthy container still reports
	require.NotPanics(t, func() { w.tick(2) })

	// Assert
	healthy := w.sim.Population()[1]
	assert.False(t, healthy.LastEventTime.IsZero(), "healthy container processed")
	_ = bad
}

func indexOfState(states []container.State, want container.State, from int) int {
	for i := from; i < len(states); i++ {
		if states[i] == want {
			return i
		}
	}
	return -1
}
