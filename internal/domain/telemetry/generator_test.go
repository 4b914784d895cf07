package telemetry_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zimgeofence/containersim-go/internal/domain/container"
	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
	"github.com/zimgeofence/containersim-go/internal/domain/telemetry"
)

func testContainer(seed int64) *container.Container {
	c := container.New(container.NewMetadata(rand.New(rand.NewSource(seed))), 0)
	c.SetPosition(33.74, -118.27)
	return c
}

func TestGenerator_ReportDelayBounds(t *testing.T) {
	// Arrange
	gen := telemetry.NewGenerator(rand.New(rand.NewSource(1)), 0)
	c := testContainer(1)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 500; i++ {
		// Act
		e := gen.LocationUpdate(c, at, nil)

		// Assert
		delay := e.ReportTime.Sub(e.EventTime)
		require.GreaterOrEqual(t, delay, 30*time.Second)
		require.LessOrEqual(t, delay, 600*time.Second)
	}
}

func TestGenerator_ReportDelayMean(t *testing.T) {
	// Arrange: empirical mean over 1000 samples should sit near the uniform
	// [30, 600] midpoint of 315 s.
	gen := telemetry.NewGenerator(rand.New(rand.NewSource(99)), 0)
	c := testContainer(2)
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Act
	var total time.Duration
	for i := 0; i < 1000; i++ {
		e := gen.LocationUpdate(c, at, nil)
		total += e.ReportTime.Sub(e.EventTime)
	}
	mean := total / 1000

	// Assert
	assert.GreaterOrEqual(t, mean, 250*time.Second)
	assert.LessOrEqual(t, mean, 380*time.Second)
}

func TestGenerator_EventCarriesIdentityAndPosition(t *testing.T) {
	// Arrange
	gen := telemetry.NewGenerator(rand.New(rand.NewSource(4)), 0)
	c := testContainer(4)
	at := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)

	// Act
	e := gen.Motion(c, at, true, nil)

	// Assert
	assert.Equal(t, telemetry.EventInMotion, e.Type)
	assert.Equal(t, c.Metadata.TrackerID, e.TrackerID)
	assert.Equal(t, c.Metadata.ContainerID, e.AssetName)
	assert.Equal(t, c.Metadata.AssetID, e.AssetID)
	assert.Equal(t, at, e.EventTime)
	assert.Equal(t, c.Latitude, e.Latitude)
	assert.Equal(t, c.Longitude, e.Longitude)
	assert.Empty(t, e.Location, "no geofence context outside a fence")
}

func TestGenerator_GeofenceContext(t *testing.T) {
	// Arrange
	gen := telemetry.NewGenerator(rand.New(rand.NewSource(5)), 0)
	c := testContainer(5)
	gf := &geofence.Geofence{Name: "USLAX-TERMINAL", TypeID: geofence.TypeTerminal, UNLOCode: "USLAX"}
	at := time.Now().UTC()

	// Act
	e := gen.LocationUpdate(c, at, gf)

	// Assert
	assert.Equal(t, "USLAX-TERMINAL", e.Location)
	assert.Equal(t, "US", e.LocationCountry)
	assert.Nil(t, e.Geofence, "only gate events carry the geofence itself")
}

func TestGenerator_GateEvents(t *testing.T) {
	// Arrange
	gen := telemetry.NewGenerator(rand.New(rand.NewSource(6)), 0)
	c := testContainer(6)
	gf := &geofence.Geofence{Name: "USLAX-DEPOT", TypeID: geofence.TypeDepot, UNLOCode: "USLAX"}
	at := time.Now().UTC()

	// Act
	in := gen.Gate(c, at, true, gf)
	out := gen.Gate(c, at, false, gf)

	// Assert
	assert.Equal(t, telemetry.EventGateIn, in.Type)
	assert.Equal(t, telemetry.EventGateOut, out.Type)
	assert.True(t, in.IsGate())
	assert.True(t, out.IsGate())
	require.NotNil(t, in.Geofence)
	assert.Equal(t, gf.Name, in.Geofence.Name)
}

func TestGenerator_StopEvents_DoorProbability(t *testing.T) {
	// Arrange
	at := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)

	t.Run("probability zero never opens doors", func(t *testing.T) {
		gen := telemetry.NewGenerator(rand.New(rand.NewSource(7)), 0)
		c := testContainer(7)

		for i := 0; i < 100; i++ {
			events := gen.StopEvents(c, at, nil)
			require.Len(t, events, 1)
			require.Equal(t, telemetry.EventMotionStop, events[0].Type)
		}
	})

	t.Run("probability one always opens doors", func(t *testing.T) {
		gen := telemetry.NewGenerator(rand.New(rand.NewSource(8)), 1.0)
		c := testContainer(8)

		for i := 0; i < 100; i++ {
			events := gen.StopEvents(c, at, nil)
			require.Len(t, events, 3)
			require.Equal(t, telemetry.EventMotionStop, events[0].Type)
			require.Equal(t, telemetry.EventDoorOpened, events[1].Type)
			require.Equal(t, telemetry.EventDoorClosed, events[2].Type)

			// Door events trail the stop inside the dwell window.
			require.True(t, events[1].EventTime.After(events[0].EventTime))
			require.True(t, events[2].EventTime.After(events[1].EventTime))
		}
	})
}
