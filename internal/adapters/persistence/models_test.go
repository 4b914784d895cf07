package persistence_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zimgeofence/containersim-go/internal/adapters/persistence"
	"github.com/zimgeofence/containersim-go/internal/domain/container"
	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
	"github.com/zimgeofence/containersim-go/internal/domain/telemetry"
)

func sampleEvent() *telemetry.Event {
	return &telemetry.Event{
		TrackerID:       "A0012345",
		AssetName:       "ZIMU1234567",
		AssetID:         31234,
		EventTime:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		ReportTime:      time.Date(2026, 3, 1, 12, 4, 30, 0, time.UTC),
		Latitude:        33.74,
		Longitude:       -118.27,
		Type:            telemetry.EventLocationUpdate,
		Location:        "USLAX-TERMINAL",
		LocationCountry: "US",
	}
}

func TestNewEventDocument(t *testing.T) {
	// Arrange
	e := sampleEvent()

	// Act
	doc := persistence.NewEventDocument(e)

	// Assert
	assert.Equal(t, "A0012345", doc.TrackerID)
	assert.Equal(t, "ZIMU1234567", doc.AssetName)
	assert.Equal(t, 31234, doc.AssetID)
	assert.Equal(t, "USLAX-TERMINAL", doc.EventLocation)
	require.NotNil(t, doc.EventLocationCountry)
	assert.Equal(t, "US", *doc.EventLocationCountry)
	assert.Equal(t, "Location Update", doc.EventType)
	assert.Equal(t, "Point", doc.Location.Type)
	assert.Equal(t, []float64{-118.27, 33.74}, doc.Location.Coordinates, "GeoJSON is lon-lat ordered")
}

func TestNewEventDocument_InTransitSentinel(t *testing.T) {
	// Arrange: no geofence context
	e := sampleEvent()
	e.Location = ""
	e.LocationCountry = ""

	// Act
	doc := persistence.NewEventDocument(e)

	// Assert
	assert.Equal(t, "In Transit", doc.EventLocation)
	assert.Nil(t, doc.EventLocationCountry)
}

func TestNewTimeSeriesDocument_Envelope(t *testing.T) {
	// Arrange
	e := sampleEvent()

	// Act
	doc := persistence.NewTimeSeriesDocument(e)

	// Assert: identity moves into the metadata envelope, EventTime becomes
	// the collection's time field
	assert.Equal(t, "A0012345", doc.Metadata.TrackerID)
	assert.Equal(t, "ZIMU1234567", doc.Metadata.AssetName)
	assert.Equal(t, 31234, doc.Metadata.AssetID)
	assert.Equal(t, e.EventTime, doc.Timestamp)
	assert.Equal(t, e.ReportTime, doc.ReportTime)
	assert.Equal(t, "USLAX-TERMINAL", doc.EventLocation)
	assert.Equal(t, []float64{-118.27, 33.74}, doc.Location.Coordinates)
}

func TestNewGateEventDocument_Denormalizes(t *testing.T) {
	// Arrange
	e := sampleEvent()
	e.Type = telemetry.EventGateIn
	e.Geofence = &geofence.Geofence{
		ID:     "65f0c0ffee",
		Name:   "USLAX-TERMINAL",
		TypeID: geofence.TypeTerminal,
	}

	// Act
	doc := persistence.NewGateEventDocument(e)

	// Assert
	assert.Equal(t, "Gate In", doc.EventType)
	assert.Equal(t, "USLAX-TERMINAL", doc.GeofenceName)
	assert.Equal(t, "Terminal", doc.GeofenceType)
	assert.Equal(t, "65f0c0ffee", doc.GeofenceID)
	assert.Equal(t, e.TrackerID, doc.TrackerID, "inline event fields survive")
}

func TestNewContainerDocument(t *testing.T) {
	// Arrange
	c := container.New(container.NewMetadata(rand.New(rand.NewSource(1))), 3)
	depot := &geofence.Geofence{Name: "USLAX-DEPOT", TypeID: geofence.TypeDepot}
	terminal := &geofence.Geofence{Name: "USLAX-TERMINAL", TypeID: geofence.TypeTerminal}
	destTerminal := &geofence.Geofence{Name: "CNSHA-TERMINAL", TypeID: geofence.TypeTerminal}
	destDepot := &geofence.Geofence{Name: "CNSHA-DEPOT", TypeID: geofence.TypeDepot}

	c.AssignJourney(container.Journey{
		OriginDepot:         depot,
		OriginTerminal:      terminal,
		DestinationTerminal: destTerminal,
		DestinationDepot:    destDepot,
	})
	c.SetPosition(33.85, -118.22)
	c.CurrentGeofence = "USLAX-DEPOT"

	// Act
	doc := persistence.NewContainerDocument(c)

	// Assert
	assert.Equal(t, c.Metadata.ContainerID, doc.ContainerID)
	assert.Equal(t, c.Metadata.TrackerID, doc.TrackerID)
	assert.Equal(t, "at_origin_depot", doc.State)
	assert.Equal(t, 33.85, doc.Latitude)
	assert.Equal(t, -118.22, doc.Longitude)
	assert.False(t, doc.UseRail)
	require.NotNil(t, doc.CurrentGeofence)
	assert.Equal(t, "USLAX-DEPOT", *doc.CurrentGeofence)
	require.NotNil(t, doc.OriginDepot)
	assert.Equal(t, "USLAX-DEPOT", *doc.OriginDepot)
	assert.Nil(t, doc.OriginRailRamp, "no rail leg on this journey")
	require.NotNil(t, doc.DestinationDepot)
	assert.Equal(t, "CNSHA-DEPOT", *doc.DestinationDepot)
}

func TestNewContainerDocument_NoGeofence(t *testing.T) {
	c := container.New(container.NewMetadata(rand.New(rand.NewSource(2))), 0)

	doc := persistence.NewContainerDocument(c)

	assert.Nil(t, doc.CurrentGeofence)
}
