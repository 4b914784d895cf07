package persistence

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zimgeofence/containersim-go/internal/domain/container"
	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
	"github.com/zimgeofence/containersim-go/internal/domain/telemetry"
)

// GeoPoint is a GeoJSON Point, coordinates [lon, lat].
type GeoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

// GeoPolygon is a GeoJSON Polygon; the first ring is the outer boundary.
type GeoPolygon struct {
	Type        string        `bson:"type"`
	Coordinates [][][]float64 `bson:"coordinates"`
}

// GeofenceProperties is the feature-collection property bag of a geofence.
type GeofenceProperties struct {
	Name        string    `bson:"name"`
	TypeID      string    `bson:"typeId"`
	UNLOCode    string    `bson:"UNLOCode,omitempty"`
	SMDGCode    string    `bson:"SMDGCode,omitempty"`
	Description string    `bson:"description,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// GeofenceDocument stores a geofence as a GeoJSON feature, the shape the
// import boundary produces and the 2dsphere index expects.
type GeofenceDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Type       string             `bson:"type"`
	Properties GeofenceProperties `bson:"properties"`
	Geometry   GeoPolygon         `bson:"geometry"`
}

// ToGeofence converts a stored document to the domain entity.
func (d *GeofenceDocument) ToGeofence() *geofence.Geofence {
	g := &geofence.Geofence{
		ID:          d.ID.Hex(),
		Name:        d.Properties.Name,
		TypeID:      geofence.Type(d.Properties.TypeID),
		UNLOCode:    d.Properties.UNLOCode,
		SMDGCode:    d.Properties.SMDGCode,
		Description: d.Properties.Description,
		CreatedAt:   d.Properties.CreatedAt,
		UpdatedAt:   d.Properties.UpdatedAt,
	}
	if len(d.Geometry.Coordinates) > 0 {
		ring := d.Geometry.Coordinates[0]
		g.Ring = make([]geofence.Point, 0, len(ring))
		for _, pos := range ring {
			if len(pos) >= 2 {
				g.Ring = append(g.Ring, geofence.Point{Lon: pos[0], Lat: pos[1]})
			}
		}
	}
	return g
}

func geometryFromRing(ring []geofence.Point) GeoPolygon {
	coords := make([][]float64, 0, len(ring))
	for _, p := range ring {
		coords = append(coords, []float64{p.Lon, p.Lat})
	}
	return GeoPolygon{Type: "Polygon", Coordinates: [][][]float64{coords}}
}

// EventDocument is the event-log shape; field names are bit-compatible with
// the tracker platform's export.
type EventDocument struct {
	TrackerID            string    `bson:"TrackerID"`
	AssetName            string    `bson:"assetname"`
	AssetID              int       `bson:"AssetId"`
	EventTime            time.Time `bson:"EventTime"`
	ReportTime           time.Time `bson:"ReportTime"`
	EventLocation        string    `bson:"EventLocation"`
	EventLocationCountry *string   `bson:"EventLocationCountry"`
	Lat                  float64   `bson:"Lat"`
	Lon                  float64   `bson:"Lon"`
	EventType            string    `bson:"EventType"`
	Location             GeoPoint  `bson:"location"`
}

// EventMetadata is the time-series metadata envelope identifying the source
// tracker.
type EventMetadata struct {
	TrackerID string `bson:"TrackerID"`
	AssetName string `bson:"assetname"`
	AssetID   int    `bson:"AssetId"`
}

// TimeSeriesDocument is the append-only sink's shape: same logical content as
// EventDocument with identity wrapped in the metadata envelope and EventTime
// promoted to the collection's time field.
type TimeSeriesDocument struct {
	Metadata             EventMetadata `bson:"metadata"`
	Timestamp            time.Time     `bson:"timestamp"`
	ReportTime           time.Time     `bson:"ReportTime"`
	EventLocation        string        `bson:"EventLocation"`
	EventLocationCountry *string       `bson:"EventLocationCountry"`
	Lat                  float64       `bson:"Lat"`
	Lon                  float64       `bson:"Lon"`
	EventType            string        `bson:"EventType"`
	Location             GeoPoint      `bson:"location"`
}

// GateEventDocument is an event-log document denormalized with the geofence
// it crosses.
type GateEventDocument struct {
	EventDocument `bson:",inline"`

	GeofenceName string `bson:"geofence_name"`
	GeofenceType string `bson:"geofence_type"`
	GeofenceID   string `bson:"geofence_id"`
}

func eventLocation(e *telemetry.Event) (string, *string) {
	if e.Location == "" {
		return telemetry.InTransitLocation, nil
	}
	country := e.LocationCountry
	return e.Location, &country
}

// NewEventDocument shapes an event for the mutable event log.
func NewEventDocument(e *telemetry.Event) EventDocument {
	location, country := eventLocation(e)
	return EventDocument{
		TrackerID:            e.TrackerID,
		AssetName:            e.AssetName,
		AssetID:              e.AssetID,
		EventTime:            e.EventTime,
		ReportTime:           e.ReportTime,
		EventLocation:        location,
		EventLocationCountry: country,
		Lat:                  e.Latitude,
		Lon:                  e.Longitude,
		EventType:            string(e.Type),
		Location:             GeoPoint{Type: "Point", Coordinates: []float64{e.Longitude, e.Latitude}},
	}
}

// NewTimeSeriesDocument shapes an event for the time-series sink.
func NewTimeSeriesDocument(e *telemetry.Event) TimeSeriesDocument {
	location, country := eventLocation(e)
	return TimeSeriesDocument{
		Metadata: EventMetadata{
			TrackerID: e.TrackerID,
			AssetName: e.AssetName,
			AssetID:   e.AssetID,
		},
		Timestamp:            e.EventTime,
		ReportTime:           e.ReportTime,
		EventLocation:        location,
		EventLocationCountry: country,
		Lat:                  e.Latitude,
		Lon:                  e.Longitude,
		EventType:            string(e.Type),
		Location:             GeoPoint{Type: "Point", Coordinates: []float64{e.Longitude, e.Latitude}},
	}
}

// NewGateEventDocument shapes a gate crossing for the gate_events store.
// The event must carry its geofence.
func NewGateEventDocument(e *telemetry.Event) GateEventDocument {
	return GateEventDocument{
		EventDocument: NewEventDocument(e),
		GeofenceName:  e.Geofence.Name,
		GeofenceType:  string(e.Geofence.TypeID),
		GeofenceID:    e.Geofence.ID,
	}
}

// ContainerDocument is the container collection's snapshot of non-route
// state, upserted by container_id.
type ContainerDocument struct {
	ContainerID  string `bson:"container_id"`
	TrackerID    string `bson:"tracker_id"`
	AssetID      int    `bson:"asset_id"`
	SizeClass    string `bson:"container_type"`
	Refrigerated bool   `bson:"refrigerated"`
	CargoClass   string `bson:"cargo_type"`

	State     string  `bson:"state"`
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
	IsMoving  bool    `bson:"is_moving"`
	DoorOpen  bool    `bson:"door_open"`
	UseRail   bool    `bson:"use_rail"`

	CurrentGeofence *string `bson:"current_geofence"`

	OriginDepot         *string `bson:"origin_depot"`
	OriginRailRamp      *string `bson:"origin_rail_ramp"`
	OriginTerminal      *string `bson:"origin_terminal"`
	DestinationTerminal *string `bson:"destination_terminal"`
	DestinationRailRamp *string `bson:"destination_rail_ramp"`
	DestinationDepot    *string `bson:"destination_depot"`
}

func geofenceName(g *geofence.Geofence) *string {
	if g == nil {
		return nil
	}
	name := g.Name
	return &name
}

// NewContainerDocument snapshots a container for upsert.
func NewContainerDocument(c *container.Container) ContainerDocument {
	doc := ContainerDocument{
		ContainerID:  c.Metadata.ContainerID,
		TrackerID:    c.Metadata.TrackerID,
		AssetID:      c.Metadata.AssetID,
		SizeClass:    c.Metadata.SizeClass,
		Refrigerated: c.Metadata.Refrigerated,
		CargoClass:   c.Metadata.CargoClass,

		State:     string(c.State),
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		IsMoving:  c.IsMoving,
		DoorOpen:  c.DoorOpen,
		UseRail:   c.Journey.UseRail,

		OriginDepot:         geofenceName(c.Journey.OriginDepot),
		OriginRailRamp:      geofenceName(c.Journey.OriginRailRamp),
		OriginTerminal:      geofenceName(c.Journey.OriginTerminal),
		DestinationTerminal: geofenceName(c.Journey.DestinationTerminal),
		DestinationRailRamp: geofenceName(c.Journey.DestinationRailRamp),
		DestinationDepot:    geofenceName(c.Journey.DestinationDepot),
	}
	if c.CurrentGeofence != "" {
		name := c.CurrentGeofence
		doc.CurrentGeofence = &name
	}
	return doc
}
