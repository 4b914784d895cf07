package simulation

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/zimgeofence/containersim-go/internal/domain/container"
	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
)

// CheckpointState is the serialized form of a paused simulation. Routes are
// deliberately absent; they are regenerated on resume.
type CheckpointState struct {
	SimTime         time.Time        `json:"sim_time"`
	CurrentSlot     int              `json:"current_slot"`
	EventsGenerated int64            `json:"events_generated"`
	StaggerSlots    int              `json:"stagger_slots"`
	Speed           float64          `json:"speed"`
	Containers      []ContainerState `json:"containers"`
}

// ContainerState is one container's checkpointed fields.
type ContainerState struct {
	ContainerID      string    `json:"container_id"`
	State            string    `json:"state"`
	Slot             int       `json:"slot"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	IsMoving         bool      `json:"is_moving"`
	RouteIndex       int       `json:"route_index"`
	UseRail          bool      `json:"use_rail"`
	CurrentGeofence  string    `json:"current_geofence"`
	JourneyStartTime time.Time `json:"journey_start_time"`
	LastEventTime    time.Time `json:"last_event_time"`
}

// SaveCheckpoint writes a state file as JSON.
func SaveCheckpoint(state *CheckpointState, path string) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize checkpoint: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint %s: %w", path, err)
	}
	return nil
}

// LoadCheckpoint reads a state file written by SaveCheckpoint.
func LoadCheckpoint(path string) (*CheckpointState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint %s: %w", path, err)
	}
	var state CheckpointState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse checkpoint %s: %w", path, err)
	}
	return &state, nil
}

// Checkpoint captures the current simulation state.
func (s *Simulator) Checkpoint() *CheckpointState {
	state := &CheckpointState{
		SimTime:         s.simTime,
		CurrentSlot:     s.currentSlot,
		EventsGenerated: s.eventsGenerated,
		StaggerSlots:    s.cfg.StaggerSlots,
		Speed:           s.cfg.Speed,
		Containers:      make([]ContainerState, 0, len(s.population)),
	}
	for _, c := range s.population {
		state.Containers = append(state.Containers, ContainerState{
			ContainerID:      c.Metadata.ContainerID,
			State:            string(c.State),
			Slot:             c.ReportSlot,
			Latitude:         c.Latitude,
			Longitude:        c.Longitude,
			IsMoving:         c.IsMoving,
			RouteIndex:       c.RouteIndex,
			UseRail:          c.Journey.UseRail,
			CurrentGeofence:  c.CurrentGeofence,
			JourneyStartTime: c.JourneyStartTime,
			LastEventTime:    c.LastEventTime,
		})
	}
	return state
}

// Restore overlays a checkpoint onto a bootstrapped population. Saved
// records are matched to containers by container_id; records with no match
// claim remaining containers in order, taking their identity with them, so a
// resumed run carries the full saved fleet even though bootstrap randomizes
// ids. Call after Bootstrap.
func (s *Simulator) Restore(state *CheckpointState) {
	s.simTime = state.SimTime
	s.currentSlot = state.CurrentSlot % s.cfg.StaggerSlots
	s.eventsGenerated = state.EventsGenerated

	byID := make(map[string]*container.Container, len(s.population))
	for _, c := range s.population {
		byID[c.Metadata.ContainerID] = c
	}

	claimed := make(map[*container.Container]bool, len(s.population))
	var unmatched []*ContainerState

	for i := range state.Containers {
		saved := &state.Containers[i]
		if c, ok := byID[saved.ContainerID]; ok && !claimed[c] {
			s.overlay(c, saved)
			claimed[c] = true
		} else {
			unmatched = append(unmatched, saved)
		}
	}

	if len(unmatched) > 0 {
		free := make([]*container.Container, 0, len(unmatched))
		for _, c := range s.population {
			if !claimed[c] {
				free = append(free, c)
			}
		}
		for i, saved := range unmatched {
			if i >= len(free) {
				break
			}
			free[i].Metadata.ContainerID = saved.ContainerID
			s.overlay(free[i], saved)
		}
	}

	// Slots may differ from the fresh bootstrap's; re-partition.
	s.setPopulation(s.population)
	s.currentSlot = state.CurrentSlot % s.cfg.StaggerSlots

	s.logger.Info("checkpoint restored",
		zap.Time("sim_time", s.simTime),
		zap.Int("containers", len(state.Containers)),
		zap.Int64("events_generated", s.eventsGenerated))
}

// overlay applies one saved record to a container and regenerates the route
// for its in-transit segment, clamping the saved index into it.
func (s *Simulator) overlay(c *container.Container, saved *ContainerState) {
	c.State = container.State(saved.State)
	c.ReportSlot = saved.Slot
	c.SetPosition(saved.Latitude, saved.Longitude)
	c.IsMoving = saved.IsMoving
	c.Journey.UseRail = saved.UseRail
	c.CurrentGeofence = saved.CurrentGeofence
	c.JourneyStartTime = saved.JourneyStartTime
	c.LastEventTime = saved.LastEventTime

	c.InstallRoute(s.routeForState(c))
	if len(c.Route) > 0 {
		idx := saved.RouteIndex
		if idx > len(c.Route)-1 {
			idx = len(c.Route) - 1
		}
		if idx < 0 {
			idx = 0
		}
		c.RouteIndex = idx
	} else {
		c.RouteIndex = saved.RouteIndex
		if c.RouteIndex < 0 {
			c.RouteIndex = 0
		}
	}
}

// routeForState regenerates the waypoints of the segment a restored
// container was traversing. States without a route (dwell states and the
// one-tick connectors) map to nil, which the scheduler treats as arrival.
func (s *Simulator) routeForState(c *container.Container) []geofence.Point {
	j := c.Journey
	switch c.State {
	case container.StateAtOriginDepot:
		return s.firstLandRoute(j)
	case container.StateInTransitToRailRamp:
		if j.OriginDepot == nil || j.OriginRailRamp == nil {
			return nil
		}
		return s.routes.GenerateLandRoute(j.OriginDepot, j.OriginRailRamp)
	case container.StateInTransitRail:
		if j.OriginRailRamp == nil || j.OriginTerminal == nil {
			return nil
		}
		return s.routes.GenerateRailRoute(j.OriginRailRamp, j.OriginTerminal)
	case container.StateInTransitOcean:
		if j.OriginTerminal == nil || j.DestinationTerminal == nil {
			return nil
		}
		return s.routes.GenerateOceanRoute(j.OriginTerminal, j.DestinationTerminal)
	case container.StateInTransitFromTerminal:
		if j.DestinationTerminal == nil || j.DestinationRailRamp == nil {
			return nil
		}
		return s.routes.GenerateLandRoute(j.DestinationTerminal, j.DestinationRailRamp)
	case container.StateInTransitRailToDepot:
		if j.DestinationRailRamp == nil || j.DestinationDepot == nil {
			return nil
		}
		return s.routes.GenerateRailRoute(j.DestinationRailRamp, j.DestinationDepot)
	case container.StateInTransitToDepot:
		if j.UseRail && j.DestinationRailRamp != nil {
			return nil // rail connector, arrival is immediate
		}
		if j.DestinationTerminal == nil || j.DestinationDepot == nil {
			return nil
		}
		return s.routes.GenerateLandRoute(j.DestinationTerminal, j.DestinationDepot)
	}
	return nil
}
