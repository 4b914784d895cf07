package simulation

import (
	"time"

	"go.uber.org/zap"

	"github.com/zimgeofence/containersim-go/internal/domain/container"
	"github.com/zimgeofence/containersim-go/internal/domain/geofence"
)

// Dwell before a reassigned journey departs, in simulated time.
const (
	nextJourneyDelayMin = 1 * time.Hour
	nextJourneyDelayMax = 12 * time.Hour
)

// transitionContainer advances a container that has consumed its route.
// Transitions into an in-transit state install the route for that segment;
// arrivals at dwell states clear it. A missing journey endpoint skips the
// transition for this tick; it is retried on the next visit.
func (s *Simulator) transitionContainer(c *container.Container) {
	j := c.Journey

	switch c.State {
	case container.StateAtOriginDepot:
		next := container.StateInTransitToTerminal
		target := j.OriginTerminal
		if j.UseRail && j.OriginRailRamp != nil {
			next = container.StateInTransitToRailRamp
			target = j.OriginRailRamp
		}
		if j.OriginDepot == nil || target == nil {
			s.skipTransition(c, "missing origin endpoint")
			return
		}
		// Bootstrap pre-computes the first leg; when the container has
		// already traversed it, the in-transit state is a one-tick
		// connector. The route is generated here only on the resume path.
		var route []geofence.Point
		if len(c.Route) == 0 {
			route = s.routes.GenerateLandRoute(j.OriginDepot, target)
		}
		s.applyTransition(c, next, route)

	case container.StateInTransitToRailRamp:
		s.applyTransition(c, container.StateAtOriginRailRamp, nil)

	case container.StateAtOriginRailRamp:
		if j.OriginRailRamp == nil || j.OriginTerminal == nil {
			s.skipTransition(c, "missing rail endpoint")
			return
		}
		s.applyTransition(c, container.StateInTransitRail,
			s.routes.GenerateRailRoute(j.OriginRailRamp, j.OriginTerminal))

	case container.StateInTransitRail:
		// Rail delivers to the terminal gate; the final drayage hop is
		// below route resolution.
		s.applyTransition(c, container.StateInTransitToTerminal, nil)

	case container.StateInTransitToTerminal:
		s.applyTransition(c, container.StateAtOriginTerminal, nil)

	case container.StateAtOriginTerminal:
		s.applyTransition(c, container.StateLoadedOnVessel, nil)

	case container.StateLoadedOnVessel:
		if j.OriginTerminal == nil || j.DestinationTerminal == nil {
			s.skipTransition(c, "missing terminal endpoint")
			return
		}
		s.applyTransition(c, container.StateInTransitOcean,
			s.routes.GenerateOceanRoute(j.OriginTerminal, j.DestinationTerminal))

	case container.StateInTransitOcean:
		s.applyTransition(c, container.StateAtDestinationTerminal, nil)

	case container.StateAtDestinationTerminal:
		next := container.StateInTransitToDepot
		target := j.DestinationDepot
		if j.UseRail && j.DestinationRailRamp != nil {
			next = container.StateInTransitFromTerminal
			target = j.DestinationRailRamp
		}
		if j.DestinationTerminal == nil || target == nil {
			s.skipTransition(c, "missing destination endpoint")
			return
		}
		s.applyTransition(c, next,
			s.routes.GenerateLandRoute(j.DestinationTerminal, target))

	case container.StateInTransitFromTerminal:
		s.applyTransition(c, container.StateAtDestinationRailRamp, nil)

	case container.StateAtDestinationRailRamp:
		if j.DestinationRailRamp == nil || j.DestinationDepot == nil {
			s.skipTransition(c, "missing rail endpoint")
			return
		}
		s.applyTransition(c, container.StateInTransitRailToDepot,
			s.routes.GenerateRailRoute(j.DestinationRailRamp, j.DestinationDepot))

	case container.StateInTransitRailToDepot:
		s.applyTransition(c, container.StateInTransitToDepot, nil)

	case container.StateInTransitToDepot:
		s.applyTransition(c, container.StateAtDestinationDepot, nil)

	case container.StateAtDestinationDepot:
		s.assignNextJourney(c)
	}
}

// applyTransition runs the validated state change and installs the segment
// route. An invalid transition is a silent no-op.
func (s *Simulator) applyTransition(c *container.Container, next container.State, route []geofence.Point) {
	if err := c.TransitionTo(next); err != nil {
		s.logger.Debug("transition rejected",
			zap.String("container_id", c.Metadata.ContainerID),
			zap.String("from", string(c.State)),
			zap.String("to", string(next)))
		return
	}
	c.InstallRoute(route)
	s.markDirty(c)
}

func (s *Simulator) skipTransition(c *container.Container, reason string) {
	s.logger.Warn("transition skipped",
		zap.String("container_id", c.Metadata.ContainerID),
		zap.String("state", string(c.State)),
		zap.String("reason", reason))
}

// assignNextJourney resets a container that completed its journey onto a
// fresh one, repositioned at the new origin depot with a dwell before
// departure.
func (s *Simulator) assignNextJourney(c *container.Container) {
	j, err := s.routes.SelectJourney()
	if err != nil {
		s.logger.Warn("journey selection failed",
			zap.String("container_id", c.Metadata.ContainerID),
			zap.Error(err))
		return
	}

	c.AssignJourney(j)
	lon, lat := j.OriginDepot.Centroid()
	c.SetPosition(lat, lon)
	c.InstallRoute(s.firstLandRoute(j))

	delay := nextJourneyDelayMin +
		time.Duration(s.rng.Float64()*float64(nextJourneyDelayMax-nextJourneyDelayMin))
	c.JourneyStartTime = s.simTime.Add(delay)

	s.markDirty(c)
}

// firstLandRoute is the depot-to-first-stop leg: to the origin rail ramp on
// rail journeys, to the origin terminal otherwise.
func (s *Simulator) firstLandRoute(j container.Journey) []geofence.Point {
	target := j.OriginTerminal
	if j.UseRail && j.OriginRailRamp != nil {
		target = j.OriginRailRamp
	}
	if j.OriginDepot == nil || target == nil {
		return nil
	}
	return s.routes.GenerateLandRoute(j.OriginDepot, target)
}
