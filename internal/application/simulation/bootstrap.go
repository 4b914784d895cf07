package simulation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zimgeofence/containersim-go/internal/domain/container"
)

// bootstrapStartWindow spreads initial departures so the population does not
// leave its depots in one wave.
const bootstrapStartWindow = 4 * time.Hour

// Bootstrap loads the geofence population, creates the container fleet, and
// persists the initial snapshots. Must be called before Run.
func (s *Simulator) Bootstrap(ctx context.Context) error {
	if err := s.routes.Load(ctx, s.geofences); err != nil {
		return fmt.Errorf("failed to load geofences: %w", err)
	}

	population := make([]*container.Container, 0, s.cfg.NumContainers)
	for i := 0; i < s.cfg.NumContainers; i++ {
		c := container.New(container.NewMetadata(s.rng), i%s.cfg.StaggerSlots)

		journey, err := s.routes.SelectJourney()
		if err != nil {
			return fmt.Errorf("failed to assign initial journey: %w", err)
		}
		c.AssignJourney(journey)

		lon, lat := journey.OriginDepot.Centroid()
		c.SetPosition(lat, lon)
		c.CurrentGeofence = journey.OriginDepot.Name
		c.InstallRoute(s.firstLandRoute(journey))
		c.JourneyStartTime = s.simTime.Add(
			time.Duration(s.rng.Float64() * float64(bootstrapStartWindow)))

		population = append(population, c)
	}

	if len(population) > 0 {
		if err := s.containers.BulkUpsert(ctx, population); err != nil {
			return fmt.Errorf("failed to persist bootstrap population: %w", err)
		}
	}

	s.setPopulation(population)

	s.logger.Info("population bootstrapped",
		zap.Int("containers", len(population)),
		zap.Int("slots", s.cfg.StaggerSlots))
	return nil
}

// setPopulation installs the container list and partitions it into stagger
// slots by report slot.
func (s *Simulator) setPopulation(population []*container.Container) {
	s.population = population
	s.slots = make([][]*container.Container, s.cfg.StaggerSlots)
	for _, c := range population {
		slot := c.ReportSlot % s.cfg.StaggerSlots
		s.slots[slot] = append(s.slots[slot], c)
	}
	s.currentSlot = 0
}
