package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zimgeofence/containersim-go/internal/infrastructure/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// Arrange
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	// Act
	cfg, err := config.LoadConfig("")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "zim_geofence", cfg.Database.Name)
	assert.Equal(t, uint64(10), cfg.Database.Pool.MinSize)
	assert.Equal(t, uint64(50), cfg.Database.Pool.MaxSize)
	assert.Equal(t, 5*time.Second, cfg.Database.ServerSelectionTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Database.SocketTimeout)

	assert.Equal(t, 100000, cfg.Simulation.NumContainers)
	assert.Equal(t, 900, cfg.Simulation.StaggerSlots)
	assert.Equal(t, 60.0, cfg.Simulation.Speed)
	assert.Equal(t, 900, cfg.Simulation.EventIntervalSec)
	assert.Equal(t, 1.0, cfg.Simulation.LoopIntervalSec)
	assert.Equal(t, 0.30, cfg.Simulation.DoorProbability)
	assert.Equal(t, 0.30, cfg.Simulation.RailProbability)
	assert.Equal(t, []string{"US", "CA", "GB"}, cfg.Simulation.RailCountries)
	assert.Equal(t, 90, cfg.Simulation.RetentionDays)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	// Arrange
	t.Setenv("MONGODB_URI", "mongodb://db.internal:27017")
	t.Setenv("DB_NAME", "geofence_test")
	t.Setenv("NUM_CONTAINERS", "500")
	t.Setenv("STAGGER_SLOTS", "10")
	t.Setenv("SIMULATION_SPEED", "120")
	t.Setenv("DOOR_EVENT_PROBABILITY", "0.5")
	t.Setenv("LOG_LEVEL", "debug")

	// Act
	cfg, err := config.LoadConfig("")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "mongodb://db.internal:27017", cfg.Database.URI)
	assert.Equal(t, "geofence_test", cfg.Database.Name)
	assert.Equal(t, 500, cfg.Simulation.NumContainers)
	assert.Equal(t, 10, cfg.Simulation.StaggerSlots)
	assert.Equal(t, 120.0, cfg.Simulation.Speed)
	assert.Equal(t, 0.5, cfg.Simulation.DoorProbability)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_MissingURI(t *testing.T) {
	// Arrange: make sure the variable is absent even when the host sets it
	t.Setenv("MONGODB_URI", "")

	// Act
	_, err := config.LoadConfig("")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidateConfig_Bounds(t *testing.T) {
	// Arrange
	cfg := &config.Config{}
	cfg.Database.URI = "mongodb://localhost:27017"
	config.SetDefaults(cfg)

	require.NoError(t, config.ValidateConfig(cfg))

	// Act & Assert: probabilities outside [0, 1] are rejected
	cfg.Simulation.DoorProbability = 1.5
	assert.Error(t, config.ValidateConfig(cfg))

	cfg.Simulation.DoorProbability = 0.3
	cfg.Simulation.StaggerSlots = 0
	assert.Error(t, config.ValidateConfig(cfg))

	cfg.Simulation.StaggerSlots = 900
	cfg.Simulation.Speed = -1
	assert.Error(t, config.ValidateConfig(cfg))
}
