package config

import "time"

// SetDefaults fills missing configuration fields with the documented
// defaults. MONGODB_URI has no default; validation rejects its absence.
func SetDefaults(cfg *Config) {
	// Database
	if cfg.Database.Name == "" {
		cfg.Database.Name = "zim_geofence"
	}
	if cfg.Database.Pool.MinSize == 0 {
		cfg.Database.Pool.MinSize = 10
	}
	if cfg.Database.Pool.MaxSize == 0 {
		cfg.Database.Pool.MaxSize = 50
	}
	if cfg.Database.ServerSelectionTimeout == 0 {
		cfg.Database.ServerSelectionTimeout = 5 * time.Second
	}
	if cfg.Database.ConnectTimeout == 0 {
		cfg.Database.ConnectTimeout = 10 * time.Second
	}
	if cfg.Database.SocketTimeout == 0 {
		cfg.Database.SocketTimeout = 5 * time.Minute
	}

	// Simulation
	if cfg.Simulation.NumContainers == 0 {
		cfg.Simulation.NumContainers = 100000
	}
	if cfg.Simulation.StaggerSlots == 0 {
		cfg.Simulation.StaggerSlots = 900
	}
	if cfg.Simulation.Speed == 0 {
		cfg.Simulation.Speed = 60
	}
	if cfg.Simulation.EventIntervalSec == 0 {
		cfg.Simulation.EventIntervalSec = 900
	}
	if cfg.Simulation.LoopIntervalSec == 0 {
		cfg.Simulation.LoopIntervalSec = 1.0
	}
	if cfg.Simulation.StatusIntervalSec == 0 {
		cfg.Simulation.StatusIntervalSec = 10.0
	}
	if cfg.Simulation.DoorProbability == 0 {
		cfg.Simulation.DoorProbability = 0.30
	}
	if cfg.Simulation.RailProbability == 0 {
		cfg.Simulation.RailProbability = 0.30
	}
	if len(cfg.Simulation.RailCountries) == 0 {
		cfg.Simulation.RailCountries = []string{"US", "CA", "GB"}
	}
	if cfg.Simulation.RetentionDays == 0 {
		cfg.Simulation.RetentionDays = 90
	}

	// Logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
