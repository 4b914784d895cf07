package config

// SimulationConfig holds the tunables of the simulation loop and population.
type SimulationConfig struct {
	// Population size (NUM_CONTAINERS)
	NumContainers int `mapstructure:"num_containers" validate:"min=0"`

	// Number of stagger slots the population is partitioned into
	// (STAGGER_SLOTS); one slot is processed per wall-clock tick.
	StaggerSlots int `mapstructure:"stagger_slots" validate:"min=1"`

	// Simulated seconds per real second (SIMULATION_SPEED)
	Speed float64 `mapstructure:"speed" validate:"gt=0"`

	// Minimum simulated seconds between two events of one container
	// (EVENT_INTERVAL_SECONDS)
	EventIntervalSec int `mapstructure:"event_interval_sec" validate:"min=1"`

	// Wall seconds per scheduler tick (LOOP_INTERVAL_SECONDS)
	LoopIntervalSec float64 `mapstructure:"loop_interval_sec" validate:"gt=0"`

	// Wall seconds between status log lines (STATUS_INTERVAL_SECONDS)
	StatusIntervalSec float64 `mapstructure:"status_interval_sec" validate:"gt=0"`

	// Probability of a door open/close pair at a motion stop
	// (DOOR_EVENT_PROBABILITY)
	DoorProbability float64 `mapstructure:"door_probability" validate:"min=0,max=1"`

	// Probability an eligible journey is routed over rail
	// (RAIL_ROUTING_PROBABILITY)
	RailProbability float64 `mapstructure:"rail_probability" validate:"min=0,max=1"`

	// Country codes with rail ramps (RAIL_ENABLED_COUNTRIES)
	RailCountries []string `mapstructure:"rail_countries"`

	// Time-series sink retention (EVENT_RETENTION_DAYS)
	RetentionDays int `mapstructure:"retention_days" validate:"min=1"`
}
