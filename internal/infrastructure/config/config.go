package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the immutable runtime configuration, parsed once at startup and
// passed by reference to every component.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// envBindings maps the flat environment variables the simulator documents to
// their nested config keys.
var envBindings = map[string]string{
	"database.uri":                   "MONGODB_URI",
	"database.name":                  "DB_NAME",
	"simulation.num_containers":      "NUM_CONTAINERS",
	"simulation.stagger_slots":       "STAGGER_SLOTS",
	"simulation.speed":               "SIMULATION_SPEED",
	"simulation.event_interval_sec":  "EVENT_INTERVAL_SECONDS",
	"simulation.door_probability":    "DOOR_EVENT_PROBABILITY",
	"simulation.rail_probability":    "RAIL_ROUTING_PROBABILITY",
	"simulation.rail_countries":      "RAIL_ENABLED_COUNTRIES",
	"simulation.loop_interval_sec":   "LOOP_INTERVAL_SECONDS",
	"simulation.status_interval_sec": "STATUS_INTERVAL_SECONDS",
	"simulation.retention_days":      "EVENT_RETENTION_DAYS",
	"logging.level":                  "LOG_LEVEL",
	"logging.format":                 "LOG_FORMAT",
}

// LoadConfig loads configuration with priority: environment variables over
// config file (config.yaml, optional) over defaults.
func LoadConfig(configPath string) (*Config, error) {
	// Load .env if present; missing file is fine.
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/containersim")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; env vars and defaults cover everything.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
