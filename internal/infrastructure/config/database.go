package config

import "time"

// DatabaseConfig holds MongoDB connection settings for the event and
// container stores.
type DatabaseConfig struct {
	// Connection string (MONGODB_URI)
	URI string `mapstructure:"uri" validate:"required"`

	// Target database (DB_NAME)
	Name string `mapstructure:"name" validate:"required"`

	// Connection pool bounds
	Pool PoolConfig `mapstructure:"pool"`

	// Server selection timeout; setup fails fast when the cluster is
	// unreachable within this window.
	ServerSelectionTimeout time.Duration `mapstructure:"server_selection_timeout"`

	// Initial connect timeout
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`

	// Socket timeout for long bulk operations
	SocketTimeout time.Duration `mapstructure:"socket_timeout"`
}

// PoolConfig bounds the shared connection pool.
type PoolConfig struct {
	MinSize uint64 `mapstructure:"min_size"`
	MaxSize uint64 `mapstructure:"max_size"`
}
