package dbpool

import "time"

// ControlPlaneKey is the fixed connection key of the shared control-plane
// database. Tenant keys are derived from the tenant identifier and never
// collide with it.
const ControlPlaneKey = "main"

// Config represents the configuration for the connection pool.
type Config struct {
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"` // ConnectTimeout bounds a single dial attempt, including the readiness ping.
	MaxPoolSize    uint64        `env:"DB_MAX_POOL_SIZE" envDefault:"100"`   // MaxPoolSize is the driver-level socket pool size per connection key.
	MinPoolSize    uint64        `env:"DB_MIN_POOL_SIZE" envDefault:"1"`     // MinPoolSize is the driver-level minimum socket pool size per connection key.
	MaxConns       int           `env:"DB_MAX_CONNS" envDefault:"0"`         // MaxConns caps the number of distinct connection keys; 0 means unlimited.
}
