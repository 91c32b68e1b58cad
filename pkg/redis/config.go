package redis

import "time"

// Mode selects the Redis deployment topology.
type Mode string

const (
	ModeSingle   Mode = "single"
	ModeCluster  Mode = "cluster"
	ModeSentinel Mode = "sentinel"
)

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"` // ConnectionURL is used in single mode, e.g. "redis://:password@localhost:6379/0"
	Mode           Mode          `env:"REDIS_MODE" envDefault:"single"`                  // Mode is one of single, cluster or sentinel.
	Addrs          []string      `env:"REDIS_ADDRS" envSeparator:","`                    // Addrs are cluster seed nodes or sentinel addresses.
	MasterName     string        `env:"REDIS_MASTER_NAME"`                               // MasterName is the sentinel master set name.
	Password       string        `env:"REDIS_PASSWORD"`                                  // Password applies to cluster and sentinel modes.
	DB             int           `env:"REDIS_DB" envDefault:"0"`                         // DB is the database index in sentinel mode.
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"session:"`          // KeyPrefix namespaces session keys.
	ScanBatchSize  int64         `env:"REDIS_SCAN_BATCH_SIZE" envDefault:"1000"`         // ScanBatchSize is the SCAN COUNT hint used by ClearAll.
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`             // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`            // RetryInterval is the delay between attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`          // ConnectTimeout bounds all attempts together.
}
