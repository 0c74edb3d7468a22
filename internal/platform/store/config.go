package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot guard: attempts and per attempt ping timeout (defaults 10 and 3s)
	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string

	// ClientName and ClientTag end up in system.query_log client info
	ClientName string
	ClientTag  string
}
