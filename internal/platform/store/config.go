package store

import (
	"time"

	"brreg/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG     PGConfig
	CH     CHConfig
	SQLite SQLiteConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot knobs, zero means the defaults in openPG
	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
}

// SQLiteConfig configures the embedded sqlite file
type SQLiteConfig struct {
	Enabled bool
	Path    string
}

// FromConfig reads backend settings under the given prefix (e.g. "BRREG_EXPORT_")
// only the backend named by driver is enabled
func FromConfig(c config.Conf, driver, appName string) Config {
	return Config{
		AppName: appName,
		PG: PGConfig{
			Enabled:        driver == "pg",
			URL:            c.MayString("PG_DBURL", ""),
			MaxConns:       int32(c.MayInt("PG_MAX_CONNS", 4)),
			LogSQL:         c.MayBool("PG_LOG_SQL", false),
			SlowQueryMs:    c.MayInt("PG_SLOW_MS", 500),
			ConnectRetries: c.MayInt("PG_CONNECT_RETRIES", 0),
			PingTimeout:    c.MayDuration("PG_PING_TIMEOUT", 0),
		},
		CH: CHConfig{
			Enabled: driver == "ch",
			URL:     c.MayString("CH_DBURL", ""),
		},
		SQLite: SQLiteConfig{
			Enabled: driver == "sqlite",
			Path:    c.MayString("SQLITE_PATH", "companies.db"),
		},
	}
}
