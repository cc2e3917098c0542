package store

import (
	"time"

	"kycdesk/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

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

	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	Tag     string
}

// ConfigFromEnv reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_*
// postgres is enabled whenever a URL is present
func ConfigFromEnv(appName string) Config {
	pgc := config.New().Prefix("SERVICE_PGSQL_")
	chc := config.New().Prefix("SERVICE_CLICKHOUSE_")

	pgURL := pgc.MayString("DBURL", "")
	return Config{
		AppName: appName,
		PG: PGConfig{
			Enabled:     pgURL != "",
			URL:         pgURL,
			MaxConns:    int32(pgc.MayInt("MAX_CONNS", 8)),
			LogSQL:      pgc.MayBool("LOG_SQL", false),
			SlowQueryMs: pgc.MayInt("SLOW_MS", 500),
		},
		CH: CHConfig{
			Enabled: chc.MayBool("ENABLED", false),
			URL:     chc.MayString("DBURL", ""),
			Tag:     chc.MayString("TAG", "dev"),
		},
	}
}
