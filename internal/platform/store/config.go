package store

import (
	"strings"
	"time"

	"zhkh/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG   PGConfig
	Lite LiteConfig
	CH   CHConfig
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

// LiteConfig configures the single file sqlite database
type LiteConfig struct {
	Enabled     bool
	Path        string
	BusyTimeout time.Duration // default 5s
	LogSQL      bool
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientName string
	ClientTag  string
}

// ConfigFrom reads STORE_* and SERVICE_* keys
// STORE_DRIVER picks the relational backend: sqlite (default) or postgres
func ConfigFrom(root config.Conf, app string) Config {
	st := root.Prefix("STORE_")
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")

	driver := st.MayEnum("DRIVER", "sqlite", "sqlite", "postgres")
	cfg := Config{AppName: app}

	switch strings.ToLower(driver) {
	case "postgres":
		cfg.PG = PGConfig{
			Enabled:     true,
			URL:         pg.MustString("DBURL"),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 8)),
			LogSQL:      pg.MayBool("LOG_SQL", false),
			SlowQueryMs: pg.MayInt("SLOW_MS", 250),
		}
	default:
		cfg.Lite = LiteConfig{
			Enabled:     true,
			Path:        st.MayString("SQLITE_PATH", "complaints.db"),
			BusyTimeout: st.MayDuration("SQLITE_BUSY_TIMEOUT", 5*time.Second),
			LogSQL:      st.MayBool("LOG_SQL", false),
		}
	}

	if ch.MayBool("ENABLED", false) {
		cfg.CH = CHConfig{
			Enabled:    true,
			URL:        ch.MustString("DBURL"),
			ClientName: app,
			ClientTag:  ch.MayString("CLIENT_TAG", "dev"),
		}
	}
	return cfg
}
