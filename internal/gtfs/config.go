package gtfs

import (
	"strings"
	"time"

	"transitgeo.cartes.app/internal/appconf"
)

const defaultRefreshInterval = 24 * time.Hour

type Config struct {
	// GtfsURL is a URL or a local path to a GTFS zip.
	GtfsURL string
	// GTFSDataPath is the SQLite database path, ":memory:" in tests.
	GTFSDataPath    string
	Env             appconf.Environment
	Verbose         bool
	RefreshInterval time.Duration
}

func (config Config) isLocalFile() bool {
	return !strings.HasPrefix(config.GtfsURL, "http://") && !strings.HasPrefix(config.GtfsURL, "https://")
}

func (config Config) refreshInterval() time.Duration {
	if config.RefreshInterval > 0 {
		return config.RefreshInterval
	}
	return defaultRefreshInterval
}
