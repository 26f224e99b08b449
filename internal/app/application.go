package app

import (
	"log/slog"

	"transitgeo.cartes.app/internal/appconf"
	"transitgeo.cartes.app/internal/gtfs"
)

// Application holds the dependencies shared by HTTP handlers, middleware
// and the batch command.
type Application struct {
	Config      appconf.Config
	GtfsConfig  gtfs.Config
	Logger      *slog.Logger
	GtfsManager *gtfs.Manager
}
