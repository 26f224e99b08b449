// Command geojsons writes route and segment GeoJSON files for the agencies
// of a GTFS feed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"transitgeo.cartes.app/internal/appconf"
	"transitgeo.cartes.app/internal/gtfs"
	"transitgeo.cartes.app/internal/logging"
	"transitgeo.cartes.app/internal/report"
)

func main() {
	_ = godotenv.Load()

	var (
		opts       exportOptions
		gtfsCfg    gtfs.Config
		configFile string
		noGather   string
		logLevel   string
	)
	flag.StringVar(&gtfsCfg.GtfsURL, "gtfs-url", "", "URL or path of the static GTFS zip")
	flag.StringVar(&gtfsCfg.GTFSDataPath, "data-path", ":memory:", "SQLite database path")
	flag.StringVar(&opts.AgencyID, "agency", "", "Agency to export; all agencies when empty")
	flag.StringVar(&opts.OutDir, "out", ".", "Output directory")
	flag.StringVar(&noGather, "no-gather", "", "Comma separated agencies whose routes are not gathered")
	flag.StringVar(&configFile, "config", "", "Optional YAML configuration file")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stderr, logging.ParseLevel(logLevel))

	var cfg appconf.Config
	if configFile != "" {
		file, err := appconf.LoadFile(configFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}
		file.Apply(&cfg)
		if gtfsCfg.GtfsURL == "" {
			gtfsCfg.GtfsURL = file.GTFS.Source
		}
	}
	for _, id := range strings.Split(noGather, ",") {
		if id = strings.TrimSpace(id); id != "" {
			if cfg.Agencies == nil {
				cfg.Agencies = make(map[string]appconf.AgencyOptions)
			}
			cfg.Agencies[id] = appconf.AgencyOptions{Gather: false}
		}
	}
	if gtfsCfg.GtfsURL == "" {
		fmt.Fprintln(os.Stderr, "Error: -gtfs-url is required")
		flag.Usage()
		os.Exit(2)
	}
	gtfsCfg.Env = cfg.Env

	if err := report.SetupSentry(os.Getenv("SENTRY_DSN"), cfg.Env.String()); err != nil {
		logging.LogError(logger, "failed to initialize sentry", err)
	}
	defer report.FlushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager, err := gtfs.InitGTFSManager(ctx, gtfsCfg, logger)
	if err != nil {
		logging.LogError(logger, "failed to load GTFS data", err)
		os.Exit(1)
	}
	defer manager.Shutdown()

	opts.ShouldGather = cfg.ShouldGather
	written, err := export(ctx, manager, opts, logger)
	if err != nil {
		logging.LogError(logger, "export failed", err)
		manager.Shutdown()
		report.FlushSentry()
		os.Exit(1)
	}
	for _, path := range written {
		fmt.Println(path)
	}
}
