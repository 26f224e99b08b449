package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"transitgeo.cartes.app/internal/appconf"
	"transitgeo.cartes.app/internal/gtfs"
)

// parseConfig reads flags, then the optional YAML file, then the SECRET_KEY
// and PORT environment variables. Later sources override earlier ones.
func parseConfig(args []string, getenv func(string) string) (appconf.Config, gtfs.Config, string, error) {
	var (
		cfg         appconf.Config
		gtfsCfg     gtfs.Config
		env         string
		apiKeysFlag string
		configFile  string
		logLevel    string
	)

	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", 4000, "API server port")
	fs.StringVar(&env, "env", "development", "Environment (development|test|production)")
	fs.StringVar(&apiKeysFlag, "api-keys", "", "Comma separated API keys; empty serves the API publicly")
	fs.IntVar(&cfg.RateLimit, "rate-limit", 100, "Requests per second and API key; 0 disables limiting")
	fs.IntVar(&cfg.CacheSize, "cache-size", 128, "Number of agency results kept in memory")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", 30*24*time.Hour, "How long an agency result stays cached")
	fs.StringVar(&gtfsCfg.GtfsURL, "gtfs-url", "", "URL or path of the static GTFS zip")
	fs.StringVar(&gtfsCfg.GTFSDataPath, "data-path", "./gtfs.db", "SQLite database path")
	fs.DurationVar(&gtfsCfg.RefreshInterval, "refresh-interval", 24*time.Hour, "Refresh interval for remote GTFS sources")
	fs.BoolVar(&gtfsCfg.Verbose, "verbose", false, "Log import details")
	fs.StringVar(&configFile, "config", "", "Optional YAML configuration file")
	fs.StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	if err := fs.Parse(args); err != nil {
		return cfg, gtfsCfg, "", err
	}

	cfg.Env = appconf.EnvFlagToEnvironment(env)
	cfg.ApiKeys = splitAPIKeys(apiKeysFlag)

	if configFile != "" {
		file, err := appconf.LoadFile(configFile)
		if err != nil {
			return cfg, gtfsCfg, "", err
		}
		file.Apply(&cfg)
		if file.GTFS.Source != "" {
			gtfsCfg.GtfsURL = file.GTFS.Source
		}
		if file.GTFS.DBPath != "" {
			gtfsCfg.GTFSDataPath = file.GTFS.DBPath
		}
	}

	if secret := getenv("SECRET_KEY"); secret != "" {
		cfg.UpdateSecret = secret
	}
	if port := getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return cfg, gtfsCfg, "", fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Port = p
	}

	if gtfsCfg.GtfsURL == "" {
		return cfg, gtfsCfg, "", fmt.Errorf("no GTFS source: set -gtfs-url or gtfs.source")
	}
	gtfsCfg.Env = cfg.Env
	return cfg, gtfsCfg, logLevel, nil
}

func splitAPIKeys(raw string) []string {
	var keys []string
	for _, key := range strings.Split(raw, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
