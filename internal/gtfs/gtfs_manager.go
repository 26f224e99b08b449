package gtfs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"transitgeo.cartes.app/gtfsdb"
	"transitgeo.cartes.app/internal/geometry"
	"transitgeo.cartes.app/internal/logging"
	"transitgeo.cartes.app/internal/metrics"
)

// Manager owns the schedule database of the current dataset version along
// with the stop registry bound to it.
type Manager struct {
	gtfsSource   string
	isLocalFile  bool
	config       Config
	logger       *slog.Logger
	GtfsDB       *gtfsdb.Client
	registry     *geometry.StopRegistry
	builder      *geometry.Builder
	reloadMutex  sync.Mutex
	stateMutex   sync.RWMutex
	lastUpdated  time.Time
	onReload     []func()
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitGTFSManager opens the database, imports the configured source and
// starts periodic refreshes for remote sources.
func InitGTFSManager(ctx context.Context, config Config, baseLogger *slog.Logger) (*Manager, error) {
	logger := logging.ForComponent(baseLogger, "gtfs_manager")

	gtfsDB, err := buildGtfsDB(config)
	if err != nil {
		return nil, err
	}

	registry := geometry.NewStopRegistry()
	manager := &Manager{
		gtfsSource:   config.GtfsURL,
		isLocalFile:  config.isLocalFile(),
		config:       config,
		logger:       logger,
		GtfsDB:       gtfsDB,
		registry:     registry,
		builder:      geometry.NewBuilder(gtfsDB, registry, baseLogger),
		shutdownChan: make(chan struct{}),
	}

	if err := manager.Reload(ctx); err != nil {
		_ = gtfsDB.Close()
		return nil, fmt.Errorf("error building GTFS database: %w", err)
	}

	if !manager.isLocalFile {
		manager.wg.Add(1)
		go manager.updateStaticGTFS()
	}

	return manager, nil
}

// Reload imports the source again, then forgets every cached stop and runs
// the reload hooks. The import is skipped by the database when the archive
// did not change.
func (manager *Manager) Reload(ctx context.Context) error {
	manager.reloadMutex.Lock()
	defer manager.reloadMutex.Unlock()

	start := time.Now()
	b, err := rawGtfsData(ctx, manager.gtfsSource, manager.isLocalFile, manager.logger)
	if err == nil {
		err = manager.GtfsDB.ImportFromBytes(ctx, b, manager.gtfsSource)
	}
	if err != nil {
		metrics.GtfsImports.WithLabelValues("failure").Inc()
		return err
	}

	manager.registry.Reset()
	manager.stateMutex.Lock()
	manager.lastUpdated = time.Now()
	hooks := append([]func(){}, manager.onReload...)
	manager.stateMutex.Unlock()
	for _, hook := range hooks {
		hook()
	}

	metrics.GtfsImports.WithLabelValues("success").Inc()
	metrics.GtfsLastImport.SetToCurrentTime()
	logging.LogOperation(manager.logger, "gtfs_data_loaded",
		slog.String("source", manager.gtfsSource),
		slog.Bool("local_file", manager.isLocalFile),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// OnReload registers fn to run after every successful Reload.
func (manager *Manager) OnReload(fn func()) {
	manager.stateMutex.Lock()
	defer manager.stateMutex.Unlock()
	manager.onReload = append(manager.onReload, fn)
}

func (manager *Manager) LastUpdated() time.Time {
	manager.stateMutex.RLock()
	defer manager.stateMutex.RUnlock()
	return manager.lastUpdated
}

func (manager *Manager) Builder() *geometry.Builder {
	return manager.builder
}

func (manager *Manager) Registry() *geometry.StopRegistry {
	return manager.registry
}

// Shutdown gracefully shuts down the manager and its background goroutines
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		manager.wg.Wait()
		logging.SafeCloseWithLogging(manager.GtfsDB, manager.logger, "gtfs_db_close")
	})
}

// LogStatistics logs the row count of every table.
func (manager *Manager) LogStatistics(ctx context.Context) {
	counts, err := manager.GtfsDB.TableCounts(ctx)
	if err != nil {
		logging.LogError(manager.logger, "failed to count GTFS rows", err)
		return
	}
	attrs := []slog.Attr{
		slog.String("source", manager.gtfsSource),
		slog.Time("last_updated", manager.LastUpdated()),
	}
	for table, count := range counts {
		attrs = append(attrs, slog.Int(table, count))
	}
	logging.LogOperation(manager.logger, "gtfs_statistics", attrs...)
}
