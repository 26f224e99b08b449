package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"transitgeo.cartes.app/internal/geometry"
	"transitgeo.cartes.app/internal/gtfs"
	"transitgeo.cartes.app/internal/logging"
	"transitgeo.cartes.app/internal/metrics"
)

type exportOptions struct {
	AgencyID     string
	OutDir       string
	ShouldGather func(agencyID string) bool
}

// export writes <agency>.routes.geojson and <agency>.segments.geojson for
// the selected agencies and returns the written paths.
func export(ctx context.Context, manager *gtfs.Manager, opts exportOptions, logger *slog.Logger) ([]string, error) {
	agencyIDs := []string{opts.AgencyID}
	if opts.AgencyID == "" {
		agencies, err := manager.GtfsDB.QueryAgencies(ctx)
		if err != nil {
			return nil, err
		}
		agencyIDs = agencyIDs[:0]
		for _, a := range agencies {
			agencyIDs = append(agencyIDs, a.ID)
		}
	} else if _, err := manager.GtfsDB.AgencyByID(ctx, opts.AgencyID); err != nil {
		return nil, fmt.Errorf("agency %s: %w", opts.AgencyID, err)
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, err
	}

	builder := manager.Builder()
	var written []string
	for _, agencyID := range agencyIDs {
		gather := opts.ShouldGather == nil || opts.ShouldGather(agencyID)

		start := time.Now()
		geometries, err := builder.BuildAgencyGeometries(ctx, agencyID, gather)
		if err != nil {
			return written, fmt.Errorf("agency %s routes: %w", agencyID, err)
		}
		metrics.BuildDuration.WithLabelValues("routes").Observe(time.Since(start).Seconds())
		path := filepath.Join(opts.OutDir, agencyID+".routes.geojson")
		if err := writeJSON(path, geometry.RouteFeatureCollection(geometries), logger); err != nil {
			return written, err
		}
		written = append(written, path)

		start = time.Now()
		graph, err := builder.AggregateSegments(ctx, agencyID)
		if err != nil {
			return written, fmt.Errorf("agency %s segments: %w", agencyID, err)
		}
		metrics.BuildDuration.WithLabelValues("segments").Observe(time.Since(start).Seconds())
		path = filepath.Join(opts.OutDir, agencyID+".segments.geojson")
		if err := writeJSON(path, graph.FeatureCollection(), logger); err != nil {
			return written, err
		}
		written = append(written, path)

		logging.LogOperation(logger, "agency_exported",
			slog.String("agency_id", agencyID),
			slog.Int("routes", len(geometries)),
			slog.Int("segments", graph.Len()),
			slog.Bool("gather", gather))
	}
	return written, nil
}

func writeJSON(path string, v any, logger *slog.Logger) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer logging.HandleDeferredError(&err, f.Close, logger, "close "+path)

	return json.NewEncoder(f).Encode(v)
}
