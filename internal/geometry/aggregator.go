package geometry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"transitgeo.cartes.app/gtfsdb"
	"transitgeo.cartes.app/internal/logging"
	"transitgeo.cartes.app/internal/metrics"
)

// AggregateSegments counts, over every trip of the agency, how many service
// days use each directed stop pair. A route with inconsistent data is dropped
// as a whole.
func (b *Builder) AggregateSegments(ctx context.Context, agencyID string) (*SegmentGraph, error) {
	start := time.Now()
	routes, err := b.store.RoutesForAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("loading routes of agency %s: %w", agencyID, err)
	}

	graph := NewSegmentGraph()
	serviceDays := make(map[string]int)
	failed := 0
	for _, route := range routes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		partial, err := b.aggregateRoute(ctx, route, serviceDays)
		if err != nil {
			if errors.Is(err, ErrDataIntegrity) {
				failed++
				b.routeFailed(agencyID, route, err)
				continue
			}
			return nil, fmt.Errorf("aggregating route %s: %w", route.ID, err)
		}
		graph.Merge(partial)
	}

	metrics.SegmentsAggregated.WithLabelValues(agencyID).Set(float64(graph.Len()))
	logging.LogOperation(b.logger, "segments_aggregated",
		slog.String("agency_id", agencyID),
		slog.Int("segments", graph.Len()),
		slog.Int("routes_failed", failed),
		slog.Duration("duration", time.Since(start)))
	return graph, nil
}

func (b *Builder) aggregateRoute(ctx context.Context, route gtfsdb.Route, serviceDays map[string]int) (*SegmentGraph, error) {
	trips, err := b.store.TripsForRoute(ctx, route.ID)
	if err != nil {
		return nil, err
	}

	partial := NewSegmentGraph()
	for _, trip := range trips {
		stops, err := b.tripStops(ctx, trip)
		if err != nil {
			return nil, err
		}
		if len(stops) < 2 {
			continue
		}
		weight, err := b.serviceDayCount(ctx, trip.ServiceID, serviceDays)
		if err != nil {
			return nil, err
		}
		for i := 0; i+1 < len(stops); i++ {
			partial.Add(stops[i], stops[i+1], weight, trip.ID)
		}
	}
	return partial, nil
}

func (b *Builder) serviceDayCount(ctx context.Context, serviceID string, memo map[string]int) (int, error) {
	if n, ok := memo[serviceID]; ok {
		return n, nil
	}
	dates, err := b.store.ActiveServiceDates(ctx, serviceID)
	if err != nil {
		return 0, fmt.Errorf("service %s: %w", serviceID, err)
	}
	memo[serviceID] = len(dates)
	return len(dates), nil
}
