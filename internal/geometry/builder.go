package geometry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"transitgeo.cartes.app/gtfsdb"
	"transitgeo.cartes.app/internal/logging"
	"transitgeo.cartes.app/internal/metrics"
	"transitgeo.cartes.app/internal/report"
)

// Builder produces route geometries and segment graphs for one agency at a
// time. A Builder holds no per-build state and may be shared.
type Builder struct {
	store    ScheduleStore
	registry *StopRegistry
	logger   *slog.Logger
}

func NewBuilder(store ScheduleStore, registry *StopRegistry, logger *slog.Logger) *Builder {
	return &Builder{
		store:    store,
		registry: registry,
		logger:   logging.ForComponent(logger, "geometry"),
	}
}

// BuildRouteGeometries returns one representative geometry per route of the
// agency. Routes with inconsistent data are logged, reported and skipped.
func (b *Builder) BuildRouteGeometries(ctx context.Context, agencyID string) ([]RouteGeometry, error) {
	start := time.Now()
	routes, err := b.store.RoutesForAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("loading routes of agency %s: %w", agencyID, err)
	}

	geometries := make([]RouteGeometry, 0, len(routes))
	failed := 0
	for _, route := range routes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		geometry, err := b.buildRoute(ctx, route)
		switch {
		case err == nil:
			geometries = append(geometries, geometry)
			metrics.RoutesBuilt.WithLabelValues(agencyID, string(geometry.Strategy)).Inc()
		case errors.Is(err, ErrNoTrips):
			b.logger.Warn("route skipped", slog.String("route_id", route.ID), slog.String("reason", err.Error()))
		case errors.Is(err, ErrDataIntegrity):
			failed++
			b.routeFailed(agencyID, route, err)
		default:
			return nil, fmt.Errorf("building route %s: %w", route.ID, err)
		}
	}

	logging.LogOperation(b.logger, "route_geometries_built",
		slog.String("agency_id", agencyID),
		slog.Int("routes_built", len(geometries)),
		slog.Int("routes_failed", failed),
		slog.Duration("duration", time.Since(start)))
	return geometries, nil
}

// BuildAgencyGeometries is BuildRouteGeometries followed by Gather when
// gather is set.
func (b *Builder) BuildAgencyGeometries(ctx context.Context, agencyID string, gather bool) ([]RouteGeometry, error) {
	geometries, err := b.BuildRouteGeometries(ctx, agencyID)
	if err != nil {
		return nil, err
	}
	if gather {
		geometries = Gather(geometries, b.registry)
	}
	return geometries, nil
}

// BuildRoute builds the geometry of a single route.
func (b *Builder) BuildRoute(ctx context.Context, route gtfsdb.Route) (RouteGeometry, error) {
	return b.buildRoute(ctx, route)
}

func (b *Builder) buildRoute(ctx context.Context, route gtfsdb.Route) (RouteGeometry, error) {
	trips, err := b.store.TripsForRoute(ctx, route.ID)
	if err != nil {
		return RouteGeometry{}, err
	}

	paths := make([]TripPath, 0, len(trips))
	for _, trip := range trips {
		stops, err := b.tripStops(ctx, trip)
		if err != nil {
			return RouteGeometry{}, err
		}
		path, err := BuildTripPath(trip, stops)
		if err != nil {
			return RouteGeometry{}, fmt.Errorf("trip %s: %w", trip.ID, err)
		}
		paths = append(paths, path)
	}

	return SelectRepresentative(route, paths, b.registry)
}

// tripStops resolves the visits of a trip in stop_sequence order.
func (b *Builder) tripStops(ctx context.Context, trip gtfsdb.Trip) ([]gtfsdb.Stop, error) {
	stopTimes, err := b.store.StopTimesForTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	stops := make([]gtfsdb.Stop, len(stopTimes))
	for i, st := range stopTimes {
		stop, err := b.registry.Resolve(ctx, b.store, st.StopID)
		if err != nil {
			return nil, fmt.Errorf("trip %s: %w", trip.ID, err)
		}
		stops[i] = stop
	}
	return stops, nil
}

func (b *Builder) routeFailed(agencyID string, route gtfsdb.Route, err error) {
	kind := failureKind(err)
	logging.LogError(b.logger, "route dropped", err,
		slog.String("agency_id", agencyID),
		slog.String("route_id", route.ID),
		slog.String("kind", kind))
	metrics.RouteFailures.WithLabelValues(agencyID, kind).Inc()
	report.ReportError(err, report.SentryReportOptions{
		Tags: map[string]string{
			"agency_id": agencyID,
			"route_id":  route.ID,
			"kind":      kind,
		},
		Level: sentry.LevelWarning,
	})
}
