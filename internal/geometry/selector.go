package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
	"transitgeo.cartes.app/gtfsdb"
)

// Strategy records how a route geometry was obtained.
type Strategy string

const (
	// StrategyRichestTrip: one trip already visits every stop of the route.
	StrategyRichestTrip Strategy = "richest_trip"
	// StrategyMerged: stop order merged from all trips.
	StrategyMerged Strategy = "merged"
	// StrategyRichestTripFallback: merging failed or lost stops, the richest trip covers the route partially.
	StrategyRichestTripFallback Strategy = "richest_trip_fallback"
)

// RouteGeometry is the representative line of a route.
type RouteGeometry struct {
	Route gtfsdb.Route
	// Trip is the trip the line was taken from; nil for merged geometries.
	Trip      *gtfsdb.Trip
	Line      orb.LineString
	StopNames []string
	// BaseStopNames is StopNames before gathering.
	BaseStopNames []string
	Subtype       VehicleSubtype
	Strategy      Strategy
	Extended      bool
}

// SelectRepresentative picks or builds the line of a route from its trip
// paths. The result always has at least as many stops as the richest trip.
func SelectRepresentative(route gtfsdb.Route, paths []TripPath, registry *StopRegistry) (RouteGeometry, error) {
	if len(paths) == 0 {
		return RouteGeometry{}, ErrNoTrips
	}

	richest := 0
	for i, p := range paths {
		if p.Len() > paths[richest].Len() {
			richest = i
		}
	}
	best := paths[richest]
	if best.Len() < 2 {
		return RouteGeometry{}, ErrNoTrips
	}

	universe := make(map[string]struct{})
	sequences := make([][]string, len(paths))
	for i, p := range paths {
		sequences[i] = p.StopNames
		for _, name := range p.StopNames {
			universe[name] = struct{}{}
		}
	}

	if best.Len() == len(universe) {
		return fromTripPath(route, best, StrategyRichestTrip), nil
	}

	order, err := TopologicalOrder(sequences)
	if err != nil {
		// ErrMergeCycle is the only error TopologicalOrder returns
		return fromTripPath(route, best, StrategyRichestTripFallback), nil
	}
	if len(order) < best.Len() {
		return fromTripPath(route, best, StrategyRichestTripFallback), nil
	}

	line, err := lineFromNames(order, registry)
	if err != nil {
		return RouteGeometry{}, err
	}
	return RouteGeometry{
		Route:         route,
		Line:          line,
		StopNames:     order,
		BaseStopNames: order,
		Subtype:       best.Subtype,
		Strategy:      StrategyMerged,
	}, nil
}

func fromTripPath(route gtfsdb.Route, path TripPath, strategy Strategy) RouteGeometry {
	trip := path.Trip
	return RouteGeometry{
		Route:         route,
		Trip:          &trip,
		Line:          path.Coordinates(),
		StopNames:     path.StopNames,
		BaseStopNames: path.StopNames,
		Subtype:       path.Subtype,
		Strategy:      strategy,
	}
}

// lineFromNames looks every name up in the registry.
func lineFromNames(names []string, registry *StopRegistry) (orb.LineString, error) {
	line := make(orb.LineString, len(names))
	for i, name := range names {
		stop, ok := registry.StopByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: no stop named %q", ErrStopNotFound, name)
		}
		line[i] = stopPoint(stop)
	}
	return line, nil
}
