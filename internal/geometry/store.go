package geometry

import (
	"context"
	"time"

	"transitgeo.cartes.app/gtfsdb"
)

// StopLookup fetches stop rows by id.
type StopLookup interface {
	StopsByID(ctx context.Context, stopID string) ([]gtfsdb.Stop, error)
}

// ScheduleStore is the read side of the schedule database used by the builder.
// *gtfsdb.Client implements it.
type ScheduleStore interface {
	StopLookup
	RoutesForAgency(ctx context.Context, agencyID string) ([]gtfsdb.Route, error)
	TripsForRoute(ctx context.Context, routeID string) ([]gtfsdb.Trip, error)
	// StopTimesForTrip must return visits ordered by stop_sequence ascending.
	StopTimesForTrip(ctx context.Context, tripID string) ([]gtfsdb.StopTime, error)
	ActiveServiceDates(ctx context.Context, serviceID string) ([]time.Time, error)
}

var _ ScheduleStore = (*gtfsdb.Client)(nil)
