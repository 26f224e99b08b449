package gtfsdb

import (
	"context"
	"database/sql"
)

// Trip is a row of trips.txt
type Trip struct {
	ID          string
	RouteID     string
	ServiceID   string
	Headsign    string
	ShortName   string
	DirectionID int64
	BlockID     string
}

// TripsForRoute returns the route's trips in feed order.
func (c *Client) TripsForRoute(ctx context.Context, routeID string) ([]Trip, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT trip_id, route_id, service_id, COALESCE(trip_headsign, ''), COALESCE(trip_short_name, ''),
			COALESCE(direction_id, 0), COALESCE(block_id, '')
		FROM trips
		WHERE route_id = ?
		ORDER BY rowid`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var trips []Trip
	for rows.Next() {
		var t Trip
		if err := rows.Scan(&t.ID, &t.RouteID, &t.ServiceID, &t.Headsign, &t.ShortName, &t.DirectionID, &t.BlockID); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func insertTrips(ctx context.Context, tx *sql.Tx, trips []Trip) error {
	return execBatch(ctx, tx, "trips", `
		INSERT INTO trips (
			trip_id, route_id, service_id, trip_headsign, trip_short_name, direction_id, block_id
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		trips, func(t Trip) []any {
			return []any{
				t.ID, t.RouteID, t.ServiceID, toNullString(t.Headsign), toNullString(t.ShortName),
				toNullInt64(t.DirectionID), toNullString(t.BlockID),
			}
		})
}
