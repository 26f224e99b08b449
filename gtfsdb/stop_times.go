package gtfsdb

import (
	"context"
	"database/sql"
)

// StopTime is one visit of a trip to a stop. Times are seconds after midnight.
type StopTime struct {
	TripID        string
	ArrivalTime   int64
	DepartureTime int64
	StopID        string
	StopSequence  int64
	StopHeadsign  string
	PickupType    int64
	DropOffType   int64
}

// StopTimesForTrip returns the trip's visits ordered by stop_sequence.
func (c *Client) StopTimesForTrip(ctx context.Context, tripID string) ([]StopTime, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT trip_id, arrival_time, departure_time, stop_id, stop_sequence,
			COALESCE(stop_headsign, ''), COALESCE(pickup_type, 0), COALESCE(drop_off_type, 0)
		FROM stop_times
		WHERE trip_id = ?
		ORDER BY stop_sequence ASC`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var stopTimes []StopTime
	for rows.Next() {
		var st StopTime
		err := rows.Scan(&st.TripID, &st.ArrivalTime, &st.DepartureTime, &st.StopID,
			&st.StopSequence, &st.StopHeadsign, &st.PickupType, &st.DropOffType)
		if err != nil {
			return nil, err
		}
		stopTimes = append(stopTimes, st)
	}
	return stopTimes, rows.Err()
}

func insertStopTimes(ctx context.Context, tx *sql.Tx, stopTimes []StopTime) error {
	return execBatch(ctx, tx, "stop_times", `
		INSERT INTO stop_times (
			trip_id, arrival_time, departure_time, stop_id, stop_sequence,
			stop_headsign, pickup_type, drop_off_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stopTimes, func(st StopTime) []any {
			return []any{
				st.TripID, st.ArrivalTime, st.DepartureTime, st.StopID, st.StopSequence,
				toNullString(st.StopHeadsign), st.PickupType, st.DropOffType,
			}
		})
}
