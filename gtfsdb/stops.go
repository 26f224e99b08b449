package gtfsdb

import (
	"context"
	"database/sql"
)

// Stop is a row of stops.txt. Stops without coordinates are never stored.
type Stop struct {
	ID            string
	Code          string
	Name          string
	Desc          string
	Lat           float64
	Lon           float64
	ZoneID        string
	LocationType  int64
	ParentStation string
	PlatformCode  string
}

const stopColumns = `stop_id, COALESCE(stop_code, ''), COALESCE(stop_name, ''), COALESCE(stop_desc, ''),
	stop_lat, stop_lon, COALESCE(zone_id, ''), COALESCE(location_type, 0),
	COALESCE(parent_station, ''), COALESCE(platform_code, '')`

// StopsByID returns every stop row matching stopID. Callers treat zero or
// several rows as a data integrity problem.
func (c *Client) StopsByID(ctx context.Context, stopID string) ([]Stop, error) {
	rows, err := c.DB.QueryContext(ctx, `SELECT `+stopColumns+` FROM stops WHERE stop_id = ?`, stopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var stops []Stop
	for rows.Next() {
		var s Stop
		err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Desc, &s.Lat, &s.Lon,
			&s.ZoneID, &s.LocationType, &s.ParentStation, &s.PlatformCode)
		if err != nil {
			return nil, err
		}
		stops = append(stops, s)
	}
	return stops, rows.Err()
}

func insertStops(ctx context.Context, tx *sql.Tx, stops []Stop) error {
	return execBatch(ctx, tx, "stops", `
		INSERT INTO stops (
			stop_id, stop_code, stop_name, stop_desc, stop_lat, stop_lon,
			zone_id, location_type, parent_station, platform_code
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stops, func(s Stop) []any {
			return []any{
				s.ID, toNullString(s.Code), toNullString(s.Name), toNullString(s.Desc), s.Lat, s.Lon,
				toNullString(s.ZoneID), s.LocationType, toNullString(s.ParentStation), toNullString(s.PlatformCode),
			}
		})
}
