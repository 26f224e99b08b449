package gtfsdb

import (
	"context"
	"database/sql"
)

// Route is a row of routes.txt
type Route struct {
	ID        string
	AgencyID  string
	ShortName string
	LongName  string
	Desc      string
	Type      int64
	URL       string
	Color     string
	TextColor string
}

const routeColumns = `route_id, agency_id, COALESCE(route_short_name, ''), COALESCE(route_long_name, ''),
	COALESCE(route_desc, ''), route_type, COALESCE(route_url, ''),
	COALESCE(route_color, ''), COALESCE(route_text_color, '')`

func scanRoute(row interface{ Scan(...any) error }) (Route, error) {
	var r Route
	err := row.Scan(&r.ID, &r.AgencyID, &r.ShortName, &r.LongName, &r.Desc, &r.Type, &r.URL, &r.Color, &r.TextColor)
	return r, err
}

// RoutesForAgency returns the agency's routes in feed order.
func (c *Client) RoutesForAgency(ctx context.Context, agencyID string) ([]Route, error) {
	rows, err := c.DB.QueryContext(ctx, `SELECT `+routeColumns+` FROM routes WHERE agency_id = ? ORDER BY rowid`, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var routes []Route
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

// RouteByID returns sql.ErrNoRows for unknown ids.
func (c *Client) RouteByID(ctx context.Context, routeID string) (Route, error) {
	return scanRoute(c.DB.QueryRowContext(ctx, `SELECT `+routeColumns+` FROM routes WHERE route_id = ?`, routeID))
}

func insertRoutes(ctx context.Context, tx *sql.Tx, routes []Route) error {
	return execBatch(ctx, tx, "routes", `
		INSERT INTO routes (
			route_id, agency_id, route_short_name, route_long_name, route_desc,
			route_type, route_url, route_color, route_text_color
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		routes, func(r Route) []any {
			return []any{
				r.ID, r.AgencyID, toNullString(r.ShortName), toNullString(r.LongName), toNullString(r.Desc),
				r.Type, toNullString(r.URL), toNullString(r.Color), toNullString(r.TextColor),
			}
		})
}
