package gtfsdb

import (
	"context"
	"database/sql"

	"github.com/jamespfennell/gtfs"
)

// Agency represents a transit agency in the GTFS feed
type Agency struct {
	ID       string // agency_id
	Name     string // agency_name
	URL      string // agency_url
	Timezone string // agency_timezone
	Lang     string // agency_lang
	Phone    string // agency_phone
	FareURL  string // agency_fare_url
	Email    string // agency_email
}

const agencyColumns = `agency_id, agency_name, agency_url, agency_timezone,
	COALESCE(agency_lang, ''), COALESCE(agency_phone, ''),
	COALESCE(agency_fare_url, ''), COALESCE(agency_email, '')`

func scanAgency(row interface{ Scan(...any) error }) (Agency, error) {
	var a Agency
	err := row.Scan(&a.ID, &a.Name, &a.URL, &a.Timezone, &a.Lang, &a.Phone, &a.FareURL, &a.Email)
	return a, err
}

// QueryAgencies retrieves every agency ordered by id.
func (c *Client) QueryAgencies(ctx context.Context) ([]Agency, error) {
	rows, err := c.DB.QueryContext(ctx, `SELECT `+agencyColumns+` FROM agencies ORDER BY agency_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var agencies []Agency
	for rows.Next() {
		agency, err := scanAgency(rows)
		if err != nil {
			return nil, err
		}
		agencies = append(agencies, agency)
	}

	return agencies, rows.Err()
}

// AgencyByID returns sql.ErrNoRows for unknown ids.
func (c *Client) AgencyByID(ctx context.Context, agencyID string) (Agency, error) {
	return scanAgency(c.DB.QueryRowContext(ctx, `SELECT `+agencyColumns+` FROM agencies WHERE agency_id = ?`, agencyID))
}

func insertAgencies(ctx context.Context, tx *sql.Tx, agencies []gtfs.Agency) error {
	return execBatch(ctx, tx, "agencies", `
		INSERT INTO agencies (
			agency_id, agency_name, agency_url, agency_timezone,
			agency_lang, agency_phone, agency_fare_url, agency_email
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		agencies, func(a gtfs.Agency) []any {
			return []any{
				a.Id, a.Name, a.Url, a.Timezone,
				toNullString(a.Language), toNullString(a.Phone), toNullString(a.FareUrl), toNullString(a.Email),
			}
		})
}

// AgencyBounds is the bounding box of the stops served by an agency.
type AgencyBounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// AgencyStopBounds returns a zero box for agencies without stop visits.
func (c *Client) AgencyStopBounds(ctx context.Context, agencyID string) (AgencyBounds, error) {
	var b AgencyBounds
	err := c.DB.QueryRowContext(ctx, `
		SELECT COALESCE(MIN(s.stop_lat), 0), COALESCE(MAX(s.stop_lat), 0),
			COALESCE(MIN(s.stop_lon), 0), COALESCE(MAX(s.stop_lon), 0)
		FROM stops s
		WHERE s.stop_id IN (
			SELECT st.stop_id FROM stop_times st
			JOIN trips t ON t.trip_id = st.trip_id
			JOIN routes r ON r.route_id = t.route_id
			WHERE r.agency_id = ?
		)`, agencyID,
	).Scan(&b.MinLat, &b.MaxLat, &b.MinLon, &b.MaxLon)
	return b, err
}
