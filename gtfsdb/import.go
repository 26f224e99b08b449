package gtfsdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jamespfennell/gtfs"
	"transitgeo.cartes.app/internal/logging"
)

// ImportMetadata describes the archive currently loaded in the database.
type ImportMetadata struct {
	FileHash   string
	FileSource string
	ImportTime int64
}

// importTables lists the schedule tables in the order they are cleared.
var importTables = []string{"stop_times", "trips", "calendar_dates", "calendar", "stops", "routes", "agencies"}

// GetImportMetadata returns sql.ErrNoRows when nothing was imported yet.
func (c *Client) GetImportMetadata(ctx context.Context) (ImportMetadata, error) {
	var m ImportMetadata
	err := c.DB.QueryRowContext(ctx,
		`SELECT file_hash, file_source, import_time FROM import_metadata WHERE id = 1`,
	).Scan(&m.FileHash, &m.FileSource, &m.ImportTime)
	return m, err
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func (c *Client) processAndStoreGTFSDataWithSource(ctx context.Context, b []byte, source string) error {
	hash := hashBytes(b)

	existing, err := c.GetImportMetadata(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("error reading import metadata: %w", err)
	}
	if err == nil && existing.FileHash == hash {
		if c.config.verbose {
			slog.Info("gtfs data unchanged, skipping import",
				slog.String("source", source),
				slog.String("hash", hash))
		}
		return nil
	}

	startTime := time.Now()
	defer func() {
		c.importRuntime = time.Since(startTime)
		if c.config.verbose {
			slog.Info("gtfs import finished",
				slog.String("source", source),
				slog.Duration("duration", c.importRuntime))
		}
	}()

	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return fmt.Errorf("error parsing GTFS data: %w", err)
	}

	if c.config.verbose {
		attrs := []any{slog.Int("warnings", len(staticData.Warnings))}
		for k, v := range staticDataCounts(staticData) {
			attrs = append(attrs, slog.Int(k, v))
		}
		slog.Info("retrieved static data", attrs...)
	}

	ranges, err := readCalendarRanges(b)
	if err != nil {
		return err
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer logging.SafeRollbackWithLogging(tx, slog.Default(), "gtfs_import")

	for _, table := range importTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("error clearing %s: %w", table, err)
		}
	}

	if err := insertStaticData(ctx, tx, staticData, ranges); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO import_metadata (id, file_hash, file_source, import_time) VALUES (1, ?, ?, ?)`,
		hash, source, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("error storing import metadata: %w", err)
	}

	return tx.Commit()
}

// insertStaticData writes the parsed archive. ranges holds the calendar.txt
// date ranges; services missing from it get no calendar row.
func insertStaticData(ctx context.Context, tx *sql.Tx, staticData *gtfs.Static, ranges map[string]calendarRange) error {
	if err := insertAgencies(ctx, tx, staticData.Agencies); err != nil {
		return err
	}

	singleAgencyID := ""
	if len(staticData.Agencies) == 1 {
		singleAgencyID = staticData.Agencies[0].Id
	}

	routes := make([]Route, 0, len(staticData.Routes))
	for _, r := range staticData.Routes {
		agencyID := ""
		if r.Agency != nil {
			agencyID = r.Agency.Id
		}
		routes = append(routes, Route{
			ID:        r.Id,
			AgencyID:  pickFirstAvailable(agencyID, singleAgencyID),
			ShortName: r.ShortName,
			LongName:  r.LongName,
			Desc:      r.Description,
			Type:      int64(r.Type),
			URL:       r.Url,
			Color:     r.Color,
			TextColor: r.TextColor,
		})
	}
	if err := insertRoutes(ctx, tx, routes); err != nil {
		return err
	}

	// stops without coordinates cannot take part in any geometry
	stops := make([]Stop, 0, len(staticData.Stops))
	located := make(map[string]bool, len(staticData.Stops))
	for _, s := range staticData.Stops {
		if s.Latitude == nil || s.Longitude == nil {
			continue
		}
		parent := ""
		if s.Parent != nil {
			parent = s.Parent.Id
		}
		stops = append(stops, Stop{
			ID:            s.Id,
			Code:          s.Code,
			Name:          s.Name,
			Desc:          s.Description,
			Lat:           *s.Latitude,
			Lon:           *s.Longitude,
			ZoneID:        s.ZoneId,
			LocationType:  int64(s.Type),
			ParentStation: parent,
			PlatformCode:  s.PlatformCode,
		})
		located[s.Id] = true
	}
	if err := insertStops(ctx, tx, stops); err != nil {
		return err
	}

	var calendars []Calendar
	var calendarDates []CalendarDate
	for _, s := range staticData.Services {
		if r, ok := ranges[s.Id]; ok {
			calendars = append(calendars, Calendar{
				ServiceID: s.Id,
				Monday:    s.Monday,
				Tuesday:   s.Tuesday,
				Wednesday: s.Wednesday,
				Thursday:  s.Thursday,
				Friday:    s.Friday,
				Saturday:  s.Saturday,
				Sunday:    s.Sunday,
				StartDate: r.StartDate,
				EndDate:   r.EndDate,
			})
		}
		for _, d := range s.AddedDates {
			calendarDates = append(calendarDates, CalendarDate{ServiceID: s.Id, Date: d.Format(dateLayout), ExceptionType: ServiceAdded})
		}
		for _, d := range s.RemovedDates {
			calendarDates = append(calendarDates, CalendarDate{ServiceID: s.Id, Date: d.Format(dateLayout), ExceptionType: ServiceRemoved})
		}
	}
	if err := insertCalendars(ctx, tx, calendars); err != nil {
		return err
	}
	if err := insertCalendarDates(ctx, tx, calendarDates); err != nil {
		return err
	}

	trips := make([]Trip, 0, len(staticData.Trips))
	var stopTimes []StopTime
	skipped := 0
	for _, t := range staticData.Trips {
		if t.Route == nil || t.Service == nil {
			skipped++
			continue
		}
		trips = append(trips, Trip{
			ID:          t.ID,
			RouteID:     t.Route.Id,
			ServiceID:   t.Service.Id,
			Headsign:    t.Headsign,
			ShortName:   t.ShortName,
			DirectionID: int64(t.DirectionId),
			BlockID:     t.BlockID,
		})
		for _, st := range t.StopTimes {
			if st.Stop == nil || !located[st.Stop.Id] {
				skipped++
				continue
			}
			stopTimes = append(stopTimes, StopTime{
				TripID:        t.ID,
				ArrivalTime:   int64(st.ArrivalTime.Seconds()),
				DepartureTime: int64(st.DepartureTime.Seconds()),
				StopID:        st.Stop.Id,
				StopSequence:  int64(st.StopSequence),
				StopHeadsign:  st.Headsign,
				PickupType:    int64(st.PickupType),
				DropOffType:   int64(st.DropOffType),
			})
		}
	}
	if skipped > 0 {
		slog.Warn("skipped incomplete schedule rows", slog.Int("count", skipped))
	}
	if err := insertTrips(ctx, tx, trips); err != nil {
		return err
	}
	return insertStopTimes(ctx, tx, stopTimes)
}

func staticDataCounts(staticData *gtfs.Static) map[string]int {
	stopTimes := 0
	for _, t := range staticData.Trips {
		stopTimes += len(t.StopTimes)
	}
	return map[string]int{
		"agencies":   len(staticData.Agencies),
		"routes":     len(staticData.Routes),
		"stops":      len(staticData.Stops),
		"services":   len(staticData.Services),
		"trips":      len(staticData.Trips),
		"stop_times": stopTimes,
	}
}
