package gtfsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"
)

const dateLayout = "20060102"

// calendar_dates exception types
const (
	ServiceAdded   = 1
	ServiceRemoved = 2
)

// Calendar is a row of calendar.txt. Dates use the GTFS YYYYMMDD layout.
type Calendar struct {
	ServiceID string
	Monday    bool
	Tuesday   bool
	Wednesday bool
	Thursday  bool
	Friday    bool
	Saturday  bool
	Sunday    bool
	StartDate string
	EndDate   string
}

// RunsOn reports whether the weekday pattern includes d. The date range is not checked.
func (c Calendar) RunsOn(d time.Weekday) bool {
	switch d {
	case time.Monday:
		return c.Monday
	case time.Tuesday:
		return c.Tuesday
	case time.Wednesday:
		return c.Wednesday
	case time.Thursday:
		return c.Thursday
	case time.Friday:
		return c.Friday
	case time.Saturday:
		return c.Saturday
	case time.Sunday:
		return c.Sunday
	}
	return false
}

type CalendarDate struct {
	ServiceID     string
	Date          string
	ExceptionType int
}

// CalendarForService returns sql.ErrNoRows for services defined only through calendar_dates.
func (c *Client) CalendarForService(ctx context.Context, serviceID string) (Calendar, error) {
	var cal Calendar
	var mon, tue, wed, thu, fri, sat, sun int64
	err := c.DB.QueryRowContext(ctx, `
		SELECT service_id, monday, tuesday, wednesday, thursday, friday, saturday, sunday, start_date, end_date
		FROM calendar WHERE service_id = ?`, serviceID,
	).Scan(&cal.ServiceID, &mon, &tue, &wed, &thu, &fri, &sat, &sun, &cal.StartDate, &cal.EndDate)
	if err != nil {
		return Calendar{}, err
	}
	cal.Monday, cal.Tuesday, cal.Wednesday = mon == 1, tue == 1, wed == 1
	cal.Thursday, cal.Friday, cal.Saturday, cal.Sunday = thu == 1, fri == 1, sat == 1, sun == 1
	return cal, nil
}

func (c *Client) CalendarDatesForService(ctx context.Context, serviceID string) ([]CalendarDate, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT service_id, date, exception_type FROM calendar_dates
		WHERE service_id = ? ORDER BY date`, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var dates []CalendarDate
	for rows.Next() {
		var d CalendarDate
		if err := rows.Scan(&d.ServiceID, &d.Date, &d.ExceptionType); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// ActiveServiceDates expands a service into the sorted list of dates it runs
// on: weekday pattern between start and end date, plus added dates, minus
// removed dates. Returned times are midnight UTC.
func (c *Client) ActiveServiceDates(ctx context.Context, serviceID string) ([]time.Time, error) {
	active := make(map[string]bool)

	cal, err := c.CalendarForService(ctx, serviceID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("error reading calendar for service %s: %w", serviceID, err)
	default:
		if err := expandCalendar(cal, active); err != nil {
			return nil, err
		}
	}

	exceptions, err := c.CalendarDatesForService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("error reading calendar dates for service %s: %w", serviceID, err)
	}
	for _, e := range exceptions {
		switch e.ExceptionType {
		case ServiceAdded:
			active[e.Date] = true
		case ServiceRemoved:
			delete(active, e.Date)
		}
	}

	dates := make([]time.Time, 0, len(active))
	for d := range active {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("invalid service date %q: %w", d, err)
		}
		dates = append(dates, t)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func expandCalendar(cal Calendar, active map[string]bool) error {
	start, err := time.Parse(dateLayout, cal.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date for service %s: %w", cal.ServiceID, err)
	}
	end, err := time.Parse(dateLayout, cal.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end date for service %s: %w", cal.ServiceID, err)
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if cal.RunsOn(d.Weekday()) {
			active[d.Format(dateLayout)] = true
		}
	}
	return nil
}

func insertCalendars(ctx context.Context, tx *sql.Tx, calendars []Calendar) error {
	return execBatch(ctx, tx, "calendar", `
		INSERT INTO calendar (
			service_id, monday, tuesday, wednesday, thursday, friday, saturday, sunday, start_date, end_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		calendars, func(c Calendar) []any {
			return []any{
				c.ServiceID, boolToInt(c.Monday), boolToInt(c.Tuesday), boolToInt(c.Wednesday),
				boolToInt(c.Thursday), boolToInt(c.Friday), boolToInt(c.Saturday), boolToInt(c.Sunday),
				c.StartDate, c.EndDate,
			}
		})
}

func insertCalendarDates(ctx context.Context, tx *sql.Tx, dates []CalendarDate) error {
	return execBatch(ctx, tx, "calendar_dates", `
		INSERT OR REPLACE INTO calendar_dates (service_id, date, exception_type) VALUES (?, ?, ?)`,
		dates, func(d CalendarDate) []any {
			return []any{d.ServiceID, d.Date, d.ExceptionType}
		})
}
