// Package testfeed builds small GTFS zip archives in memory for tests.
package testfeed

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// Feed accumulates GTFS rows. Every feed gets a service called "daily"
// running all of 2024 unless the caller defines one.
type Feed struct {
	agencies      []string
	routes        []string
	stops         []string
	calendars     []string
	calendarDates []string
	trips         []string
	stopTimes     []string
}

func New() *Feed {
	return &Feed{}
}

func (f *Feed) Agency(id, name string) *Feed {
	f.agencies = append(f.agencies, fmt.Sprintf("%s,%s,https://example.com/%s,Europe/Paris", id, name, id))
	return f
}

func (f *Feed) Route(id, agencyID, shortName, longName string) *Feed {
	f.routes = append(f.routes, fmt.Sprintf("%s,%s,%s,%s,3", id, agencyID, shortName, longName))
	return f
}

func (f *Feed) Stop(id, name string, lat, lon float64) *Feed {
	f.stops = append(f.stops, fmt.Sprintf("%s,%s,%f,%f", id, name, lat, lon))
	return f
}

// Calendar adds a calendar.txt row. days is a 7 character mask from Monday
// to Sunday such as "1111100".
func (f *Feed) Calendar(serviceID, days, start, end string) *Feed {
	flags := strings.Split(days, "")
	f.calendars = append(f.calendars, fmt.Sprintf("%s,%s,%s,%s", serviceID, strings.Join(flags, ","), start, end))
	return f
}

func (f *Feed) CalendarDate(serviceID, date string, exceptionType int) *Feed {
	f.calendarDates = append(f.calendarDates, fmt.Sprintf("%s,%s,%d", serviceID, date, exceptionType))
	return f
}

// Trip adds a trip visiting stopIDs in order, one minute apart.
func (f *Feed) Trip(id, routeID, serviceID string, stopIDs ...string) *Feed {
	f.trips = append(f.trips, fmt.Sprintf("%s,%s,%s", routeID, serviceID, id))
	for i, stopID := range stopIDs {
		t := fmt.Sprintf("08:%02d:00", i%60)
		f.stopTimes = append(f.stopTimes, fmt.Sprintf("%s,%s,%s,%s,%d", id, t, t, stopID, i+1))
	}
	return f
}

func (f *Feed) hasService(serviceID string) bool {
	for _, row := range f.calendars {
		if strings.HasPrefix(row, serviceID+",") {
			return true
		}
	}
	return false
}

// Zip renders the feed as a GTFS archive.
func (f *Feed) Zip() ([]byte, error) {
	calendars := f.calendars
	if !f.hasService("daily") {
		calendars = append([]string{"daily,1,1,1,1,1,1,1,20240101,20241231"}, calendars...)
	}

	files := []struct {
		name   string
		header string
		rows   []string
	}{
		{"agency.txt", "agency_id,agency_name,agency_url,agency_timezone", f.agencies},
		{"routes.txt", "route_id,agency_id,route_short_name,route_long_name,route_type", f.routes},
		{"stops.txt", "stop_id,stop_name,stop_lat,stop_lon", f.stops},
		{"calendar.txt", "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date", calendars},
		{"calendar_dates.txt", "service_id,date,exception_type", f.calendarDates},
		{"trips.txt", "route_id,service_id,trip_id", f.trips},
		{"stop_times.txt", "trip_id,arrival_time,departure_time,stop_id,stop_sequence", f.stopTimes},
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, file := range files {
		fw, err := w.Create(file.name)
		if err != nil {
			return nil, err
		}
		content := file.header + "\n" + strings.Join(file.rows, "\n")
		if len(file.rows) > 0 {
			content += "\n"
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustZip is Zip for tests.
func (f *Feed) MustZip(t testing.TB) []byte {
	t.Helper()
	b, err := f.Zip()
	if err != nil {
		t.Fatalf("failed to build GTFS fixture: %v", err)
	}
	return b
}

// Corridor returns the fixture most tests share: agency "SNCF" with route R1
// (trips [A,B,D] and [A,B,C,D]) and route R2 (a single trip [A,D]).
func Corridor() *Feed {
	return New().
		Agency("SNCF", "SNCF Voyageurs").
		Route("R1", "SNCF", "R1", "Paris - Lyon").
		Route("R2", "SNCF", "R2", "Paris - Lyon direct").
		Stop("A", "Paris", 48.8443, 2.3743).
		Stop("B", "Dijon", 47.3232, 5.0270).
		Stop("C", "Macon", 46.3069, 4.8274).
		Stop("D", "Lyon", 45.7606, 4.8593).
		Trip("T1", "R1", "daily", "A", "B", "D").
		Trip("T2", "R1", "daily", "A", "B", "C", "D").
		Trip("T3", "R2", "daily", "A", "D")
}
