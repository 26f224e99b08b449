package gtfsdb

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// calendarRange is the start_date/end_date pair of a calendar.txt row, as
// written in the archive.
type calendarRange struct {
	StartDate string
	EndDate   string
}

// readCalendarRanges returns the date range of every calendar.txt row keyed by
// service id. The parsed static data stretches those ranges over the
// calendar_dates rows of the service, so the raw values are read separately.
// An archive without calendar.txt yields an empty map.
func readCalendarRanges(b []byte) (map[string]calendarRange, error) {
	archive, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("error opening GTFS archive: %w", err)
	}

	ranges := make(map[string]calendarRange)
	for _, f := range archive.File {
		if path.Base(f.Name) != "calendar.txt" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("error opening %s: %w", f.Name, err)
		}
		err = parseCalendarRanges(rc, ranges)
		rc.Close() // nolint:errcheck
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", f.Name, err)
		}
		break
	}
	return ranges, nil
}

func parseCalendarRanges(r io.Reader, ranges map[string]calendarRange) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	idCol, startCol, endCol := -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case "service_id":
			idCol = i
		case "start_date":
			startCol = i
		case "end_date":
			endCol = i
		}
	}
	if idCol < 0 || startCol < 0 || endCol < 0 {
		return nil
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(record) <= idCol || len(record) <= startCol || len(record) <= endCol {
			continue
		}
		ranges[strings.TrimSpace(record[idCol])] = calendarRange{
			StartDate: strings.TrimSpace(record[startCol]),
			EndDate:   strings.TrimSpace(record[endCol]),
		}
	}
}
