// Package gtfsfeed ingests the GTFS-family CSV tables of spec.md §6:
// stops, trips, routes, stop_times, frequencies, calendar, calendar_dates.
//
// Grounded on tidbyt-gtfs/parse/*.go: the LazyCSVReader + BOM-stripping
// setup, the per-table CSV struct + gocsv.Unmarshal pattern, and wrapping
// row errors with pkg/errors are carried over directly, generalized from
// tidbyt's storage.FeedWriter sink into plain in-memory slices (this
// system builds a connection store straight from the parsed feed, it does
// not need a persistent GTFS store of its own).
package gtfsfeed

import (
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spkg/bom"

	"github.com/transitlab/citysim/internal/simerr"
)

func init() {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})
}

// StopRecord is one row of stops.txt.
type StopRecord struct {
	ID   string  `csv:"stop_id"`
	Code string  `csv:"stop_code"`
	Name string  `csv:"stop_name"`
	Lat  float64 `csv:"stop_lat"`
	Lon  float64 `csv:"stop_lon"`
}

// RouteRecord is one row of routes.txt.
type RouteRecord struct {
	ID   string `csv:"route_id"`
	Type int    `csv:"route_type"`
}

// TripRecord is one row of trips.txt.
type TripRecord struct {
	ID        string `csv:"trip_id"`
	RouteID   string `csv:"route_id"`
	ServiceID string `csv:"service_id"`
}

// StopTimeRecord is one row of stop_times.txt.
type StopTimeRecord struct {
	TripID        string `csv:"trip_id"`
	StopID        string `csv:"stop_id"`
	StopSequence  int    `csv:"stop_sequence"`
	ArrivalTime   string `csv:"arrival_time"`
	DepartureTime string `csv:"departure_time"`
}

// FrequencyRecord is one row of frequencies.txt.
type FrequencyRecord struct {
	TripID      string `csv:"trip_id"`
	StartTime   string `csv:"start_time"`
	EndTime     string `csv:"end_time"`
	HeadwaySecs int    `csv:"headway_secs"`
}

// CalendarRecord is one row of calendar.txt.
type CalendarRecord struct {
	ServiceID string `csv:"service_id"`
	Monday    int    `csv:"monday"`
	Tuesday   int    `csv:"tuesday"`
	Wednesday int    `csv:"wednesday"`
	Thursday  int    `csv:"thursday"`
	Friday    int    `csv:"friday"`
	Saturday  int    `csv:"saturday"`
	Sunday    int    `csv:"sunday"`
	StartDate string `csv:"start_date"`
	EndDate   string `csv:"end_date"`
}

// CalendarDateRecord is one row of calendar_dates.txt.
type CalendarDateRecord struct {
	ServiceID     string `csv:"service_id"`
	Date          string `csv:"date"`
	ExceptionType int    `csv:"exception_type"`
}

// Feed is the raw, unexpanded content of a GTFS feed: one slice per table,
// in file order.
type Feed struct {
	Stops         []StopRecord
	Routes        []RouteRecord
	Trips         []TripRecord
	StopTimes     []StopTimeRecord
	Frequencies   []FrequencyRecord
	Calendar      []CalendarRecord
	CalendarDates []CalendarDateRecord
}

// Load reads a GTFS feed from a directory containing the loose CSV files.
// (A zipped feed is out of scope for this entry point — unzip it first;
// spec.md §1 treats "GTFS ingestion" itself as the in-scope piece, not
// archive handling.)
func Load(dir string) (*Feed, error) {
	f := &Feed{}

	required := map[string]bool{
		"stops.txt": true, "routes.txt": true, "trips.txt": true, "stop_times.txt": true,
	}
	for name := range required {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return nil, errors.Wrapf(simerr.ErrGTFSInvalid, "missing required file %s", name)
		}
	}

	if err := loadTable(dir, "stops.txt", &f.Stops); err != nil {
		return nil, err
	}
	if err := loadTable(dir, "routes.txt", &f.Routes); err != nil {
		return nil, err
	}
	if err := loadTable(dir, "trips.txt", &f.Trips); err != nil {
		return nil, err
	}
	if err := loadTable(dir, "stop_times.txt", &f.StopTimes); err != nil {
		return nil, err
	}
	if err := loadTableOptional(dir, "frequencies.txt", &f.Frequencies); err != nil {
		return nil, err
	}
	if err := loadTableOptional(dir, "calendar.txt", &f.Calendar); err != nil {
		return nil, err
	}
	if err := loadTableOptional(dir, "calendar_dates.txt", &f.CalendarDates); err != nil {
		return nil, err
	}

	if len(f.Calendar) == 0 && len(f.CalendarDates) == 0 {
		return nil, errors.Wrap(simerr.ErrGTFSInvalid, "missing both calendar.txt and calendar_dates.txt")
	}

	return f, nil
}

func loadTable(dir, name string, out interface{}) error {
	path := filepath.Join(dir, name)
	fh, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(simerr.ErrGTFSInvalid, "opening %s: %v", name, err)
	}
	defer fh.Close()

	if err := gocsv.Unmarshal(fh, out); err != nil {
		return errors.Wrapf(simerr.ErrGTFSInvalid, "parsing %s: %v", name, err)
	}
	return nil
}

func loadTableOptional(dir, name string, out interface{}) error {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return loadTable(dir, name, out)
}
