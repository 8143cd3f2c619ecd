// Package gtfsbuild expands a parsed GTFS feed (internal/gtfsfeed) into
// spec.md §3's immutable data model: dense-indexed Stops and Trips, one
// Connection per consecutive stop-pair per expanded vehicle, and
// precomputed Footpaths.
//
// Grounded on original_source/gtfs/_csa.py's connection-building pass,
// original_source/gtfs/freqs.py's frequency-span expansion, and
// original_source/gtfs/calendar.py's service-day resolution, generalized
// from the pandas-groupby style of the Python source to a single pass over
// gocsv-parsed row slices.
package gtfsbuild

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/transitlab/citysim/internal/config"
	"github.com/transitlab/citysim/internal/geoindex"
	"github.com/transitlab/citysim/internal/gtfsfeed"
	"github.com/transitlab/citysim/internal/ids"
	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/simerr"
)

// Build expands feed into a ConnectionStore for the single operating day
// named by date (YYYYMMDD), per spec.md §9's single-day routing decision.
func Build(feed *gtfsfeed.Feed, cfg config.Config, date string) (*model.ConnectionStore, error) {
	active, err := activeServices(feed, date)
	if err != nil {
		return nil, err
	}

	stopIdx := ids.NewIndex()
	stops := make([]model.Stop, 0, len(feed.Stops))
	for _, s := range feed.Stops {
		i := stopIdx.Intern(s.ID)
		if i != len(stops) {
			continue // duplicate stop_id row, first one wins
		}
		stops = append(stops, model.Stop{ID: model.StopID(i), Code: s.Code, Name: s.Name, Lat: s.Lat, Lon: s.Lon})
	}

	routeType := make(map[string]model.RouteType, len(feed.Routes))
	for _, r := range feed.Routes {
		routeType[r.ID] = model.RouteType(r.Type)
	}

	tripRoute := make(map[string]string, len(feed.Trips))
	tripService := make(map[string]string, len(feed.Trips))
	for _, t := range feed.Trips {
		tripRoute[t.ID] = t.RouteID
		tripService[t.ID] = t.ServiceID
	}

	stopTimesByTrip := make(map[string][]gtfsfeed.StopTimeRecord)
	for _, st := range feed.StopTimes {
		stopTimesByTrip[st.TripID] = append(stopTimesByTrip[st.TripID], st)
	}
	for trip, rows := range stopTimesByTrip {
		sort.Slice(rows, func(i, j int) bool { return rows[i].StopSequence < rows[j].StopSequence })
		stopTimesByTrip[trip] = rows
	}

	freqsByTrip := make(map[string][]gtfsfeed.FrequencyRecord)
	for _, fr := range feed.Frequencies {
		freqsByTrip[fr.TripID] = append(freqsByTrip[fr.TripID], fr)
	}

	// Deterministic iteration order over trip ids matters for the
	// connection-store tie-break decision recorded in SPEC_FULL.md (stable
	// sort by ingestion order at equal departure_time).
	tripIDs := make([]string, 0, len(feed.Trips))
	for _, t := range feed.Trips {
		tripIDs = append(tripIDs, t.ID)
	}

	var trips []model.Trip
	var connections []model.Connection

	for _, rawTripID := range tripIDs {
		svc, ok := tripService[rawTripID]
		if !ok || !active[svc] {
			continue
		}
		rows := stopTimesByTrip[rawTripID]
		if len(rows) < 2 {
			continue
		}
		rtype := routeType[tripRoute[rawTripID]]

		type rawStop struct {
			stop     model.StopID
			arr, dep int
		}
		raw := make([]rawStop, 0, len(rows))
		for _, r := range rows {
			stopIdxI, ok := stopIdx.Lookup(r.StopID)
			if !ok {
				return nil, errors.Wrapf(simerr.ErrGTFSInvalid, "stop_times references unknown stop %q", r.StopID)
			}
			arr, err := gtfsfeed.ParseTimeOfDay(r.ArrivalTime)
			if err != nil {
				return nil, err
			}
			dep, err := gtfsfeed.ParseTimeOfDay(r.DepartureTime)
			if err != nil {
				return nil, err
			}
			raw = append(raw, rawStop{stop: model.StopID(stopIdxI), arr: arr, dep: dep})
		}

		freqRows := freqsByTrip[rawTripID]
		var starts []int
		var baseline int
		if len(freqRows) > 0 {
			spans, err := compressFreqSpans(freqRows)
			if err != nil {
				return nil, err
			}
			baseline = raw[0].dep
			for _, sp := range spans {
				starts = append(starts, vehicleStarts(sp)...)
			}
		} else {
			starts = []int{0}
			baseline = 0
		}

		for _, start := range starts {
			tripID := model.TripID(len(trips))
			tripStops := make([]model.TripStop, len(raw))
			for i, rs := range raw {
				tripStops[i] = model.TripStop{
					Stop:               rs.stop,
					ScheduledArrival:   start + (rs.arr - baseline),
					ScheduledDeparture: start + (rs.dep - baseline),
					Sequence:           i,
				}
			}
			trips = append(trips, model.Trip{ID: tripID, RouteType: rtype, Stops: tripStops})

			for i := 0; i < len(tripStops)-1; i++ {
				connections = append(connections, model.Connection{
					DepartureTime: tripStops[i].ScheduledDeparture,
					DepartureStop: tripStops[i].Stop,
					ArrivalTime:   tripStops[i+1].ScheduledArrival,
					ArrivalStop:   tripStops[i+1].Stop,
					Trip:          tripID,
				})
			}
		}
	}

	// Stable at equal departure_time: ingestion order (trip id, then
	// sequence) is preserved by sort.SliceStable, per SPEC_FULL.md's Open
	// Question decision.
	sort.SliceStable(connections, func(i, j int) bool {
		return connections[i].DepartureTime < connections[j].DepartureTime
	})

	footpaths := buildFootpaths(stops, cfg)

	return &model.ConnectionStore{
		Connections: connections,
		Footpaths:   footpaths,
		Stops:       stops,
		Trips:       trips,
	}, nil
}

// buildFootpaths precomputes each stop's k nearest neighbours (k =
// cfg.ClosestIndirectTransfers), keeping only those within
// cfg.FootpathDeltaMax seconds of walking, per spec.md §3's Footpath
// definition.
func buildFootpaths(stops []model.Stop, cfg config.Config) [][]model.Footpath {
	items := make([]geoindex.Item[model.StopID], len(stops))
	for i, s := range stops {
		items[i] = geoindex.Item[model.StopID]{Lat: s.Lat, Lon: s.Lon, Value: s.ID}
	}
	idx := geoindex.New(items)

	footpaths := make([][]model.Footpath, len(stops))
	for _, s := range stops {
		// +1 to account for the stop always finding itself.
		near := idx.Nearest(s.Lat, s.Lon, cfg.ClosestIndirectTransfers+1)
		var out []model.Footpath
		for _, n := range near {
			if n.Value == s.ID {
				continue
			}
			distM := geoindex.HaversineM(s.Lat, s.Lon, stops[n.Value].Lat, stops[n.Value].Lon)
			walk := cfg.FootpathDeltaBase
			if cfg.FootpathSpeedKmh > 0 {
				walk += int((distM / 1000 / cfg.FootpathSpeedKmh) * 3600)
			}
			if walk > cfg.FootpathDeltaMax {
				continue
			}
			out = append(out, model.Footpath{DepartureStop: s.ID, ArrivalStop: n.Value, WalkTimeS: walk})
			if len(out) >= cfg.ClosestIndirectTransfers {
				break
			}
		}
		footpaths[s.ID] = out
	}
	return footpaths
}
