// Package ingest loads spec.md §6's "Agent snapshot" JSON contract — a
// per-agent (lat, lon, home_id, firm_id, last_wage) record plus a firms
// coordinate map — into the (origin, destination, dep_time, public_flag)
// triples the orchestrator plans trips from.
//
// Grounded on original_source/load_agents.py near-verbatim: the
// within-bounds filter (there simplified from a shapely polygon contains()
// check to a bounding box, since neither shapely nor a geometry library
// appears anywhere in the retrieved pack), the firm-required filter, the
// target-arrival-window random draw, and the haversine-based expected
// travel time used to back-solve a departure time.
package ingest

import (
	"encoding/json"
	"io"
	"math/rand"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/transitlab/citysim/internal/geoindex"
	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/simerr"
)

// rawAgent is one entry of the snapshot's "agents" map: (lat, lon,
// home_id, firm_id, last_wage). firm_id is nullable — an agent with no
// firm has nowhere to travel to and is dropped.
type rawAgent struct {
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
	HomeID   string   `json:"home_id"`
	FirmID   *string  `json:"firm_id"`
	LastWage *float64 `json:"last_wage"`
}

type rawFirm struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type snapshot struct {
	Agents map[string]rawAgent `json:"agents"`
	Firms  map[string]rawFirm  `json:"firms"`
}

// Bounds is the simulated area's bounding box; agents outside it are
// skipped with a warning and counted in LoadFrom's skipped total (no error
// value is returned for them).
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

func (b Bounds) contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Options configures the snapshot-to-trip-request conversion.
type Options struct {
	Bounds Bounds

	// AvgRoadSpeedKmh is the rough speed used to back-solve a departure
	// time from a target arrival time, per original_source/load_agents.py.
	AvgRoadSpeedKmh float64

	// ArrivalWindowStartS/EndS bound the target arrival time drawn for
	// each agent (seconds since the service day start); the source's
	// 7-9am commute assumption.
	ArrivalWindowStartS int
	ArrivalWindowEndS   int

	// PublicFraction is the probability an agent is assigned the public
	// (transit) mode rather than private (road); the source draws this
	// uniformly at random per agent.
	PublicFraction float64

	Seed int64
}

// DefaultOptions mirrors original_source/load_agents.py's constants.
func DefaultOptions() Options {
	return Options{
		AvgRoadSpeedKmh:     80,
		ArrivalWindowStartS: 7 * 3600,
		ArrivalWindowEndS:   9 * 3600,
		PublicFraction:      0.5,
	}
}

// TripRequest is one agent's planned trip, ready for the orchestrator to
// hand to the CSA planner or the road router.
type TripRequest struct {
	AgentID     string
	Origin      model.Point
	Destination model.Point
	DepartureS  int
	Public      bool
}

// Load reads and converts an agent snapshot file at path.
func Load(path string, opt Options, log zerolog.Logger) ([]TripRequest, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Wrapf(simerr.ErrGTFSInvalid, "opening agent snapshot %s: %v", path, err)
	}
	defer f.Close()
	return LoadFrom(f, opt, log)
}

// LoadFrom converts an agent snapshot read from r. It returns the
// accepted trip requests and a count of agents skipped (out of bounds,
// missing firm, or otherwise unusable), matching spec.md §7's
// "agent cannot be planned... dropped with a warning" policy.
func LoadFrom(r io.Reader, opt Options, log zerolog.Logger) ([]TripRequest, int, error) {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, 0, errors.Wrap(simerr.ErrGTFSInvalid, "decoding agent snapshot: "+err.Error())
	}

	rng := rand.New(rand.NewSource(opt.Seed))
	var skipped int
	requests := make([]TripRequest, 0, len(snap.Agents))

	for id, a := range snap.Agents {
		if !opt.Bounds.contains(a.Lat, a.Lon) {
			log.Warn().Str("agent_id", id).Msg("agent coordinate out of bounds, skipping")
			skipped++
			continue
		}
		if a.FirmID == nil {
			log.Warn().Str("agent_id", id).Msg("agent has no firm, skipping")
			skipped++
			continue
		}
		firm, ok := snap.Firms[*a.FirmID]
		if !ok {
			log.Warn().Str("agent_id", id).Str("firm_id", *a.FirmID).Msg("agent references unknown firm, skipping")
			skipped++
			continue
		}

		origin := model.Point{Lat: a.Lat, Lon: a.Lon}
		dest := model.Point{Lat: firm.Lat, Lon: firm.Lon}

		targetArrival := opt.ArrivalWindowStartS
		if opt.ArrivalWindowEndS > opt.ArrivalWindowStartS {
			targetArrival += rng.Intn(opt.ArrivalWindowEndS - opt.ArrivalWindowStartS)
		}

		distKm := geoindex.HaversineM(origin.Lat, origin.Lon, dest.Lat, dest.Lon) / 1000
		speed := opt.AvgRoadSpeedKmh
		if speed <= 0 {
			speed = 80
		}
		expectedTravelS := int((distKm / speed) * 3600)
		depTime := targetArrival - expectedTravelS

		requests = append(requests, TripRequest{
			AgentID:     id,
			Origin:      origin,
			Destination: dest,
			DepartureS:  depTime,
			Public:      rng.Float64() < opt.PublicFraction,
		})
	}

	return requests, skipped, nil
}
