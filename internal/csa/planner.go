package csa

import (
	"github.com/transitlab/citysim/internal/config"
	"github.com/transitlab/citysim/internal/geoindex"
	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/simerr"
)

// Planner is the multimodal wrapper of spec.md §4.8: it finds the k
// nearest stops to an origin and destination coordinate, tries every
// (start, end) pair through the CSA router, considers a direct-walk
// candidate when those stop sets overlap, and returns the least-total-time
// plan as a passenger-ready sequence of Walk/Transfer/Ride legs.
type Planner struct {
	router  *Router
	cfg     config.Config
	stopIdx *geoindex.Index[model.StopID]
}

// NewPlanner builds a Planner over the given connection store.
func NewPlanner(store *model.ConnectionStore, cfg config.Config) *Planner {
	items := make([]geoindex.Item[model.StopID], len(store.Stops))
	for i, s := range store.Stops {
		items[i] = geoindex.Item[model.StopID]{Lat: s.Lat, Lon: s.Lon, Value: s.ID}
	}
	return &Planner{
		router:  New(store, cfg),
		cfg:     cfg,
		stopIdx: geoindex.New(items),
	}
}

// Plan is the result of a successful multimodal planning call.
type Plan struct {
	Legs          []model.PassengerLeg
	DepartureTime int
	ArrivalTime   int
}

// walkTimeS converts a great-circle distance in meters into a walk time in
// seconds, per spec.md's footpath formula: a fixed base overhead plus
// distance over walking speed.
func walkTimeS(distM float64, cfg config.Config) int {
	if cfg.FootpathSpeedKmh <= 0 {
		return cfg.FootpathDeltaBase
	}
	hours := (distM / 1000) / cfg.FootpathSpeedKmh
	return cfg.FootpathDeltaBase + int(hours*3600)
}

// candidate is an in-progress (start, end) pair evaluation.
type candidate struct {
	totalTime int
	legs      []model.PassengerLeg
	arrival   int
}

// Plan finds the least-total-time multimodal plan from origin to
// destination, departing no earlier than depTime.
func (p *Planner) Plan(origin, destination model.Point, depTime int) (Plan, error) {
	originStops := p.stopIdx.Nearest(origin.Lat, origin.Lon, p.cfg.NearestStopCandidates)
	destStops := p.stopIdx.Nearest(destination.Lat, destination.Lon, p.cfg.NearestStopCandidates)

	var best *candidate

	consider := func(c candidate) {
		if best == nil || c.totalTime < best.totalTime {
			cc := c
			best = &cc
		}
	}

	if stopSetsIntersect(originStops, destStops) {
		distM := geoindex.HaversineM(origin.Lat, origin.Lon, destination.Lat, destination.Lon)
		walk := walkTimeS(distM, p.cfg)
		consider(candidate{
			totalTime: walk,
			legs:      []model.PassengerLeg{model.Walk(walk)},
			arrival:   depTime + walk,
		})
	}

	anyAttempt := false
	for _, o := range originStops {
		walkO := walkTimeS(geoindex.HaversineM(origin.Lat, origin.Lon, o.Lat, o.Lon), p.cfg)
		stopDep := depTime + walkO
		for _, d := range destStops {
			if o.Value == d.Value {
				continue
			}
			anyAttempt = true
			res, err := p.router.Route(o.Value, d.Value, stopDep)
			if err != nil {
				continue
			}
			walkD := walkTimeS(geoindex.HaversineM(d.Lat, d.Lon, destination.Lat, destination.Lon), p.cfg)
			total := walkO + (res.ArrivalTime - depTime) + walkD

			legs := make([]model.PassengerLeg, 0, len(res.Journey)+2)
			if walkO > 0 {
				legs = append(legs, model.Walk(walkO))
			}
			legs = append(legs, mergeRides(res.Journey)...)
			if walkD > 0 {
				legs = append(legs, model.Walk(walkD))
			}
			consider(candidate{totalTime: total, legs: legs, arrival: depTime + total})
		}
	}

	if best == nil {
		if !anyAttempt && len(originStops) == 0 && len(destStops) == 0 {
			return Plan{}, simerr.ErrStopNotFound
		}
		return Plan{}, simerr.ErrNoTransitRoute
	}

	return Plan{Legs: best.legs, DepartureTime: depTime, ArrivalTime: best.arrival}, nil
}

func stopSetsIntersect(a, b []geoindex.Item[model.StopID]) bool {
	seen := make(map[model.StopID]bool, len(a))
	for _, x := range a {
		seen[x.Value] = true
	}
	for _, y := range b {
		if seen[y.Value] {
			return true
		}
	}
	return false
}

// mergeRides consolidates a raw CSA journey (one Connection per stop-pair
// hop) into passenger-level legs: consecutive connections sharing a trip
// collapse into a single Ride from the first board stop to the final
// alight stop (the passenger boards once and stays on), and FootConnection
// legs become explicit Transfer legs.
func mergeRides(journey []model.Leg) []model.PassengerLeg {
	var out []model.PassengerLeg
	var open *model.PassengerLeg

	flush := func() {
		if open != nil {
			out = append(out, *open)
			open = nil
		}
	}

	for _, leg := range journey {
		if leg.Foot != nil {
			flush()
			out = append(out, model.Transfer(leg.Foot.DepartureStop, leg.Foot.ArrivalStop, leg.Foot.ArrivalTime-leg.Foot.DepartureTime))
			continue
		}
		c := leg.Ride
		if open != nil && open.Trip == c.Trip {
			open.AlightStop = c.ArrivalStop
			open.ScheduledAlightS = c.ArrivalTime
			continue
		}
		flush()
		r := model.Ride(c.Trip, c.DepartureStop, c.ArrivalStop, c.DepartureTime, c.ArrivalTime)
		open = &r
	}
	flush()
	return out
}
