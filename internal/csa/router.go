// Package csa implements the Connection Scan Algorithm router of spec.md
// §4.1: a single stateless scan over a departure-time-sorted connection
// list that answers one earliest-arrival query, with footpath transfers
// expanded inline.
//
// Grounded on original_source/gtfs/_csa.py: the incoming-connection map,
// the reachable/improves tests and the tagged Connection/FootConnection
// variant are carried over near-verbatim, generalized to spec.md's exact
// wording (the "same trip" continuation, the BASE_TRANSFER_TIME-gated
// transfer, and the footpath-gated transfer).
package csa

import (
	"github.com/transitlab/citysim/internal/config"
	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/simerr"
)

// Router answers earliest-arrival queries over an immutable connection
// store. It holds no per-query mutable state, so a single Router can be
// shared across concurrent calls.
type Router struct {
	store *model.ConnectionStore
	cfg   config.Config
}

// New builds a Router over the given connection store.
func New(store *model.ConnectionStore, cfg config.Config) *Router {
	return &Router{store: store, cfg: cfg}
}

// Result is the outcome of a successful Route call.
type Result struct {
	ArrivalTime int
	Journey     []model.Leg
}

// incoming tags which kind of connection produced a stop's earliest
// arrival, so the reachability test (connects) can dispatch on it.
type incoming struct {
	ride *model.Connection
	foot *model.FootConnection
}

func (in incoming) isSet() bool { return in.ride != nil || in.foot != nil }

// Route answers one earliest-arrival query: depart `start` no earlier than
// depTime, arrive at `end` as early as possible.
func (r *Router) Route(start, end model.StopID, depTime int) (Result, error) {
	if start == end {
		return Result{ArrivalTime: depTime, Journey: nil}, nil
	}

	earliest := make(map[model.StopID]int)
	in := make(map[model.StopID]incoming)
	earliest[start] = depTime

	arrivalAt := func(s model.StopID) int {
		if t, ok := earliest[s]; ok {
			return t
		}
		return maxInt
	}

	for i := range r.store.Connections {
		c := &r.store.Connections[i]

		// 1. Gate: skip connections departing before our window.
		if c.DepartureTime < depTime {
			continue
		}

		reachable := c.DepartureTime >= arrivalAt(c.DepartureStop) &&
			(c.DepartureStop == start || connects(in[c.DepartureStop], c, r.cfg.BaseTransferTime))
		improves := c.ArrivalTime < arrivalAt(c.ArrivalStop)

		if reachable && improves {
			earliest[c.ArrivalStop] = c.ArrivalTime
			in[c.ArrivalStop] = incoming{ride: c}
			r.expandFootpaths(c.ArrivalStop, c.ArrivalTime, earliest, in)
			continue
		}

		// 2. Termination: once a later connection can no longer beat
		// the current best arrival at end, and this one didn't
		// improve anything, no further connection (sorted ascending
		// by departure time) can help.
		if c.ArrivalTime > arrivalAt(end) {
			break
		}
	}

	_, ok := in[end]
	if !ok {
		return Result{}, simerr.ErrNoTransitRoute
	}

	journey := reconstruct(start, end, in)
	return Result{ArrivalTime: earliest[end], Journey: journey}, nil
}

const maxInt = int(^uint(0) >> 1)

// connects implements spec.md §4.1 step 3(b): the incoming connection to
// c's departure stop must "connect" to c, either by being the same trip
// (free on-vehicle continuation) or by leaving enough transfer buffer
// (timetabled predecessor) or by arriving in time (footpath predecessor).
func connects(in incoming, c *model.Connection, baseTransfer int) bool {
	switch {
	case !in.isSet():
		return false
	case in.ride != nil:
		return in.ride.Trip == c.Trip || in.ride.ArrivalTime <= c.DepartureTime-baseTransfer
	default: // in.foot != nil
		return in.foot.ArrivalTime <= c.DepartureTime
	}
}

// expandFootpaths implements spec.md §4.1 step 5: walking from a stop just
// reached to each of its nearby stops, if that improves their arrival.
// Strict "<" per spec.md §8/§9's explicit instruction (not "<=") to avoid
// looping the same footpath back on itself forever.
func (r *Router) expandFootpaths(at model.StopID, arrivedAt int, earliest map[model.StopID]int, in map[model.StopID]incoming) {
	for _, fp := range r.store.FootpathsFrom(at) {
		t := arrivedAt + fp.WalkTimeS
		cur, ok := earliest[fp.ArrivalStop]
		if !ok || t < cur {
			earliest[fp.ArrivalStop] = t
			in[fp.ArrivalStop] = incoming{foot: &model.FootConnection{
				DepartureTime: arrivedAt,
				DepartureStop: at,
				ArrivalTime:   t,
				ArrivalStop:   fp.ArrivalStop,
			}}
		}
	}
}

// reconstruct walks the incoming map backward from end to start, then
// reverses the collected legs into chronological order.
func reconstruct(start, end model.StopID, in map[model.StopID]incoming) []model.Leg {
	var legs []model.Leg
	cur := end
	for cur != start {
		entry := in[cur]
		var leg model.Leg
		if entry.ride != nil {
			leg = model.Leg{Ride: entry.ride}
			legs = append(legs, leg)
			cur = entry.ride.DepartureStop
		} else {
			leg = model.Leg{Foot: entry.foot}
			legs = append(legs, leg)
			cur = entry.foot.DepartureStop
		}
	}
	for i, j := 0, len(legs)-1; i < j; i, j = i+1, j-1 {
		legs[i], legs[j] = legs[j], legs[i]
	}
	return legs
}
