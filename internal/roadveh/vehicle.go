// Package roadveh implements the road-vehicle traversal protocol of
// spec.md §4.3: a vehicle advances a plan of Legs edge-by-edge, mutating
// each edge's occupancy as it enters and leaves, recomputing its cost live
// from current congestion.
//
// Grounded on original_source/road/trip.py's Trip.next and
// original_source/road/router.py's Router.next, generalized from the
// Python generator-style stepper into a Go events.Action closure the way
// jwmdev-brt08/model/bus.go advances a bus one stop at a time.
package roadveh

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/transitlab/citysim/internal/config"
	"github.com/transitlab/citysim/internal/events"
	"github.com/transitlab/citysim/internal/model"
	"github.com/transitlab/citysim/internal/road"
)

// OccupancyEvent is one entry of the monotonic occupancy log spec.md §4.3
// requires as an observable side effect.
type OccupancyEvent struct {
	EdgeKey   model.EdgeKey
	Occupancy int
	Time      int
}

// Recorder consumes occupancy events as they happen; internal/store's
// backends implement it to feed the road_capacities output.
type Recorder interface {
	RecordOccupancy(ev OccupancyEvent)
}

// Vehicle is a single road-network traveler: a bus segment, or a private
// car trip end to end. Its Drive method is an events.Action implementing
// the five-step traversal protocol.
type Vehicle struct {
	ID uuid.UUID

	net *road.Network
	cfg config.Config
	rec Recorder
	log zerolog.Logger

	plan        []model.RoadLeg
	currentEdge *model.RoadEdge
	onArrive    func(time int) []events.Next
}

// NewVehicle builds a road vehicle with an empty plan; call Reset before
// scheduling Drive.
func NewVehicle(net *road.Network, cfg config.Config, rec Recorder, log zerolog.Logger) *Vehicle {
	return &Vehicle{ID: uuid.New(), net: net, cfg: cfg, rec: rec, log: log}
}

// Reset installs a new plan and arrival callback and clears the current
// edge, per spec.md §4.7 step 2b ("route := computed route, current_edge
// := none").
func (v *Vehicle) Reset(plan road.Plan, onArrive func(time int) []events.Next) {
	v.plan = append([]model.RoadLeg(nil), plan.Legs...)
	v.currentEdge = nil
	v.onArrive = onArrive
}

// Drive implements the traversal protocol's five steps. It is the Action
// to schedule (with whatever initial delay the caller wants, zero for an
// immediate start).
func (v *Vehicle) Drive(time int) []events.Next {
	if v.currentEdge != nil {
		v.currentEdge.Occupancy--
		if v.currentEdge.Occupancy < 0 {
			v.log.Warn().Str("edge", strconv.FormatInt(int64(v.currentEdge.Key), 10)).Msg("occupancy went negative, clamping")
			v.currentEdge.Occupancy = 0
		}
		v.record(v.currentEdge, time)
		v.plan = v.plan[1:]
		v.currentEdge = nil
	}

	if len(v.plan) == 0 {
		if v.onArrive == nil {
			return nil
		}
		return v.onArrive(time)
	}

	leg := v.plan[0]
	edge, ok := v.net.Edge(leg.Key)
	if !ok {
		v.log.Error().Str("edge", strconv.FormatInt(int64(leg.Key), 10)).Msg("road vehicle plan references unknown edge")
		if v.onArrive == nil {
			return nil
		}
		return v.onArrive(time)
	}

	cost := road.Cost(edge, v.cfg) * leg.P
	edge.Occupancy++
	v.currentEdge = edge
	v.record(edge, time)

	delay := int(cost + 0.5)
	if delay < 0 {
		delay = 0
	}
	return []events.Next{{Delay: delay, Action: v.Drive}}
}

func (v *Vehicle) record(e *model.RoadEdge, time int) {
	if v.rec == nil {
		return
	}
	v.rec.RecordOccupancy(OccupancyEvent{EdgeKey: e.Key, Occupancy: e.Occupancy, Time: time})
}
